package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/tokenforge/idpersist/domain"
	"github.com/tokenforge/idpersist/store"
)

// ScopeStore persists scope registrations. Scope claims are stored as a
// JSON column.
type ScopeStore struct {
	session *Session
}

var _ store.Scopes = (*ScopeStore)(nil)

// NewScopeStore builds the store over a session.
func NewScopeStore(session *Session) *ScopeStore {
	return &ScopeStore{session: session}
}

// CreateScope inserts the registration. A duplicate name violates the
// unique constraint and surfaces as a storage error.
func (st *ScopeStore) CreateScope(ctx context.Context, scope *domain.Scope) error {
	claims, err := json.Marshal(scope.Claims)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return st.session.InTransaction(ctx, func(s *Session) error {
		_, err := s.exec(ctx,
			`INSERT INTO scopes (
			   name, display_name, description, scope_type,
			   required, emphasize, include_all_claims_for_user,
			   show_in_discovery_document, enabled, claims,
			   created_at, updated_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			scope.Name, scope.DisplayName, scope.Description, string(scope.Type),
			boolInt(scope.Required), boolInt(scope.Emphasize), boolInt(scope.IncludeAllClaimsForUser),
			boolInt(scope.ShowInDiscoveryDocument), boolInt(scope.Enabled), string(claims),
			now, now)
		return err
	})
}

// FindScopesByNames returns the scopes matching the given names. Unknown
// names are simply absent from the result; an empty input yields an empty
// result without touching the database.
func (st *ScopeStore) FindScopesByNames(ctx context.Context, names []string) ([]*domain.Scope, error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(names)-1) + "?"
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}

	rows, err := st.session.query(ctx,
		scopeSelect+` WHERE name IN (`+placeholders+`) ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectScopes(rows)
}

// GetScopes returns all scopes; with publicOnly set, only those shown in
// the discovery document.
func (st *ScopeStore) GetScopes(ctx context.Context, publicOnly bool) ([]*domain.Scope, error) {
	query := scopeSelect + ` ORDER BY name`
	if publicOnly {
		query = scopeSelect + ` WHERE show_in_discovery_document = 1 ORDER BY name`
	}

	rows, err := st.session.query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectScopes(rows)
}

// DeleteScope removes the registration. Idempotent.
func (st *ScopeStore) DeleteScope(ctx context.Context, name string) error {
	return st.session.InTransaction(ctx, func(s *Session) error {
		_, err := s.exec(ctx, `DELETE FROM scopes WHERE name = ?`, name)
		return err
	})
}

const scopeSelect = `SELECT
	name, display_name, description, scope_type,
	required, emphasize, include_all_claims_for_user,
	show_in_discovery_document, enabled, claims,
	created_at, updated_at
  FROM scopes`

func collectScopes(rows *sql.Rows) ([]*domain.Scope, error) {
	var out []*domain.Scope
	for rows.Next() {
		var (
			sc         domain.Scope
			scopeType  string
			required   int
			emphasize  int
			includeAll int
			discovery  int
			enabled    int
			claims     string
		)
		err := rows.Scan(
			&sc.Name, &sc.DisplayName, &sc.Description, &scopeType,
			&required, &emphasize, &includeAll,
			&discovery, &enabled, &claims,
			&sc.CreatedAt, &sc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		sc.Type = domain.ScopeType(scopeType)
		sc.Required = required != 0
		sc.Emphasize = emphasize != 0
		sc.IncludeAllClaimsForUser = includeAll != 0
		sc.ShowInDiscoveryDocument = discovery != 0
		sc.Enabled = enabled != 0
		if err := json.Unmarshal([]byte(claims), &sc.Claims); err != nil {
			return nil, err
		}
		out = append(out, &sc)
	}
	return out, rows.Err()
}
