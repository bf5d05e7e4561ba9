package serial

import "github.com/tokenforge/idpersist/domain"

// Mapping between domain objects and their stored record shapes. Encoding
// flattens object references into lites; decoding rebuilds everything except
// the client and scope references, which the stores resolve against their
// collaborators afterwards.

func encodeClaims(claims []domain.Claim) []ClaimLite {
	out := make([]ClaimLite, 0, len(claims))
	for _, c := range claims {
		out = append(out, ClaimLite{Type: c.Type, Value: c.Value})
	}
	return out
}

func decodeClaims(claims []ClaimLite) []domain.Claim {
	out := make([]domain.Claim, 0, len(claims))
	for _, c := range claims {
		out = append(out, domain.Claim{Type: c.Type, Value: c.Value})
	}
	return out
}

func encodePrincipal(p *domain.ClaimsPrincipal) ClaimsPrincipalLite {
	if p == nil {
		return ClaimsPrincipalLite{}
	}
	return ClaimsPrincipalLite{
		AuthenticationType: p.AuthenticationType,
		Claims:             encodeClaims(p.Claims),
	}
}

func decodePrincipal(p ClaimsPrincipalLite) *domain.ClaimsPrincipal {
	return &domain.ClaimsPrincipal{
		AuthenticationType: p.AuthenticationType,
		Claims:             decodeClaims(p.Claims),
	}
}

// EncodeToken flattens a token handle value for storage.
func EncodeToken(t *domain.Token) TokenRecord {
	return TokenRecord{
		Audience:     t.Audience,
		Issuer:       t.Issuer,
		CreationTime: t.CreationTime.UTC(),
		Lifetime:     t.Lifetime,
		Type:         t.Type,
		Client:       ClientLite{ClientID: t.ClientID()},
		Claims:       encodeClaims(t.Claims),
		Version:      t.Version,
	}
}

// DecodeToken rebuilds a token handle value. The Client field is left nil
// for the caller to resolve from the record's client lite.
func DecodeToken(r *TokenRecord) *domain.Token {
	return &domain.Token{
		Audience:     r.Audience,
		Issuer:       r.Issuer,
		CreationTime: r.CreationTime,
		Lifetime:     r.Lifetime,
		Type:         r.Type,
		Claims:       decodeClaims(r.Claims),
		Version:      r.Version,
	}
}

// EncodeAuthorizationCode flattens an authorization code for storage.
func EncodeAuthorizationCode(c *domain.AuthorizationCode) AuthorizationCodeRecord {
	scopes := make([]ScopeLite, 0, len(c.RequestedScopes))
	for _, s := range c.RequestedScopes {
		if s != nil {
			scopes = append(scopes, ScopeLite{Name: s.Name})
		}
	}
	return AuthorizationCodeRecord{
		CreationTime:        c.CreationTime.UTC(),
		Client:              ClientLite{ClientID: c.ClientID()},
		Subject:             encodePrincipal(c.Subject),
		IsOpenID:            c.IsOpenID,
		RequestedScopes:     scopes,
		RedirectURI:         c.RedirectURI,
		Nonce:               c.Nonce,
		WasConsentShown:     c.WasConsentShown,
		SessionID:           c.SessionID,
		CodeChallenge:       c.CodeChallenge,
		CodeChallengeMethod: c.CodeChallengeMethod,
	}
}

// DecodeAuthorizationCode rebuilds an authorization code. Client and
// RequestedScopes are left unresolved for the caller.
func DecodeAuthorizationCode(r *AuthorizationCodeRecord) *domain.AuthorizationCode {
	return &domain.AuthorizationCode{
		CreationTime:        r.CreationTime,
		Subject:             decodePrincipal(r.Subject),
		IsOpenID:            r.IsOpenID,
		RedirectURI:         r.RedirectURI,
		Nonce:               r.Nonce,
		WasConsentShown:     r.WasConsentShown,
		SessionID:           r.SessionID,
		CodeChallenge:       r.CodeChallenge,
		CodeChallengeMethod: r.CodeChallengeMethod,
	}
}

// EncodeRefreshToken flattens a refresh token for storage.
func EncodeRefreshToken(t *domain.RefreshToken) RefreshTokenRecord {
	rec := RefreshTokenRecord{
		CreationTime: t.CreationTime.UTC(),
		LifeTime:     t.LifeTime,
		Subject:      encodePrincipal(t.Subject),
		Version:      t.Version,
	}
	if t.AccessToken != nil {
		rec.AccessToken = EncodeToken(t.AccessToken)
	}
	return rec
}

// DecodeRefreshToken rebuilds a refresh token. The embedded access token's
// Client is left unresolved for the caller.
func DecodeRefreshToken(r *RefreshTokenRecord) *domain.RefreshToken {
	return &domain.RefreshToken{
		CreationTime: r.CreationTime,
		LifeTime:     r.LifeTime,
		AccessToken:  DecodeToken(&r.AccessToken),
		Subject:      decodePrincipal(r.Subject),
		Version:      r.Version,
	}
}
