package serial

import "time"

// TimeConvention selects how timestamps decoded from a stored payload are
// normalized. Different database drivers hand back wall-clock values in
// different zones (older Postgres drivers materialize local times, newer ones
// force UTC), so the convention is a per-deployment choice made at store
// construction rather than ambient state.
type TimeConvention int

const (
	// TimesUTC normalizes decoded timestamps to UTC. Default.
	TimesUTC TimeConvention = iota
	// TimesLocal normalizes decoded timestamps to the process-local zone.
	TimesLocal
)

// Profile carries the encoding conventions for one deployment.
type Profile struct {
	Times TimeConvention
}

// DefaultProfile returns the UTC profile.
func DefaultProfile() Profile { return Profile{Times: TimesUTC} }

func (p Profile) normalizeTime(t time.Time) time.Time {
	if p.Times == TimesLocal {
		return t.Local()
	}
	return t.UTC()
}
