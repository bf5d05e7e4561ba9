// Package serial owns the serialized form of persisted token values: the
// lite-reference record shapes embedded in a token row and the codec that
// reads and writes them under a deployment profile.
package serial

import "encoding/json"

// Codec converts record shapes to and from their stored string form.
// Unmarshal applies the profile's time convention to decoded timestamps;
// Marshal always writes UTC.
type Codec struct {
	profile Profile
}

// NewCodec returns a codec bound to the given profile.
func NewCodec(profile Profile) *Codec {
	return &Codec{profile: profile}
}

// Profile returns the profile the codec was constructed with.
func (c *Codec) Profile() Profile { return c.profile }

// Marshal encodes a record into its stored string form.
func (c *Codec) Marshal(record any) (string, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalToken decodes a stored token handle record.
func (c *Codec) UnmarshalToken(data string) (*TokenRecord, error) {
	var rec TokenRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	rec.normalize(c.profile)
	return &rec, nil
}

// UnmarshalAuthorizationCode decodes a stored authorization code record.
func (c *Codec) UnmarshalAuthorizationCode(data string) (*AuthorizationCodeRecord, error) {
	var rec AuthorizationCodeRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	rec.normalize(c.profile)
	return &rec, nil
}

// UnmarshalRefreshToken decodes a stored refresh token record.
func (c *Codec) UnmarshalRefreshToken(data string) (*RefreshTokenRecord, error) {
	var rec RefreshTokenRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	rec.normalize(c.profile)
	return &rec, nil
}
