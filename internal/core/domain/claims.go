package domain

import "time"

// Claims is the decoded payload of a verified bearer token.
type Claims struct {
	Username string
	TokenID  string
	IssuedAt time.Time
	// ExpiresAt is zero for tokens issued without an expiry.
	ExpiresAt time.Time
}
