// Package model defines domain entities for the application.
package model

import "time"

// Session is the authenticated identity attached to a request after the
// auth middleware accepts a token. Token carries the exact string the
// client presented so logout can blacklist precisely what was issued,
// and ExpiresAt carries the token's own expiry so the blacklist entry
// never outlives it.
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}
