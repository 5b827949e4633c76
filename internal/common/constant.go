// Package common contains shared constants, sentinel errors and small helpers
// used across the client packages.
package common

// Header names understood by the Supabase gateway.
const (
	APIKeyHeaderName        = "apikey"
	AuthorizationHeaderName = "Authorization"
	PreferHeaderName        = "Prefer"
)
