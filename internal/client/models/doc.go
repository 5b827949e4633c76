// Package models defines the typed records the client works with: the
// session and identity handed out by the auth service, the profile that
// carries the user's role, catalogue entries and user notifications.
//
// Rows coming from the remote service are decoded into wire structs by the
// client package and converted into these types right at the boundary.
package models
