// Package session keeps the client's view of who is signed in.
//
// A Store follows the auth service's change events, loads the signed-in
// user's profile on the next turn of a Scheduler, derives the admin flag
// from it and runs the sign-in, sign-up, sign-out, change-password and
// role actions on behalf of the UI. Every change is announced on the
// channel returned by Changed so that page checks can re-evaluate.
package session
