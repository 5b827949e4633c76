// Package client contains the boundary to the external identity and data
// service, plus local database bootstrap.
//
// # Overview
//
//  1. A transport-agnostic contract (see the Client interface): current
//     session, session-change subscription, sign-in/up/out, password update,
//     and the profiles table (role lookup and update).
//  2. SupabaseClient, the HTTP implementation against GoTrue (/auth/v1) and
//     PostgREST (/rest/v1). It persists the session through SessionStorage,
//     refreshes expiring access tokens and emits AuthEvents to listeners.
//  3. InitDatabase / RunMigrations, which open the local SQLite file and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Service-reported failures are
// *APIError values; errors.Is(err, ErrUnauthorized) matches 401/403. Use
// UserMessage to get the text the service meant for the user.
//
// # Listener re-entrancy
//
// Listeners run while SupabaseClient holds its session lock. Calling back
// into the client from a listener deadlocks, so consumers must schedule any
// follow-up request on a later turn.
package client
