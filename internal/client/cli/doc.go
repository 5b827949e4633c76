// Package cli is the interactive terminal client for the Japanese
// philosophies catalogue.
//
// It wires configuration, the local SQLite mirror, the Supabase auth
// client, the session store and the route guard into a REPL. Pages are
// addressed by the same routes as the web app ("/", "/auth", "/admin",
// "/account", "/philosophy/<id>") and every protected page is checked by
// the guard before it renders.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
