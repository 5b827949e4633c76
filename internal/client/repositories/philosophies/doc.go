// Package philosophies persists the article catalogue in the local SQLite
// database. List fields (paragraphs, principles) are stored as JSON arrays
// in text columns; timestamps are unix seconds.
package philosophies
