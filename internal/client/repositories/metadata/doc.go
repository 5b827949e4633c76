// Package metadata is the local key/value table. The auth client persists
// its session under a single key here, the way a browser would use local
// storage.
package metadata
