// Package storage persists the bearer token of the smsauth client.
//
// A TokenStore holds exactly one slot. Three engines are provided:
//
//   - FileStore: a JSON file written atomically with mode 0600, optionally
//     sealed with a passphrase-derived key (seal.go)
//   - BadgerStore: an embedded Badger database, for hosts that already keep
//     client state in one
//   - MemoryStore: process-local, for tests and token.store: memory
//
// Open builds the engine named in the configuration.
package storage
