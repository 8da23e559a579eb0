// Package storage provides the BBolt-backed operation journal for lockfs.
//
// Database structure uses two buckets:
//   - meta: schema version and created/modified timestamps
//   - entries: big-endian sequence number -> JSON-encoded Entry
//
// The journal records what was done to which stored item, never the item
// contents. It lives outside the storage roots so clearing an area does
// not touch it.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
