// Package storage provides the persistence substrates for learner data:
// a string-keyed KeyValueStore for JSON aggregates and a BlobCache for
// downloaded word-bank payloads.
package storage

// KeyValueStore defines synchronous string-keyed storage for
// JSON-serializable values. All JSON encoding and decoding is the
// caller's responsibility.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}
