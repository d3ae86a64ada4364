package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key builds a namespaced cache key of the form "namespace:<hash(id)>".
// Hashing keeps arbitrary ids (such as bucket URLs) safe for every backend.
func Key(namespace, id string) string {
	return namespace + ":" + Hash([]byte(id))
}
