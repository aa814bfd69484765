package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// MaxKeyLen is the longest user key stored verbatim. Longer keys are replaced
// by a digest so provider limits (memcached-style 250 bytes) are never hit.
const MaxKeyLen = 200

// StorageKey namespaces a user key as "<prefix>:<key>", hashing keys longer
// than MaxKeyLen to "<prefix>:#<sha256 hex>".
func StorageKey(prefix, key string) string {
	if len(key) <= MaxKeyLen {
		return prefix + ":" + key
	}
	sum := sha256.Sum256([]byte(key))
	return prefix + ":#" + hex.EncodeToString(sum[:])
}
