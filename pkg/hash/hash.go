package hash

import (
	"crypto/sha1"
	"encoding/hex"
)

// Sha1 returns the hex-encoded sha1 digest of s. Used for content-keyed
// cache filenames, not for anything security relevant.
func Sha1(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
