package docverify

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashDocument computes the SHA-256 fingerprint of canonical payload
// bytes, returned as lowercase hex. The digest is content-addressed:
// it depends only on the bytes, never on issuance time or identity.
func HashDocument(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
