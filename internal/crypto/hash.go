package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strings"
)

// hashPrefix tags hash strings with the algorithm that produced them.
const hashPrefix = "sha256:"

// SHA256Hex hashes data with SHA-256 and returns "sha256:<hex>".
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hashPrefix + ToHex(sum[:])
}

// CheckSHA256 verifies that data matches a hash string produced by
// [SHA256Hex]. The comparison is constant-time.
func CheckSHA256(data []byte, want string) error {
	if !strings.HasPrefix(want, hashPrefix) {
		return fmt.Errorf("%w: expected %q prefix", ErrHashMismatch, hashPrefix)
	}

	wantSum, err := FromHexExact(strings.TrimPrefix(want, hashPrefix), sha256.Size)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHashMismatch, err)
	}

	sum := sha256.Sum256(data)
	if !hmac.Equal(sum[:], wantSum) {
		return ErrHashMismatch
	}

	return nil
}
