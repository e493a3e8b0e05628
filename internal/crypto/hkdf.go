package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveWrapKey derives the AEAD key that protects a wrapped DEK.
//
// The derivation uses:
//   - IKM: the shared secret from ECDH or KEM decapsulation
//   - Salt: the random per-wrap salt carried in the wrapped key
//   - Info: context string || rid length (4 bytes BE) || rid
//
// Binding the recipient identifier into the info blocks a wrapped key from
// being presented under a different rid.
func DeriveWrapKey(sharedSecret, salt []byte, rid string) ([]byte, error) {
	ridBytes := []byte(rid)
	ridLength := make([]byte, 4)
	binary.BigEndian.PutUint32(ridLength, uint32(len(ridBytes)))

	info := make([]byte, 0, len(WrapHKDFContext)+4+len(ridBytes))
	info = append(info, WrapHKDFContext...)
	info = append(info, ridLength...)
	info = append(info, ridBytes...)

	return DeriveKey(sharedSecret, salt, info, DEKSize)
}

// DeriveKey derives a key of the given length using HKDF-SHA-256.
// An empty salt is replaced with a zero-filled one per RFC 5869.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, sha256.Size)
	}

	reader := hkdf.New(sha256.New, secret, salt, info)
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}
