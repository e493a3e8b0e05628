package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// newAEAD constructs the AEAD for a cipher identifier. Both supported
// ciphers take a 32-byte key and a 12-byte nonce and produce a 16-byte tag.
func newAEAD(cipherID string, key []byte) (cipher.AEAD, error) {
	if len(key) != DEKSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), DEKSize)
	}

	switch cipherID {
	case CipherAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case CipherChaCha20Poly1305:
		return chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, cipherID)
	}
}

// Seal encrypts plaintext under the given cipher, key, and nonce.
// Returns ciphertext || tag.
func Seal(cipherID string, key, nonce, plaintext, aad []byte) ([]byte, error) {
	aead, err := newAEAD(cipherID, key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}

	return aead.Seal(nil, nonce, plaintext, aad), nil
}

// Open decrypts ciphertext || tag produced by Seal. Authentication failure
// (wrong key, tampered ciphertext, or mismatched AAD) yields
// ErrDecryptionFailed without further detail.
func Open(cipherID string, key, nonce, ciphertext, aad []byte) ([]byte, error) {
	aead, err := newAEAD(cipherID, key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// KnownCipher reports whether cipherID names a supported AEAD.
func KnownCipher(cipherID string) bool {
	return cipherID == CipherAES256GCM || cipherID == CipherChaCha20Poly1305
}

// NewDEK generates a fresh random data-encryption key.
func NewDEK() ([]byte, error) {
	return randomBytes(DEKSize)
}

// NewNonce generates a fresh random AEAD nonce.
func NewNonce() ([]byte, error) {
	return randomBytes(NonceSize)
}

// NewSalt generates a fresh random HKDF salt for key wrapping.
func NewSalt() ([]byte, error) {
	return randomBytes(WrapSaltSize)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}
