package crypto

import "errors"

var (
	// ErrInvalidKeySize is returned when an AEAD key has the wrong size.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when an AEAD nonce has the wrong size.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrUnknownCipher is returned when a cipher identifier is not recognized.
	ErrUnknownCipher = errors.New("unknown cipher")

	// ErrDecryptionFailed is returned when AEAD authentication fails.
	// This covers both a wrong key and tampered ciphertext or AAD.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidPublicKey is returned when a public key cannot be parsed
	// or has the wrong size.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidPrivateKey is returned when a private key cannot be parsed
	// or has the wrong size.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidSecretKeySize is returned when an ML-KEM secret key has the
	// wrong size.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidCiphertextSize is returned when a KEM ciphertext has the
	// wrong size.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidHex is returned when a hex string cannot be decoded.
	ErrInvalidHex = errors.New("invalid hex encoding")

	// ErrHashMismatch is returned when a value does not match its
	// recorded SHA-256 hash.
	ErrHashMismatch = errors.New("hash mismatch")
)
