package dekbox

import (
	"fmt"

	"github.com/dekbox/console-go/internal/crypto"
)

// RawEncryption is the output of EncryptTextRaw: the sealed payload, the
// fresh DEK it was sealed under, and integrity hashes. The DEK is the key
// that gets wrapped once per recipient.
type RawEncryption struct {
	// CiphertextB64url is the AEAD output (ciphertext || tag), base64url.
	CiphertextB64url string `json:"ciphertextB64url"`
	// NonceB64url is the AEAD nonce, base64url.
	NonceB64url string `json:"nonceB64url"`
	// Key is the raw 32-byte data-encryption key.
	// Demo only: never expose a DEK like this in a real system.
	Key []byte `json:"-"`
	// CiphertextHash is "sha256:<hex>" over the ciphertext bytes.
	CiphertextHash string `json:"ciphertextHash"`
	// AADHash is "sha256:<hex>" over the associated-data text.
	// Empty when no associated data was supplied.
	AADHash string `json:"aadHash,omitempty"`
}

// EncryptTextRaw encrypts plaintext under a freshly generated DEK with the
// given cipher. The optional associated-data text is authenticated but not
// encrypted; an empty string means none.
func EncryptTextRaw(plaintext string, cipher Cipher, aadText string) (*RawEncryption, error) {
	if !cipher.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, cipher)
	}

	key, err := crypto.NewDEK()
	if err != nil {
		return nil, fmt.Errorf("generate DEK: %w", err)
	}

	nonce, err := crypto.NewNonce()
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext, err := crypto.Seal(string(cipher), key, nonce, []byte(plaintext), aadBytes(aadText))
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	raw := &RawEncryption{
		CiphertextB64url: crypto.ToBase64URL(ciphertext),
		NonceB64url:      crypto.ToBase64URL(nonce),
		Key:              key,
		CiphertextHash:   crypto.SHA256Hex(ciphertext),
	}
	if aadText != "" {
		raw.AADHash = crypto.SHA256Hex([]byte(aadText))
	}

	return raw, nil
}
