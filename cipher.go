package dekbox

import (
	"fmt"

	"github.com/dekbox/console-go/internal/crypto"
)

// Cipher identifies the AEAD used for payload encryption.
type Cipher string

// Supported ciphers.
const (
	CipherAES256GCM        Cipher = crypto.CipherAES256GCM
	CipherChaCha20Poly1305 Cipher = crypto.CipherChaCha20Poly1305
)

// Known reports whether the cipher is supported.
func (c Cipher) Known() bool {
	return crypto.KnownCipher(string(c))
}

// Scheme identifies the key-wrapping scheme for a recipient.
type Scheme string

// Supported wrap schemes.
const (
	// SchemeSecp256k1 wraps the DEK via ephemeral secp256k1 ECDH.
	// Recipient keys are hex: a 32-byte private scalar and a 33-byte
	// compressed public key.
	SchemeSecp256k1 Scheme = "secp256k1"

	// SchemeMLKEM768 wraps the DEK via ML-KEM-768 encapsulation.
	// Recipient keys are base64url packed key bytes.
	SchemeMLKEM768 Scheme = "mlkem768"
)

// Known reports whether the scheme is supported.
func (s Scheme) Known() bool {
	return s == SchemeSecp256k1 || s == SchemeMLKEM768
}

// KDFName is the key derivation function used for wrapped keys.
const KDFName = crypto.KDFName

// EncodeKeyB64url renders raw key bytes in the base64url form the console
// moves DEKs around in.
func EncodeKeyB64url(key []byte) string {
	return crypto.ToBase64URL(key)
}

// DecodeKeyB64url decodes a base64url DEK and checks its size.
func DecodeKeyB64url(s string) ([]byte, error) {
	key, err := crypto.DecodeBase64(s)
	if err != nil {
		return nil, err
	}
	if len(key) != crypto.DEKSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", crypto.ErrInvalidKeySize, len(key), crypto.DEKSize)
	}
	return key, nil
}

// aadBytes converts the optional associated-data text into AEAD input.
// Empty text means no associated data at all, not empty associated data.
func aadBytes(aadText string) []byte {
	if aadText == "" {
		return nil
	}
	return []byte(aadText)
}
