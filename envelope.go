package dekbox

import (
	"fmt"

	"github.com/dekbox/console-go/internal/crypto"
	"github.com/dekbox/console-go/internal/wk1"
)

// EnvelopeVersion is the current envelope document version.
const EnvelopeVersion = 1

// EnvelopeRecipient is one entry in an envelope's access list: a recipient
// identifier, its key material, and the DEK wrapped to it.
type EnvelopeRecipient struct {
	// RID is the recipient identifier.
	RID string `json:"rid"`
	// Scheme is the key-wrap scheme used for this recipient.
	Scheme Scheme `json:"scheme"`
	// Pub is the recipient public key: hex for secp256k1, base64url for
	// ML-KEM-768. Informational; unwrapping needs only the wrapped key.
	Pub string `json:"pub"`
	// WrappedKey is the wk1 wrapped-key string for this recipient.
	WrappedKey string `json:"wrappedKey"`
}

// EnvelopeAccess lists who can unwrap the envelope's DEK.
type EnvelopeAccess struct {
	Recipients []EnvelopeRecipient `json:"recipients"`
}

// Envelope is the structured document describing a sealed payload: cipher,
// key-wrap metadata, integrity hashes, and per-recipient wrapped keys. The
// ciphertext itself travels separately (in a bundle or vector).
type Envelope struct {
	// V is the envelope version. MUST be 1.
	V int `json:"v"`
	// Cipher is the AEAD the payload was sealed with.
	Cipher Cipher `json:"cipher"`
	// KDF names the derivation used for wrapped keys.
	KDF string `json:"kdf"`
	// CiphertextHash is "sha256:<hex>" over the ciphertext bytes.
	CiphertextHash string `json:"ciphertextHash"`
	// AADHash is "sha256:<hex>" over the associated-data text, if any.
	AADHash string `json:"aadHash,omitempty"`
	// Access lists the recipients that can unwrap the DEK.
	Access EnvelopeAccess `json:"access"`
}

// ValidateEnvelope checks the structural invariants of an envelope document.
// It performs no cryptographic operations.
func ValidateEnvelope(env *Envelope) error {
	if env == nil {
		return &EnvelopeError{Field: "envelope", Message: "document is missing"}
	}
	if env.V != EnvelopeVersion {
		return &EnvelopeError{Field: "v", Message: fmt.Sprintf("unsupported version %d, expected %d", env.V, EnvelopeVersion)}
	}
	if !env.Cipher.Known() {
		return &EnvelopeError{Field: "cipher", Message: fmt.Sprintf("unknown cipher %q", env.Cipher)}
	}
	if env.CiphertextHash == "" {
		return &EnvelopeError{Field: "ciphertextHash", Message: "required"}
	}
	if len(env.Access.Recipients) == 0 {
		return &EnvelopeError{Field: "access.recipients", Message: "at least one recipient is required"}
	}

	seen := make(map[string]struct{}, len(env.Access.Recipients))
	for i, r := range env.Access.Recipients {
		field := fmt.Sprintf("access.recipients[%d]", i)
		if r.RID == "" {
			return &EnvelopeError{Field: field + ".rid", Message: "required"}
		}
		if _, dup := seen[r.RID]; dup {
			return &EnvelopeError{Field: field + ".rid", Message: fmt.Sprintf("duplicate rid %q", r.RID)}
		}
		seen[r.RID] = struct{}{}

		if !r.Scheme.Known() {
			return &EnvelopeError{Field: field + ".scheme", Message: fmt.Sprintf("unknown scheme %q", r.Scheme)}
		}
		if r.Pub == "" {
			return &EnvelopeError{Field: field + ".pub", Message: "required"}
		}

		body, err := wk1.Parse(r.WrappedKey)
		if err != nil {
			return &EnvelopeError{Field: field + ".wrappedKey", Message: err.Error()}
		}
		if body.RID != r.RID {
			return &EnvelopeError{Field: field + ".wrappedKey", Message: fmt.Sprintf("wrapped for rid %q, entry says %q", body.RID, r.RID)}
		}
	}

	return nil
}

// BuildEnvelope assembles an envelope from an encryption result and the
// recipients the DEK was wrapped to. The recipients' wrapped keys must have
// been produced from raw.Key.
func BuildEnvelope(raw *RawEncryption, cipher Cipher, recipients []EnvelopeRecipient) (*Envelope, error) {
	if raw == nil {
		return nil, &EnvelopeError{Field: "raw", Message: "encryption result is missing"}
	}

	env := &Envelope{
		V:              EnvelopeVersion,
		Cipher:         cipher,
		KDF:            KDFName,
		CiphertextHash: raw.CiphertextHash,
		AADHash:        raw.AADHash,
		Access:         EnvelopeAccess{Recipients: recipients},
	}

	if err := ValidateEnvelope(env); err != nil {
		return nil, err
	}

	return env, nil
}

// Recipient returns the access entry for rid.
func (e *Envelope) Recipient(rid string) (*EnvelopeRecipient, bool) {
	for i := range e.Access.Recipients {
		if e.Access.Recipients[i].RID == rid {
			return &e.Access.Recipients[i], true
		}
	}
	return nil, false
}

// DecryptTextFromEnvelope decrypts a payload described by an envelope using
// an already-unwrapped raw DEK. It validates the envelope and verifies the
// ciphertext hash (and AAD hash, when the envelope carries one) before any
// AEAD call, so tampered input is rejected with ErrHashMismatch rather than
// a bare authentication failure.
func DecryptTextFromEnvelope(env *Envelope, key []byte, ciphertextB64url, nonceB64url, aadText string) (string, error) {
	if err := ValidateEnvelope(env); err != nil {
		return "", err
	}

	ciphertext, err := crypto.DecodeBase64(ciphertextB64url)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	nonce, err := crypto.DecodeBase64(nonceB64url)
	if err != nil {
		return "", fmt.Errorf("decode nonce: %w", err)
	}

	if err := crypto.CheckSHA256(ciphertext, env.CiphertextHash); err != nil {
		return "", fmt.Errorf("%w: ciphertext", ErrHashMismatch)
	}

	if env.AADHash != "" {
		if aadText == "" {
			return "", fmt.Errorf("%w: envelope requires associated data", ErrHashMismatch)
		}
		if err := crypto.CheckSHA256([]byte(aadText), env.AADHash); err != nil {
			return "", fmt.Errorf("%w: associated data", ErrHashMismatch)
		}
	}

	plaintext, err := crypto.Open(string(env.Cipher), key, nonce, ciphertext, aadBytes(aadText))
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}
