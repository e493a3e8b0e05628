package dekbox

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Vector is the legacy single-recipient demo convention, kept so older
// exported files and the self-test tab still work. New code should prefer
// Bundle.
type Vector struct {
	// Raw is the sealed payload.
	Raw RawPayload `json:"raw"`
	// Envelope describes the cipher, hashes, and the single recipient.
	Envelope *Envelope `json:"envelope"`
	// WrappedKey is the wk1 wrapped-key string for the recipient.
	WrappedKey string `json:"wrappedKey"`
	// RID is the recipient identifier.
	RID string `json:"rid"`
	// RecipientPubHex is the recipient public key (hex for secp256k1,
	// base64url for ML-KEM-768).
	RecipientPubHex string `json:"recipientPubHex"`
	// RecipientPrivHex is the matching private key. Demo only.
	RecipientPrivHex string `json:"recipientPrivHex"`
	// AADText is the associated-data text used at encryption time.
	AADText string `json:"aadText,omitempty"`
}

// GenerateVector produces a self-contained test vector: fresh recipient
// keys, a fresh DEK, an encrypted payload, and the DEK wrapped to the
// recipient. The rid is a random UUID.
func GenerateVector(plaintext string, cipher Cipher, scheme Scheme, aadText string) (*Vector, error) {
	if !scheme.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	rid := uuid.NewString()

	var privKey, pubKey string
	var err error
	switch scheme {
	case SchemeSecp256k1:
		privKey, pubKey, err = GenerateRecipientSecp256k1()
	case SchemeMLKEM768:
		privKey, pubKey, err = GenerateRecipientMLKEM768()
	}
	if err != nil {
		return nil, fmt.Errorf("generate recipient keys: %w", err)
	}

	raw, err := EncryptTextRaw(plaintext, cipher, aadText)
	if err != nil {
		return nil, err
	}

	var wrapped string
	switch scheme {
	case SchemeSecp256k1:
		wrapped, err = WrapDEKSecp256k1(raw.Key, pubKey, rid, aadText)
	case SchemeMLKEM768:
		wrapped, err = WrapDEKMLKEM768(raw.Key, pubKey, rid, aadText)
	}
	if err != nil {
		return nil, err
	}

	env, err := BuildEnvelope(raw, cipher, []EnvelopeRecipient{
		{RID: rid, Scheme: scheme, Pub: pubKey, WrappedKey: wrapped},
	})
	if err != nil {
		return nil, err
	}

	return &Vector{
		Raw: RawPayload{
			CiphertextB64url: raw.CiphertextB64url,
			NonceB64url:      raw.NonceB64url,
			CiphertextHash:   raw.CiphertextHash,
			AADHash:          raw.AADHash,
		},
		Envelope:         env,
		WrappedKey:       wrapped,
		RID:              rid,
		RecipientPubHex:  pubKey,
		RecipientPrivHex: privKey,
		AADText:          aadText,
	}, nil
}

// Validate checks the structural invariants of a vector.
func (v *Vector) Validate() error {
	if v.Raw.CiphertextB64url == "" || v.Raw.NonceB64url == "" {
		return fmt.Errorf("%w: raw payload is incomplete", ErrInvalidVector)
	}
	if v.WrappedKey == "" {
		return fmt.Errorf("%w: wrappedKey is required", ErrInvalidVector)
	}
	if v.RID == "" {
		return fmt.Errorf("%w: rid is required", ErrInvalidVector)
	}
	if v.RecipientPrivHex == "" {
		return fmt.Errorf("%w: recipientPrivHex is required", ErrInvalidVector)
	}
	if err := ValidateEnvelope(v.Envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVector, err)
	}
	if _, ok := v.Envelope.Recipient(v.RID); !ok {
		return fmt.Errorf("%w: envelope has no entry for rid %q", ErrInvalidVector, v.RID)
	}
	return nil
}

// Verify runs the full round trip the self-test tab exercises: unwrap the
// DEK with the vector's private key, then decrypt the payload. Returns the
// recovered plaintext.
func (v *Vector) Verify() (string, error) {
	if err := v.Validate(); err != nil {
		return "", err
	}

	recipient, _ := v.Envelope.Recipient(v.RID)

	var key []byte
	var err error
	switch recipient.Scheme {
	case SchemeSecp256k1:
		key, err = UnwrapDEKSecp256k1(v.WrappedKey, v.RecipientPrivHex, v.AADText)
	case SchemeMLKEM768:
		key, err = UnwrapDEKMLKEM768(v.WrappedKey, v.RecipientPrivHex, v.AADText)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, recipient.Scheme)
	}
	if err != nil {
		return "", err
	}

	return DecryptTextFromEnvelope(v.Envelope, key, v.Raw.CiphertextB64url, v.Raw.NonceB64url, v.AADText)
}

// Bundle upgrades the legacy single-recipient vector to the bundle
// convention used by the encrypt and decrypt tabs.
func (v *Vector) Bundle() *Bundle {
	return &Bundle{
		AADText:  v.AADText,
		Raw:      v.Raw,
		Envelope: v.Envelope,
		RecipientPrivHexByRID: map[string]string{
			v.RID: v.RecipientPrivHex,
		},
		RecipientPubHexByRID: map[string]string{
			v.RID: v.RecipientPubHex,
		},
	}
}

// ParseVector unmarshals and validates a vector document.
func ParseVector(data []byte) (*Vector, error) {
	var v Vector
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVector, err)
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}

	return &v, nil
}
