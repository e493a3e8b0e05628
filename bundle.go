package dekbox

import (
	"encoding/json"
	"fmt"
	"os"
)

// RawPayload carries the sealed payload of a bundle or vector.
type RawPayload struct {
	// CiphertextB64url is the AEAD output (ciphertext || tag), base64url.
	CiphertextB64url string `json:"ciphertextB64url"`
	// NonceB64url is the AEAD nonce, base64url.
	NonceB64url string `json:"nonceB64url"`
	// CiphertextHash is "sha256:<hex>" over the ciphertext bytes.
	CiphertextHash string `json:"ciphertextHash"`
	// AADHash is "sha256:<hex>" over the associated-data text, if any.
	AADHash string `json:"aadHash,omitempty"`
}

// Bundle is the console's portable multi-recipient demo document: raw
// ciphertext, the envelope, and (for demonstration only) the recipient
// key material needed to open it.
//
// WARNING: a bundle contains private keys in plaintext. It exists to move
// demo state between tabs and files, nothing more.
type Bundle struct {
	// AADText is the associated-data text used at encryption time.
	AADText string `json:"aadText,omitempty"`
	// Raw is the sealed payload.
	Raw RawPayload `json:"raw"`
	// Envelope describes the cipher, hashes, and per-recipient wrapped keys.
	Envelope *Envelope `json:"envelope"`
	// RecipientPrivHexByRID maps rid to private key material: hex for
	// secp256k1 recipients, base64url for ML-KEM-768 recipients.
	RecipientPrivHexByRID map[string]string `json:"recipientPrivHexByRid,omitempty"`
	// RecipientPubHexByRID maps rid to the matching public key material.
	RecipientPubHexByRID map[string]string `json:"recipientPubHexByRid,omitempty"`
}

// Validate checks the structural invariants of a bundle. A bundle missing
// required raw fields or envelope recipients is rejected here, before any
// cryptographic call is attempted.
func (b *Bundle) Validate() error {
	if b.Raw.CiphertextB64url == "" {
		return &BundleError{Field: "raw.ciphertextB64url", Message: "required"}
	}
	if b.Raw.NonceB64url == "" {
		return &BundleError{Field: "raw.nonceB64url", Message: "required"}
	}
	if b.Envelope == nil {
		return &BundleError{Field: "envelope", Message: "required"}
	}
	if len(b.Envelope.Access.Recipients) == 0 {
		return &BundleError{Field: "envelope.access.recipients", Message: "at least one recipient is required"}
	}

	if err := ValidateEnvelope(b.Envelope); err != nil {
		return &BundleError{Field: "envelope", Message: err.Error()}
	}

	return nil
}

// Decrypt unwraps the DEK for rid with the private key carried in the
// bundle, then decrypts the payload. The bundle's AADText is used as the
// associated data.
func (b *Bundle) Decrypt(rid string) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}

	recipient, ok := b.Envelope.Recipient(rid)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRecipientNotFound, rid)
	}

	priv, ok := b.RecipientPrivHexByRID[rid]
	if !ok || priv == "" {
		return "", &BundleError{Field: "recipientPrivHexByRid",
			Message: fmt.Sprintf("no private key for rid %q", rid)}
	}

	var key []byte
	var err error
	switch recipient.Scheme {
	case SchemeSecp256k1:
		key, err = UnwrapDEKSecp256k1(recipient.WrappedKey, priv, b.AADText)
	case SchemeMLKEM768:
		key, err = UnwrapDEKMLKEM768(recipient.WrappedKey, priv, b.AADText)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, recipient.Scheme)
	}
	if err != nil {
		return "", err
	}

	return DecryptTextFromEnvelope(b.Envelope, key, b.Raw.CiphertextB64url, b.Raw.NonceB64url, b.AADText)
}

// ParseBundle unmarshals and validates a bundle document.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, &BundleError{Field: "json", Message: err.Error()}
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &b, nil
}

// ExportBundleToFile writes a bundle to a JSON file with secure permissions
// (0600), since it contains private key material.
func ExportBundleToFile(b *Bundle, filePath string) error {
	if b == nil {
		return fmt.Errorf("bundle is nil")
	}
	if err := b.Validate(); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// ImportBundleFromFile reads and validates a bundle from a JSON file.
func ImportBundleFromFile(filePath string) (*Bundle, error) {
	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return ParseBundle(jsonData)
}
