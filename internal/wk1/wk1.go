// Package wk1 implements the "wk1" textual wrapped-key format, version 1.
//
// A wrapped key is the fixed prefix "wk1." followed by the base64url
// encoding (no padding) of a JSON body carrying the wrap algorithm, the
// recipient identifier, the key-agreement material (ephemeral public key or
// KEM ciphertext), the HKDF salt, and the sealed DEK.
package wk1

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Prefix identifies format version 1. Every wrapped key starts with it.
const Prefix = "wk1."

// Wrap algorithm identifiers.
const (
	AlgSecp256k1 = "secp256k1"
	AlgMLKEM768  = "mlkem768"
)

var (
	// ErrBadPrefix is returned when a wrapped key does not start with the
	// expected prefix.
	ErrBadPrefix = fmt.Errorf("wrapped key must start with %q", Prefix)

	// ErrMalformed is returned when the body cannot be decoded or is missing
	// required fields.
	ErrMalformed = errors.New("malformed wrapped key")

	// ErrUnsupportedVersion is returned for a body version other than 1.
	ErrUnsupportedVersion = errors.New("unsupported wrapped key version")

	// ErrUnknownAlg is returned for an unrecognized wrap algorithm.
	ErrUnknownAlg = errors.New("unknown wrap algorithm")
)

// Body is the JSON payload of a wk1 wrapped key.
type Body struct {
	// V is the format version. MUST be 1.
	V int `json:"v"`
	// Alg is the wrap algorithm: "secp256k1" or "mlkem768".
	Alg string `json:"alg"`
	// RID is the recipient identifier the DEK was wrapped for.
	RID string `json:"rid"`
	// EphPub is the compressed ephemeral secp256k1 public key, hex.
	// Present only for Alg == "secp256k1".
	EphPub string `json:"epk,omitempty"`
	// KemCt is the ML-KEM-768 ciphertext, base64url.
	// Present only for Alg == "mlkem768".
	KemCt string `json:"kem,omitempty"`
	// Salt is the per-wrap HKDF salt, base64url.
	Salt string `json:"salt"`
	// Nonce is the AEAD nonce protecting the DEK, base64url.
	Nonce string `json:"nonce"`
	// Ct is the sealed DEK (ciphertext || tag), base64url.
	Ct string `json:"ct"`
}

// Encode serializes a body into its textual wk1 form.
func Encode(b *Body) (string, error) {
	if err := validate(b); err != nil {
		return "", err
	}

	raw, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal wrapped key body: %w", err)
	}

	return Prefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// Parse decodes a textual wrapped key. It rejects a missing or wrong prefix
// with ErrBadPrefix and validates the body structure.
func Parse(s string) (*Body, error) {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, Prefix) {
		return nil, ErrBadPrefix
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(s, Prefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var b Body
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := validate(&b); err != nil {
		return nil, err
	}

	return &b, nil
}

func validate(b *Body) error {
	if b.V != 1 {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, b.V)
	}

	switch b.Alg {
	case AlgSecp256k1:
		if b.EphPub == "" {
			return fmt.Errorf("%w: missing ephemeral public key", ErrMalformed)
		}
	case AlgMLKEM768:
		if b.KemCt == "" {
			return fmt.Errorf("%w: missing KEM ciphertext", ErrMalformed)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlg, b.Alg)
	}

	if b.RID == "" {
		return fmt.Errorf("%w: missing rid", ErrMalformed)
	}
	if b.Salt == "" || b.Nonce == "" || b.Ct == "" {
		return fmt.Errorf("%w: missing salt, nonce, or ciphertext", ErrMalformed)
	}

	return nil
}
