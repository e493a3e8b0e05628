package dekbox

import (
	"errors"
	"fmt"

	"github.com/dekbox/console-go/internal/crypto"
	"github.com/dekbox/console-go/internal/wk1"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrUnknownCipher is returned when a cipher identifier is not supported.
	ErrUnknownCipher = errors.New("unknown cipher")

	// ErrUnknownScheme is returned when a key-wrap scheme is not supported.
	ErrUnknownScheme = errors.New("unknown wrap scheme")

	// ErrInvalidEnvelope is returned when an envelope fails structural validation.
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrInvalidBundle is returned when a bundle fails structural validation.
	ErrInvalidBundle = errors.New("invalid bundle")

	// ErrInvalidVector is returned when a vector fails structural validation.
	ErrInvalidVector = errors.New("invalid vector")

	// ErrInvalidWrappedKey is returned when a wrapped-key string cannot be
	// parsed or carries the wrong algorithm.
	ErrInvalidWrappedKey = errors.New("invalid wrapped key")

	// ErrUnwrapFailed is returned when unwrapping a DEK fails. The usual
	// causes are a wrong private key or mismatched associated data.
	ErrUnwrapFailed = errors.New("unwrap failed: wrong key or associated data")

	// ErrDecryptionFailed is returned when payload decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrHashMismatch is returned when the ciphertext or associated data does
	// not match the hash recorded in the envelope.
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrRecipientNotFound is returned when an envelope has no entry for the
	// requested recipient identifier.
	ErrRecipientNotFound = errors.New("recipient not found in envelope")

	// ErrInvalidRecipientKey is returned when recipient key material cannot
	// be decoded or has the wrong size.
	ErrInvalidRecipientKey = errors.New("invalid recipient key")
)

// DekboxError is implemented by all typed errors of this package.
type DekboxError interface {
	error
	DekboxError() // marker method
}

// EnvelopeError describes a structural violation in an envelope document.
type EnvelopeError struct {
	Field   string
	Message string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("invalid envelope: %s: %s", e.Field, e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *EnvelopeError) Is(target error) bool {
	return target == ErrInvalidEnvelope
}

// DekboxError implements the DekboxError interface.
func (e *EnvelopeError) DekboxError() {}

// BundleError describes a structural violation in a bundle document.
type BundleError struct {
	Field   string
	Message string
}

func (e *BundleError) Error() string {
	return fmt.Sprintf("invalid bundle: %s: %s", e.Field, e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *BundleError) Is(target error) bool {
	return target == ErrInvalidBundle
}

// DekboxError implements the DekboxError interface.
func (e *BundleError) DekboxError() {}

// WrapError describes a failure while wrapping or unwrapping a DEK.
type WrapError struct {
	Scheme Scheme
	Op     string // "wrap" or "unwrap"
	Err    error
}

func (e *WrapError) Error() string {
	return fmt.Sprintf("%s DEK (%s): %v", e.Op, e.Scheme, e.Err)
}

// Unwrap returns the underlying error.
func (e *WrapError) Unwrap() error {
	return e.Err
}

// DekboxError implements the DekboxError interface.
func (e *WrapError) DekboxError() {}

// wrapUnwrapError converts internal crypto errors to public sentinel errors
// so that errors.Is() checks work correctly at the API boundary.
func wrapUnwrapError(scheme Scheme, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, crypto.ErrDecryptionFailed):
		return &WrapError{Scheme: scheme, Op: "unwrap", Err: ErrUnwrapFailed}
	case errors.Is(err, crypto.ErrInvalidPrivateKey),
		errors.Is(err, crypto.ErrInvalidSecretKeySize),
		errors.Is(err, crypto.ErrInvalidHex):
		return &WrapError{Scheme: scheme, Op: "unwrap", Err: fmt.Errorf("%w: %v", ErrInvalidRecipientKey, err)}
	case errors.Is(err, wk1.ErrBadPrefix),
		errors.Is(err, wk1.ErrMalformed),
		errors.Is(err, wk1.ErrUnsupportedVersion),
		errors.Is(err, wk1.ErrUnknownAlg):
		return &WrapError{Scheme: scheme, Op: "unwrap", Err: fmt.Errorf("%w: %v", ErrInvalidWrappedKey, err)}
	}

	return &WrapError{Scheme: scheme, Op: "unwrap", Err: err}
}
