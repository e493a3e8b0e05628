package dekbox

import (
	"fmt"

	"github.com/dekbox/console-go/internal/crypto"
	"github.com/dekbox/console-go/internal/wk1"
)

// GenerateRecipientSecp256k1 creates a fresh secp256k1 recipient keypair in
// the hex form the console and bundles carry.
func GenerateRecipientSecp256k1() (privHex, pubHex string, err error) {
	priv, pub, err := crypto.GenerateSecp256k1()
	if err != nil {
		return "", "", err
	}
	return crypto.ToHex(priv), crypto.ToHex(pub), nil
}

// GenerateRecipientMLKEM768 creates a fresh ML-KEM-768 recipient keypair in
// base64url packed form.
func GenerateRecipientMLKEM768() (secretB64url, pubB64url string, err error) {
	secret, pub, err := crypto.GenerateMLKEM()
	if err != nil {
		return "", "", err
	}
	return crypto.ToBase64URL(secret), crypto.ToBase64URL(pub), nil
}

// WrapDEKSecp256k1 wraps a raw DEK to a recipient secp256k1 public key (hex,
// compressed or uncompressed). A fresh ephemeral keypair is generated per
// wrap; the ECDH shared secret is run through HKDF-SHA-256 with a random
// salt and the rid bound into the info, and the DEK is sealed with
// AES-256-GCM using the associated-data text as AAD.
//
// The result is a "wk1."-prefixed wrapped-key string, one per recipient.
func WrapDEKSecp256k1(key []byte, recipientPubHex, rid, aadText string) (string, error) {
	if len(key) != crypto.DEKSize {
		return "", &WrapError{Scheme: SchemeSecp256k1, Op: "wrap",
			Err: fmt.Errorf("%w: got %d bytes, want %d", crypto.ErrInvalidKeySize, len(key), crypto.DEKSize)}
	}
	if rid == "" {
		return "", &WrapError{Scheme: SchemeSecp256k1, Op: "wrap", Err: fmt.Errorf("rid is required")}
	}

	recipientPub, err := crypto.FromHex(recipientPubHex)
	if err != nil {
		return "", &WrapError{Scheme: SchemeSecp256k1, Op: "wrap",
			Err: fmt.Errorf("%w: %v", ErrInvalidRecipientKey, err)}
	}
	if err := crypto.ValidateSecp256k1PublicKey(recipientPub); err != nil {
		return "", &WrapError{Scheme: SchemeSecp256k1, Op: "wrap",
			Err: fmt.Errorf("%w: %v", ErrInvalidRecipientKey, err)}
	}

	ephPriv, ephPub, err := crypto.GenerateSecp256k1()
	if err != nil {
		return "", &WrapError{Scheme: SchemeSecp256k1, Op: "wrap", Err: err}
	}

	shared, err := crypto.Secp256k1SharedSecret(ephPriv, recipientPub)
	if err != nil {
		return "", &WrapError{Scheme: SchemeSecp256k1, Op: "wrap", Err: err}
	}

	body := &wk1.Body{
		V:      1,
		Alg:    wk1.AlgSecp256k1,
		RID:    rid,
		EphPub: crypto.ToHex(ephPub),
	}

	if err := sealWrapBody(body, shared, key, rid, aadText); err != nil {
		return "", &WrapError{Scheme: SchemeSecp256k1, Op: "wrap", Err: err}
	}

	return wk1.Encode(body)
}

// UnwrapDEKSecp256k1 recovers a raw DEK from a wk1 wrapped-key string using
// the recipient's secp256k1 private key (hex). It fails when the associated
// data differs from the one used at wrap time or the key is wrong.
func UnwrapDEKSecp256k1(wrapped, recipientPrivHex, aadText string) ([]byte, error) {
	body, err := wk1.Parse(wrapped)
	if err != nil {
		return nil, wrapUnwrapError(SchemeSecp256k1, err)
	}
	if body.Alg != wk1.AlgSecp256k1 {
		return nil, &WrapError{Scheme: SchemeSecp256k1, Op: "unwrap",
			Err: fmt.Errorf("%w: algorithm %q, want %q", ErrInvalidWrappedKey, body.Alg, wk1.AlgSecp256k1)}
	}

	priv, err := crypto.FromHexExact(recipientPrivHex, crypto.Secp256k1PrivateKeySize)
	if err != nil {
		return nil, wrapUnwrapError(SchemeSecp256k1, fmt.Errorf("%w: %v", crypto.ErrInvalidPrivateKey, err))
	}

	ephPub, err := crypto.FromHex(body.EphPub)
	if err != nil {
		return nil, wrapUnwrapError(SchemeSecp256k1, fmt.Errorf("%w: %v", wk1.ErrMalformed, err))
	}

	shared, err := crypto.Secp256k1SharedSecret(priv, ephPub)
	if err != nil {
		return nil, wrapUnwrapError(SchemeSecp256k1, err)
	}

	key, err := openWrapBody(body, shared, aadText)
	if err != nil {
		return nil, wrapUnwrapError(SchemeSecp256k1, err)
	}

	return key, nil
}

// WrapDEKMLKEM768 wraps a raw DEK to a recipient ML-KEM-768 public key
// (base64url). The construction mirrors the secp256k1 wrap with the ECDH
// agreement replaced by KEM encapsulation.
func WrapDEKMLKEM768(key []byte, recipientPubB64url, rid, aadText string) (string, error) {
	if len(key) != crypto.DEKSize {
		return "", &WrapError{Scheme: SchemeMLKEM768, Op: "wrap",
			Err: fmt.Errorf("%w: got %d bytes, want %d", crypto.ErrInvalidKeySize, len(key), crypto.DEKSize)}
	}
	if rid == "" {
		return "", &WrapError{Scheme: SchemeMLKEM768, Op: "wrap", Err: fmt.Errorf("rid is required")}
	}

	recipientPub, err := crypto.DecodeBase64(recipientPubB64url)
	if err != nil {
		return "", &WrapError{Scheme: SchemeMLKEM768, Op: "wrap",
			Err: fmt.Errorf("%w: %v", ErrInvalidRecipientKey, err)}
	}

	kemCt, shared, err := crypto.EncapsulateMLKEM(recipientPub)
	if err != nil {
		return "", &WrapError{Scheme: SchemeMLKEM768, Op: "wrap",
			Err: fmt.Errorf("%w: %v", ErrInvalidRecipientKey, err)}
	}

	body := &wk1.Body{
		V:     1,
		Alg:   wk1.AlgMLKEM768,
		RID:   rid,
		KemCt: crypto.ToBase64URL(kemCt),
	}

	if err := sealWrapBody(body, shared, key, rid, aadText); err != nil {
		return "", &WrapError{Scheme: SchemeMLKEM768, Op: "wrap", Err: err}
	}

	return wk1.Encode(body)
}

// UnwrapDEKMLKEM768 recovers a raw DEK from a wk1 wrapped-key string using
// the recipient's packed ML-KEM-768 secret key (base64url).
func UnwrapDEKMLKEM768(wrapped, recipientSecretB64url, aadText string) ([]byte, error) {
	body, err := wk1.Parse(wrapped)
	if err != nil {
		return nil, wrapUnwrapError(SchemeMLKEM768, err)
	}
	if body.Alg != wk1.AlgMLKEM768 {
		return nil, &WrapError{Scheme: SchemeMLKEM768, Op: "unwrap",
			Err: fmt.Errorf("%w: algorithm %q, want %q", ErrInvalidWrappedKey, body.Alg, wk1.AlgMLKEM768)}
	}

	secret, err := crypto.DecodeBase64(recipientSecretB64url)
	if err != nil {
		return nil, wrapUnwrapError(SchemeMLKEM768, fmt.Errorf("%w: %v", crypto.ErrInvalidSecretKeySize, err))
	}

	kemCt, err := crypto.FromBase64URL(body.KemCt)
	if err != nil {
		return nil, wrapUnwrapError(SchemeMLKEM768, fmt.Errorf("%w: %v", wk1.ErrMalformed, err))
	}

	shared, err := crypto.DecapsulateMLKEM(secret, kemCt)
	if err != nil {
		return nil, wrapUnwrapError(SchemeMLKEM768, err)
	}

	key, err := openWrapBody(body, shared, aadText)
	if err != nil {
		return nil, wrapUnwrapError(SchemeMLKEM768, err)
	}

	return key, nil
}

// sealWrapBody derives the wrap key from the shared secret and seals the DEK
// into the body's salt/nonce/ct fields. The wrapped DEK is always protected
// with AES-256-GCM regardless of the payload cipher.
func sealWrapBody(body *wk1.Body, shared, key []byte, rid, aadText string) error {
	salt, err := crypto.NewSalt()
	if err != nil {
		return err
	}

	wrapKey, err := crypto.DeriveWrapKey(shared, salt, rid)
	if err != nil {
		return err
	}

	nonce, err := crypto.NewNonce()
	if err != nil {
		return err
	}

	sealed, err := crypto.Seal(crypto.CipherAES256GCM, wrapKey, nonce, key, aadBytes(aadText))
	if err != nil {
		return err
	}

	body.Salt = crypto.ToBase64URL(salt)
	body.Nonce = crypto.ToBase64URL(nonce)
	body.Ct = crypto.ToBase64URL(sealed)

	return nil
}

// openWrapBody reverses sealWrapBody: it derives the wrap key and opens the
// sealed DEK carried in the body.
func openWrapBody(body *wk1.Body, shared []byte, aadText string) ([]byte, error) {
	salt, err := crypto.FromBase64URL(body.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wk1.ErrMalformed, err)
	}

	nonce, err := crypto.FromBase64URL(body.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wk1.ErrMalformed, err)
	}

	sealed, err := crypto.FromBase64URL(body.Ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wk1.ErrMalformed, err)
	}

	wrapKey, err := crypto.DeriveWrapKey(shared, salt, body.RID)
	if err != nil {
		return nil, err
	}

	key, err := crypto.Open(crypto.CipherAES256GCM, wrapKey, nonce, sealed, aadBytes(aadText))
	if err != nil {
		return nil, err
	}

	if len(key) != crypto.DEKSize {
		return nil, fmt.Errorf("%w: unwrapped key has %d bytes", crypto.ErrInvalidKeySize, len(key))
	}

	return key, nil
}
