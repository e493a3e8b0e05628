package crypto

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// randReader is the random source used for ML-KEM key generation.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// GenerateMLKEM creates a new ML-KEM-768 keypair in packed byte form.
func GenerateMLKEM() (secretKey, publicKey []byte, err error) {
	pub, priv, err := mlkem768.GenerateKeyPair(randReader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate ML-KEM keypair: %w", err)
	}

	// MarshalBinary never fails for valid keys from GenerateKeyPair
	pubBytes, _ := pub.MarshalBinary()
	privBytes, _ := priv.MarshalBinary()

	return privBytes, pubBytes, nil
}

// EncapsulateMLKEM encapsulates a fresh shared secret to the given packed
// public key. Returns the KEM ciphertext and the shared secret.
func EncapsulateMLKEM(publicKey []byte) (kemCiphertext, sharedSecret []byte, err error) {
	if len(publicKey) != MLKEMPublicKeySize {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPublicKey, len(publicKey), MLKEMPublicKeySize)
	}

	var pub mlkem768.PublicKey
	pub.Unpack(publicKey)

	kemCiphertext = make([]byte, MLKEMCiphertextSize)
	sharedSecret = make([]byte, MLKEMSharedKeySize)
	pub.EncapsulateTo(kemCiphertext, sharedSecret, nil)

	return kemCiphertext, sharedSecret, nil
}

// DecapsulateMLKEM recovers the shared secret from a KEM ciphertext using
// the packed secret key.
func DecapsulateMLKEM(secretKey, kemCiphertext []byte) ([]byte, error) {
	if len(secretKey) != MLKEMSecretKeySize {
		return nil, ErrInvalidSecretKeySize
	}
	if len(kemCiphertext) != MLKEMCiphertextSize {
		return nil, ErrInvalidCiphertextSize
	}

	var priv mlkem768.PrivateKey
	if err := priv.Unpack(secretKey); err != nil {
		return nil, fmt.Errorf("unpack secret key: %w", err)
	}

	sharedSecret := make([]byte, MLKEMSharedKeySize)
	priv.DecapsulateTo(sharedSecret, kemCiphertext)

	return sharedSecret, nil
}
