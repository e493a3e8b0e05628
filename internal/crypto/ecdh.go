package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec"
)

// GenerateSecp256k1 creates a new secp256k1 keypair. The private key is the
// 32-byte scalar, the public key is in 33-byte compressed form.
func GenerateSecp256k1() (privateKey, publicKey []byte, err error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, nil, fmt.Errorf("generate secp256k1 key: %w", err)
	}

	return priv.Serialize(), priv.PubKey().SerializeCompressed(), nil
}

// Secp256k1PublicFromPrivate derives the compressed public key from a
// 32-byte private scalar.
func Secp256k1PublicFromPrivate(privateKey []byte) ([]byte, error) {
	if len(privateKey) != Secp256k1PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPrivateKey, len(privateKey), Secp256k1PrivateKeySize)
	}

	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), privateKey)
	return priv.PubKey().SerializeCompressed(), nil
}

// ValidateSecp256k1PublicKey checks that publicKey parses as a point on the
// curve. Both compressed and uncompressed encodings are accepted.
func ValidateSecp256k1PublicKey(publicKey []byte) error {
	if _, err := btcec.ParsePubKey(publicKey, btcec.S256()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return nil
}

// Secp256k1SharedSecret computes the ECDH shared secret between a private
// scalar and a peer public key. Per RFC 5903 only the x coordinate is used;
// the result must always pass through HKDF before use as a key.
func Secp256k1SharedSecret(privateKey, publicKey []byte) ([]byte, error) {
	if len(privateKey) != Secp256k1PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPrivateKey, len(privateKey), Secp256k1PrivateKeySize)
	}

	pub, err := btcec.ParsePubKey(publicKey, btcec.S256())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), privateKey)
	return btcec.GenerateSharedSecret(priv, pub), nil
}
