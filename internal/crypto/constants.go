package crypto

const (
	// WrapHKDFContext is the context string used in HKDF key derivation
	// for wrapped-key domain separation.
	WrapHKDFContext = "dekbox:wrap:v1"

	// DEKSize is the size of a data-encryption key in bytes.
	DEKSize = 32
	// NonceSize is the size of an AEAD nonce in bytes.
	NonceSize = 12
	// TagSize is the size of an AEAD authentication tag in bytes.
	TagSize = 16
	// WrapSaltSize is the size of the random HKDF salt carried in a
	// wrapped key.
	WrapSaltSize = 32

	// Secp256k1PrivateKeySize is the size of a secp256k1 private scalar in bytes.
	Secp256k1PrivateKeySize = 32
	// Secp256k1PublicKeySize is the size of a compressed secp256k1 public key in bytes.
	Secp256k1PublicKeySize = 33

	// MLKEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	MLKEMPublicKeySize = 1184
	// MLKEMSecretKeySize is the size of an ML-KEM-768 secret key in bytes.
	MLKEMSecretKeySize = 2400
	// MLKEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	MLKEMCiphertextSize = 1088
	// MLKEMSharedKeySize is the size of the shared secret from ML-KEM-768 in bytes.
	MLKEMSharedKeySize = 32
)

// Cipher identifiers accepted by the AEAD helpers.
const (
	CipherAES256GCM        = "AES-256-GCM"
	CipherChaCha20Poly1305 = "CHACHA20-POLY1305"
)

// KDFName is the canonical name of the key derivation function used for
// wrapped keys.
const KDFName = "HKDF-SHA-256"
