// Package crypto provides the cryptographic building blocks for the dekbox
// envelope scheme: AEAD sealing of message payloads with a per-message
// data-encryption key (DEK), and wrapping of that DEK to recipient public
// keys via key agreement.
//
// # Algorithm Suite
//
//   - secp256k1 ECDH: classical key agreement for DEK wrapping. An ephemeral
//     keypair is generated per wrap; only the compressed ephemeral public key
//     travels with the wrapped key.
//
//   - ML-KEM-768 (NIST FIPS 203): post-quantum key encapsulation, offered as
//     an alternative wrap scheme.
//
//   - AES-256-GCM and ChaCha20-Poly1305: authenticated encryption with
//     associated data (AEAD) for both the message payload and the wrapped DEK.
//
//   - HKDF-SHA-256 (RFC 5869): derivation of the wrap key from the agreed
//     shared secret, with a random salt and domain-separating info.
//
// # Security Notes
//
// AEAD nonces MUST be unique per key. Every encryption in this package uses
// a freshly generated random nonce and a freshly generated DEK, so nonce
// reuse cannot occur through this API.
//
// Keys produced and consumed here are raw byte slices. This repository is a
// demonstration console: private keys are deliberately handled in plaintext
// form and must never be treated as production key custody.
//
// # Encoding
//
// All protocol values (keys, nonces, ciphertexts, salts) are base64url
// without padding (RFC 4648 §5) via [ToBase64URL]/[FromBase64URL], except
// secp256k1 key material which is conventionally hex via [ToHex]/[FromHex].
package crypto
