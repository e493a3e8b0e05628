// Package dekbox implements the operation surface of the dekbox
// envelope-encryption demonstration console: AEAD encryption of text under a
// per-message data-encryption key (DEK), wrapping of that DEK to recipient
// public keys, envelope assembly and validation, and the portable JSON
// bundle/vector conventions the console uses to move demo state between tabs
// and files.
//
// Basic round trip:
//
//	raw, err := dekbox.EncryptTextRaw("hello", dekbox.CipherAES256GCM, "demo-aad")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	privHex, pubHex, _ := dekbox.GenerateRecipientSecp256k1()
//	wrapped, _ := dekbox.WrapDEKSecp256k1(raw.Key, pubHex, "alice", "demo-aad")
//
//	dek, _ := dekbox.UnwrapDEKSecp256k1(wrapped, privHex, "demo-aad")
//
//	env, _ := dekbox.BuildEnvelope(raw, dekbox.CipherAES256GCM, []dekbox.EnvelopeRecipient{
//	    {RID: "alice", Scheme: dekbox.SchemeSecp256k1, Pub: pubHex, WrappedKey: wrapped},
//	})
//	plaintext, _ := dekbox.DecryptTextFromEnvelope(env, dek, raw.CiphertextB64url, raw.NonceB64url, "demo-aad")
//
// This package is for demonstration: private keys are handled in plaintext
// in memory and in downloadable JSON. It provides no key-custody guarantees.
package dekbox
