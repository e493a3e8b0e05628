package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestMLKEM_EncapDecap_RoundTrip(t *testing.T) {
	secretKey, publicKey, err := GenerateMLKEM()
	if err != nil {
		t.Fatal(err)
	}

	if len(secretKey) != MLKEMSecretKeySize {
		t.Errorf("secret key size = %d, want %d", len(secretKey), MLKEMSecretKeySize)
	}
	if len(publicKey) != MLKEMPublicKeySize {
		t.Errorf("public key size = %d, want %d", len(publicKey), MLKEMPublicKeySize)
	}

	kemCt, shared, err := EncapsulateMLKEM(publicKey)
	if err != nil {
		t.Fatalf("EncapsulateMLKEM() error = %v", err)
	}

	recovered, err := DecapsulateMLKEM(secretKey, kemCt)
	if err != nil {
		t.Fatalf("DecapsulateMLKEM() error = %v", err)
	}

	if !bytes.Equal(shared, recovered) {
		t.Error("decapsulated shared secret does not match")
	}
}

func TestMLKEM_WrongSecretKey(t *testing.T) {
	_, publicKey, err := GenerateMLKEM()
	if err != nil {
		t.Fatal(err)
	}

	otherSecret, _, err := GenerateMLKEM()
	if err != nil {
		t.Fatal(err)
	}

	kemCt, shared, err := EncapsulateMLKEM(publicKey)
	if err != nil {
		t.Fatal(err)
	}

	// ML-KEM decapsulation with the wrong key yields an implicit-rejection
	// value rather than an error; it must simply differ.
	recovered, err := DecapsulateMLKEM(otherSecret, kemCt)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(shared, recovered) {
		t.Error("wrong secret key recovered the shared secret")
	}
}

func TestEncapsulateMLKEM_InvalidPublicKeySize(t *testing.T) {
	_, _, err := EncapsulateMLKEM(make([]byte, 100))
	if !errors.Is(err, ErrInvalidPublicKey) {
		t.Errorf("expected ErrInvalidPublicKey, got %v", err)
	}
}

func TestDecapsulateMLKEM_InvalidSizes(t *testing.T) {
	secretKey, publicKey, err := GenerateMLKEM()
	if err != nil {
		t.Fatal(err)
	}

	kemCt, _, err := EncapsulateMLKEM(publicKey)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := DecapsulateMLKEM(make([]byte, 10), kemCt); !errors.Is(err, ErrInvalidSecretKeySize) {
		t.Errorf("expected ErrInvalidSecretKeySize, got %v", err)
	}

	if _, err := DecapsulateMLKEM(secretKey, make([]byte, 10)); !errors.Is(err, ErrInvalidCiphertextSize) {
		t.Errorf("expected ErrInvalidCiphertextSize, got %v", err)
	}
}
