package dekbox

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dekbox/console-go/internal/crypto"
	"github.com/dekbox/console-go/internal/wk1"
)

func testDEK(t *testing.T) []byte {
	t.Helper()
	key, err := crypto.NewDEK()
	if err != nil {
		t.Fatal(err)
	}
	return key
}

func TestWrapUnwrapSecp256k1_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		aadText string
	}{
		{"no aad", ""},
		{"with aad", "meeting notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			privHex, pubHex, err := GenerateRecipientSecp256k1()
			if err != nil {
				t.Fatal(err)
			}

			key := testDEK(t)

			wrapped, err := WrapDEKSecp256k1(key, pubHex, "alice", tt.aadText)
			if err != nil {
				t.Fatalf("WrapDEKSecp256k1() error = %v", err)
			}

			if !strings.HasPrefix(wrapped, wk1.Prefix) {
				t.Errorf("wrapped key %q missing %q prefix", wrapped, wk1.Prefix)
			}

			unwrapped, err := UnwrapDEKSecp256k1(wrapped, privHex, tt.aadText)
			if err != nil {
				t.Fatalf("UnwrapDEKSecp256k1() error = %v", err)
			}

			if !bytes.Equal(unwrapped, key) {
				t.Error("unwrapped DEK does not match original")
			}
		})
	}
}

func TestUnwrapSecp256k1_WrongKey(t *testing.T) {
	_, pubHex, err := GenerateRecipientSecp256k1()
	if err != nil {
		t.Fatal(err)
	}
	otherPrivHex, _, err := GenerateRecipientSecp256k1()
	if err != nil {
		t.Fatal(err)
	}

	wrapped, err := WrapDEKSecp256k1(testDEK(t), pubHex, "alice", "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = UnwrapDEKSecp256k1(wrapped, otherPrivHex, "")
	if !errors.Is(err, ErrUnwrapFailed) {
		t.Errorf("expected ErrUnwrapFailed, got %v", err)
	}
}

func TestUnwrapSecp256k1_AADMismatch(t *testing.T) {
	privHex, pubHex, err := GenerateRecipientSecp256k1()
	if err != nil {
		t.Fatal(err)
	}

	wrapped, err := WrapDEKSecp256k1(testDEK(t), pubHex, "alice", "right aad")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		aadText string
	}{
		{"different aad", "wrong aad"},
		{"missing aad", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnwrapDEKSecp256k1(wrapped, privHex, tt.aadText)
			if !errors.Is(err, ErrUnwrapFailed) {
				t.Errorf("expected ErrUnwrapFailed, got %v", err)
			}
		})
	}
}

func TestUnwrapSecp256k1_BadPrefix(t *testing.T) {
	privHex, _, err := GenerateRecipientSecp256k1()
	if err != nil {
		t.Fatal(err)
	}

	_, err = UnwrapDEKSecp256k1("wk2.whatever", privHex, "")
	if !errors.Is(err, ErrInvalidWrappedKey) {
		t.Fatalf("expected ErrInvalidWrappedKey, got %v", err)
	}
	// The surfaced message must identify the expected prefix.
	if !strings.Contains(err.Error(), wk1.Prefix) {
		t.Errorf("error %q does not name expected prefix %q", err, wk1.Prefix)
	}
}

func TestUnwrapSecp256k1_WrongAlgorithm(t *testing.T) {
	_, pubB64, err := GenerateRecipientMLKEM768()
	if err != nil {
		t.Fatal(err)
	}

	wrapped, err := WrapDEKMLKEM768(testDEK(t), pubB64, "bob", "")
	if err != nil {
		t.Fatal(err)
	}

	privHex, _, err := GenerateRecipientSecp256k1()
	if err != nil {
		t.Fatal(err)
	}

	_, err = UnwrapDEKSecp256k1(wrapped, privHex, "")
	if !errors.Is(err, ErrInvalidWrappedKey) {
		t.Errorf("expected ErrInvalidWrappedKey, got %v", err)
	}
}

func TestWrapSecp256k1_InvalidInputs(t *testing.T) {
	_, pubHex, err := GenerateRecipientSecp256k1()
	if err != nil {
		t.Fatal(err)
	}
	key := testDEK(t)

	t.Run("short key", func(t *testing.T) {
		if _, err := WrapDEKSecp256k1(key[:16], pubHex, "alice", ""); err == nil {
			t.Error("expected error for short DEK")
		}
	})

	t.Run("empty rid", func(t *testing.T) {
		if _, err := WrapDEKSecp256k1(key, pubHex, "", ""); err == nil {
			t.Error("expected error for empty rid")
		}
	})

	t.Run("bad public key", func(t *testing.T) {
		_, err := WrapDEKSecp256k1(key, "zz-not-hex", "alice", "")
		if !errors.Is(err, ErrInvalidRecipientKey) {
			t.Errorf("expected ErrInvalidRecipientKey, got %v", err)
		}
	})
}

func TestWrapUnwrapMLKEM768_RoundTrip(t *testing.T) {
	secB64, pubB64, err := GenerateRecipientMLKEM768()
	if err != nil {
		t.Fatal(err)
	}

	key := testDEK(t)

	wrapped, err := WrapDEKMLKEM768(key, pubB64, "bob", "pq aad")
	if err != nil {
		t.Fatalf("WrapDEKMLKEM768() error = %v", err)
	}

	unwrapped, err := UnwrapDEKMLKEM768(wrapped, secB64, "pq aad")
	if err != nil {
		t.Fatalf("UnwrapDEKMLKEM768() error = %v", err)
	}

	if !bytes.Equal(unwrapped, key) {
		t.Error("unwrapped DEK does not match original")
	}
}

func TestUnwrapMLKEM768_WrongKey(t *testing.T) {
	_, pubB64, err := GenerateRecipientMLKEM768()
	if err != nil {
		t.Fatal(err)
	}
	otherSecB64, _, err := GenerateRecipientMLKEM768()
	if err != nil {
		t.Fatal(err)
	}

	wrapped, err := WrapDEKMLKEM768(testDEK(t), pubB64, "bob", "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = UnwrapDEKMLKEM768(wrapped, otherSecB64, "")
	if !errors.Is(err, ErrUnwrapFailed) {
		t.Errorf("expected ErrUnwrapFailed, got %v", err)
	}
}

func TestWrap_RIDBinding(t *testing.T) {
	// The rid is bound into the HKDF info, so a wrapped key presented under
	// an altered rid must fail even with the right private key.
	privHex, pubHex, err := GenerateRecipientSecp256k1()
	if err != nil {
		t.Fatal(err)
	}

	wrapped, err := WrapDEKSecp256k1(testDEK(t), pubHex, "alice", "")
	if err != nil {
		t.Fatal(err)
	}

	body, err := wk1.Parse(wrapped)
	if err != nil {
		t.Fatal(err)
	}
	body.RID = "mallory"

	forged, err := wk1.Encode(body)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := UnwrapDEKSecp256k1(forged, privHex, ""); !errors.Is(err, ErrUnwrapFailed) {
		t.Errorf("expected ErrUnwrapFailed for altered rid, got %v", err)
	}
}
