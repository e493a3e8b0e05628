package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestBase64URL_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("a")},
		{"text", []byte("hello world")},
		{"binary", []byte{0x00, 0xfb, 0xff, 0x3e, 0x3f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := ToBase64URL(tt.data)
			decoded, err := FromBase64URL(encoded)
			if err != nil {
				t.Fatalf("FromBase64URL() error = %v", err)
			}
			if !bytes.Equal(decoded, tt.data) {
				t.Errorf("decoded = %v, want %v", decoded, tt.data)
			}
		})
	}
}

func TestDecodeBase64_Variants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"raw url", "-_8", []byte{0xfb, 0xff}},
		{"padded url", "-_8=", []byte{0xfb, 0xff}},
		{"raw std", "+/8", []byte{0xfb, 0xff}},
		{"padded std", "+/8=", []byte{0xfb, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64(tt.input)
			if err != nil {
				t.Fatalf("DecodeBase64() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeBase64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	if _, err := DecodeBase64("not base64 !!!"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestHex_RoundTrip(t *testing.T) {
	data := []byte{0x01, 0xab, 0xff, 0x00}

	encoded := ToHex(data)
	decoded, err := FromHex(encoded)
	if err != nil {
		t.Fatalf("FromHex() error = %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("decoded = %v, want %v", decoded, data)
	}
}

func TestFromHex_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"0x prefix", "0x01abff00"},
		{"surrounding whitespace", "  01abff00\n"},
		{"uppercase", "01ABFF00"},
	}

	want := []byte{0x01, 0xab, 0xff, 0x00}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHex(tt.input)
			if err != nil {
				t.Fatalf("FromHex() error = %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("FromHex() = %v, want %v", got, want)
			}
		})
	}
}

func TestFromHex_Invalid(t *testing.T) {
	_, err := FromHex("zz")
	if !errors.Is(err, ErrInvalidHex) {
		t.Errorf("expected ErrInvalidHex, got %v", err)
	}
}

func TestFromHexExact(t *testing.T) {
	if _, err := FromHexExact("01ab", 2); err != nil {
		t.Errorf("FromHexExact() error = %v", err)
	}

	if _, err := FromHexExact("01ab", 3); !errors.Is(err, ErrInvalidHex) {
		t.Errorf("expected ErrInvalidHex for wrong length, got %v", err)
	}
}
