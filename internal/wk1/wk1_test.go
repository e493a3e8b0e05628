package wk1

import (
	"errors"
	"strings"
	"testing"
)

func validBody() *Body {
	return &Body{
		V:      1,
		Alg:    AlgSecp256k1,
		RID:    "alice",
		EphPub: "02" + strings.Repeat("ab", 32),
		Salt:   "c2FsdA",
		Nonce:  "bm9uY2U",
		Ct:     "Y3Q",
	}
}

func TestEncode_Parse_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Body)
	}{
		{"secp256k1", func(b *Body) {}},
		{"mlkem768", func(b *Body) {
			b.Alg = AlgMLKEM768
			b.EphPub = ""
			b.KemCt = "a2VtY3Q"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody()
			tt.mutate(body)

			s, err := Encode(body)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			if !strings.HasPrefix(s, Prefix) {
				t.Errorf("encoded key %q missing prefix %q", s, Prefix)
			}

			parsed, err := Parse(s)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if *parsed != *body {
				t.Errorf("Parse() = %+v, want %+v", parsed, body)
			}
		})
	}
}

func TestParse_BadPrefix(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong prefix", "wk2.abc"},
		{"no prefix", "abc"},
		{"prefix case", "WK1.abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, ErrBadPrefix) {
				t.Fatalf("expected ErrBadPrefix, got %v", err)
			}
			// The error message must identify the expected prefix.
			if !strings.Contains(err.Error(), Prefix) {
				t.Errorf("error %q does not name expected prefix %q", err, Prefix)
			}
		})
	}
}

func TestParse_MalformedBody(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not base64", Prefix + "!!!"},
		{"not json", Prefix + "bm90LWpzb24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Body)
		want   error
	}{
		{"version 0", func(b *Body) { b.V = 0 }, ErrUnsupportedVersion},
		{"version 2", func(b *Body) { b.V = 2 }, ErrUnsupportedVersion},
		{"unknown alg", func(b *Body) { b.Alg = "rsa" }, ErrUnknownAlg},
		{"secp without epk", func(b *Body) { b.EphPub = "" }, ErrMalformed},
		{"mlkem without kem ct", func(b *Body) {
			b.Alg = AlgMLKEM768
			b.EphPub = ""
		}, ErrMalformed},
		{"missing rid", func(b *Body) { b.RID = "" }, ErrMalformed},
		{"missing salt", func(b *Body) { b.Salt = "" }, ErrMalformed},
		{"missing nonce", func(b *Body) { b.Nonce = "" }, ErrMalformed},
		{"missing ct", func(b *Body) { b.Ct = "" }, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody()
			tt.mutate(body)

			if _, err := Encode(body); !errors.Is(err, tt.want) {
				t.Errorf("Encode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	s, err := Encode(validBody())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Parse("  " + s + "\n"); err != nil {
		t.Errorf("Parse() with surrounding whitespace error = %v", err)
	}
}
