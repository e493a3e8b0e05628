package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ToHex encodes bytes to lowercase hex.
func ToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// FromHex decodes a hex string. Leading "0x" and surrounding whitespace are
// tolerated since console input is often pasted from other tools.
func FromHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")

	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return data, nil
}

// FromHexExact decodes a hex string and verifies the decoded length.
func FromHexExact(s string, size int) ([]byte, error) {
	data, err := FromHex(s)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidHex, len(data), size)
	}
	return data, nil
}
