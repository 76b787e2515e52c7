package message

import (
	"encoding/hex"
	"fmt"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Describe renders raw for logs. Well-formed messages use gomidi's formatting;
// anything else is shown as hex.
func Describe(raw []byte) string {
	if !wellFormed(raw) {
		return "raw " + hex.EncodeToString(raw)
	}
	return gomidi.Message(raw).String()
}

func wellFormed(raw []byte) bool {
	if len(raw) == 0 || raw[0] < 0x80 {
		return false
	}
	if raw[0] == 0xF0 {
		return len(raw) >= 2 && raw[len(raw)-1] == 0xF7
	}
	for _, b := range raw[1:] {
		if b&0x80 != 0 {
			return false
		}
	}
	return Length(raw[0]) == len(raw)
}

// ParseHex reads bytes written as hex pairs, with or without separating
// whitespace: "F0 7E 7F 06 01 F7" and "f07e7f0601f7" are equivalent.
func ParseHex(s string) ([]byte, error) {
	compact := strings.Join(strings.Fields(s), "")
	if compact == "" {
		return nil, fmt.Errorf("empty hex string")
	}
	b, err := hex.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("parse hex %q: %w", s, err)
	}
	return b, nil
}
