// Package orderid implements the orderId normalization contract of spec.md §6:
// any non-empty case-insensitive hex string normalizes to "ORD-" followed by
// uppercase hex, left-padded with zeros to a minimum width. Every code path on
// both services MUST go through Normalize before using an id as a map key or a
// message key, so that R1 (normalize(normalize(x)) == normalize(x)) holds.
package orderid

import (
	"errors"
	"strings"
)

// MinWidth is the canonical minimum hex digit width after the "ORD-" prefix.
const MinWidth = 4

// Prefix is prepended to every normalized id.
const Prefix = "ORD-"

var (
	// ErrEmpty is returned for empty or whitespace-only input.
	ErrEmpty = errors.New("orderid: empty id")
	// ErrNotHex is returned when, after stripping any existing "ORD-" prefix,
	// the remainder contains non-hex characters.
	ErrNotHex = errors.New("orderid: not a hex string")
)

// Normalize converts raw into the canonical "ORD-####" form. It is idempotent:
// Normalize(Normalize(x)) == Normalize(x) for any x that normalizes cleanly.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmpty
	}

	upper := strings.ToUpper(trimmed)
	hex := strings.TrimPrefix(upper, Prefix)
	if hex == "" {
		return "", ErrEmpty
	}
	if !isHex(hex) {
		return "", ErrNotHex
	}
	if len(hex) < MinWidth {
		hex = strings.Repeat("0", MinWidth-len(hex)) + hex
	}
	return Prefix + hex, nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
