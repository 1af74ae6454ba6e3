// Package domain holds the shared identifier and enum types used across
// modules. Keeping them here avoids import cycles between stores, services,
// and the evaluator.
package domain

import (
	"fmt"
	"strings"
)

// Address is a 20-byte account address in 0x-hex form, lower-cased on parse.
// The zero value is "no address".
type Address string

const addressHexLen = 40

// ParseAddress validates and canonicalizes an address string.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2+addressHexLen || (s[0:2] != "0x" && s[0:2] != "0X") {
		return "", fmt.Errorf("address must be 0x followed by %d hex characters", addressHexLen)
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return "", fmt.Errorf("address contains non-hex character %q", c)
		}
	}
	return Address(strings.ToLower(s)), nil
}

// MustAddress parses an address and panics on failure. Test fixtures only.
func MustAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string { return string(a) }

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool { return a == "" }
