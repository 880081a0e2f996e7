// Package ticket generates the unique, human-readable codes printed
// on reservation tickets. Codes are opaque: the trailing check
// character catches mistyped lookups, but uniqueness is enforced by
// the store's unique index, with the caller retrying generation on
// collision.
package ticket

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// alphabet deliberately omits 0/O/1/I to keep codes unambiguous when
// read off a printed ticket
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// randomLen is the number of random characters in the code body
const randomLen = 8

// Generator produces ticket codes
type Generator struct {
	prefix string
}

// NewGenerator creates a Generator. The prefix leads every code,
// e.g. "UCB".
func NewGenerator(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// New generates a ticket code for a trip, of the form
// <prefix>-T<tripID>-<8 random chars><check char>.
func (g *Generator) New(tripID int64) (string, error) {
	buf := make([]byte, randomLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	body := make([]byte, randomLen)
	for i, b := range buf {
		body[i] = alphabet[int(b)%len(alphabet)]
	}

	code := fmt.Sprintf("%s-T%d-%s", g.prefix, tripID, body)
	return code + string(checkChar(code)), nil
}

// Verify reports whether the code's check character is consistent
// with its body. A passing code is well-formed, not necessarily
// issued; the store remains the authority.
func Verify(code string) bool {
	if len(code) < 2 {
		return false
	}
	body, check := code[:len(code)-1], code[len(code)-1]
	return checkChar(body) == check
}

// checkChar folds every character of the code into a single check
// character from the code alphabet
func checkChar(s string) byte {
	sum := 0
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(alphabet, s[i])
		if idx < 0 {
			// separators and digits outside the alphabet still
			// contribute to the checksum
			idx = int(s[i])
		}
		sum += idx * (i + 1)
	}
	return alphabet[sum%len(alphabet)]
}
