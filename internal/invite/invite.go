// Package invite generates list invitation codes.
package invite

import "math/rand/v2"

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// CodeLength is fixed at 8 characters (~47.6 bits over the
	// 62-symbol alphabet).
	CodeLength = 8
)

// Generate returns a new invitation code: 8 independent uniform draws
// from [A-Za-z0-9]. Uniqueness is never checked at generation time;
// a collision only surfaces as a join resolving to whichever list the
// store returns first, which is accepted at the expected scale.
func Generate() string {
	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(code)
}

// Valid reports whether s has the shape of an invitation code. Used for
// input validation only; a well-formed code can still match no list.
func Valid(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
