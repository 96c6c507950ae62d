package component

import "strings"

// Normalize returns the canonical form of a raw token: every character that
// is not an ASCII letter or digit is removed and the remainder is upper-cased.
// Normalize is total and idempotent.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch >= 'a' && ch <= 'z':
			b.WriteByte(ch - 'a' + 'A')
		case ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		}
	}

	return b.String()
}

// NormalizeAll normalizes every token and drops the ones that become empty.
func NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		if id := Normalize(token); id != "" {
			out = append(out, id)
		}
	}
	return out
}
