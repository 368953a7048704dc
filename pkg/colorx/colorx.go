// Package colorx normalizes user-supplied color strings into CSS hex
// notation. It handles more shorthand cases than HTML/CSS normally does and
// never rejects input: anything it does not recognize passes through
// verbatim so a bad color can't block a budget entry.
package colorx

// Normalize converts a hex color shorthand into its full "#RRGGBB" or
// "#RRGGBBAA" form. A leading "#" is optional on input. Three and four
// digit shorthands expand by doubling each digit ("abc" -> "#aabbcc",
// "abcd" -> "#aabbccdd"). Strings that are not pure hex, or whose length
// matches no recognized shorthand, are returned unchanged.
//
// Normalize is total and idempotent on its own output.
func Normalize(raw string) string {
	hex := raw
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}

	if !isHex(hex) {
		return raw
	}

	switch len(hex) {
	case 6, 8:
		return "#" + hex
	case 3, 4:
		buf := make([]byte, 0, 2*len(hex))
		for i := 0; i < len(hex); i++ {
			buf = append(buf, hex[i], hex[i])
		}
		return "#" + string(buf)
	default:
		// Lengths 0,1,2,5,7,9+ match no shorthand.
		return raw
	}
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
