package domain

// ParseHexColor converts a 6-digit hex token (optionally prefixed with
// #) into an RGB value. Invalid input falls back to the mid-gray
// default rather than failing; color is display state, not identity.
func ParseHexColor(hex string) (RGB, bool) {
	clean := hex
	if len(clean) > 0 && clean[0] == '#' {
		clean = clean[1:]
	}
	if len(clean) != 6 {
		return DefaultColor, false
	}

	var vals [6]uint8
	for i := 0; i < 6; i++ {
		v, ok := hexDigit(clean[i])
		if !ok {
			return DefaultColor, false
		}
		vals[i] = v
	}

	return RGB{
		R: vals[0]<<4 | vals[1],
		G: vals[2]<<4 | vals[3],
		B: vals[4]<<4 | vals[5],
	}, true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
