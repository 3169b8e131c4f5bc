package service

import (
	"regexp"
	"strconv"
	"strings"
)

// OneColor is the canonical token for products without a color axis.
const OneColor = "onecolor"

// sizeNAToken stands in for an empty size string.
const sizeNAToken = "N/A"

// unsortableSize pushes unparseable sizes to the end of any ordering.
const unsortableSize = 9999.0

// Keep Latin letters plus Hangul: the synonym table carries Korean
// color names, so the script must survive cleaning.
var nonColorRune = regexp.MustCompile(`[^a-z가-힣]`)

var firstNumber = regexp.MustCompile(`[\d.]+`)

// NormalizeColor maps a raw color string to its canonical token.
// Composite vendor codes ("BLK0_BLACK") keep only the human-readable
// suffix; anything unmapped passes through cleaned, so identical
// unknown colors still join across platforms. Idempotent.
func NormalizeColor(raw string) string {
	if raw == "" || strings.EqualFold(raw, "ONE COLOR") {
		return OneColor
	}

	c := strings.ToLower(raw)
	if c == OneColor {
		return OneColor
	}

	if i := strings.LastIndex(c, "_"); i >= 0 {
		c = c[i+1:]
	}

	clean := nonColorRune.ReplaceAllString(c, "")

	for _, entry := range colorMap {
		for _, syn := range entry.synonyms {
			if strings.Contains(clean, syn) {
				return entry.canonical
			}
		}
	}
	return clean
}

// NormalizeSize maps a raw size string to a canonical KR size token.
// Letter-coded apparel sizes go through the clothing table, values that
// look like EU shoe sizes go through the EU table, values >= 200 are
// already KR millimeters. Unparseable input is echoed back unchanged:
// the token is a join key, not a measurement.
func NormalizeSize(raw string) string {
	if raw == "" {
		return sizeNAToken
	}

	s := strings.ToUpper(strings.TrimSpace(raw))

	// composites like "A/XS": prefer an apparel code, then a bare
	// number, fall back to the last segment
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		picked := strings.TrimSpace(parts[len(parts)-1])
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if _, ok := clothingSizeMap[p]; ok {
				picked = p
				break
			}
			if p != "" && isDigits(p) {
				picked = p
				break
			}
		}
		s = picked
	}

	if kr, ok := clothingSizeMap[s]; ok {
		return kr
	}

	numStr := firstNumber.FindString(s)
	if numStr == "" {
		return s
	}
	val, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return s
	}

	if val >= 200 {
		return strconv.Itoa(int(val))
	}
	if val >= 30 && val <= 50 {
		if kr, ok := euToKR[numStr]; ok {
			return kr
		}
		return numStr
	}
	if val == float64(int(val)) {
		return strconv.Itoa(int(val))
	}
	return numStr
}

// SizeToFloat converts a size token to a sortable number. It is a
// display ordering aid only and never feeds back into matching.
func SizeToFloat(size string) float64 {
	if size == "" {
		return unsortableSize
	}
	if isDigits(size) {
		v, _ := strconv.ParseFloat(size, 64)
		return v
	}
	if kr, ok := clothingSizeMap[strings.ToUpper(strings.TrimSpace(size))]; ok {
		v, _ := strconv.ParseFloat(kr, 64)
		return v
	}
	if numStr := firstNumber.FindString(size); numStr != "" {
		if v, err := strconv.ParseFloat(numStr, 64); err == nil {
			return v
		}
	}
	return unsortableSize
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
