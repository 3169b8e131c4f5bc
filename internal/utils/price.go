package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepDigits = regexp.MustCompile(`[^\d-]`)

// ParseWon parses scraped price strings like "129,000원", "129 000",
// "₩129,000" (NBSP/NNBSP included) into whole won.
func ParseWon(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "", ",", "")
	s = rxKeepDigits.ReplaceAllString(repl.Replace(s), "")
	if s == "" || s == "-" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
