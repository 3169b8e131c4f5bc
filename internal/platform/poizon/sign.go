package poizon

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// The seller portal signs every request body with a static salt.
const signSalt = "048a9c4943398714b356a696503d2d36"

// generateSign reproduces the portal's request signature: keys sorted,
// each key concatenated with its rendered value (lists sorted and
// comma-joined, nested structures as compact JSON, booleans lowercase,
// nils skipped), then the salt, MD5-hexed.
func generateSign(payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := payload[k]
		if v == nil {
			continue
		}
		switch val := v.(type) {
		case []any:
			b.WriteString(k)
			if len(val) > 0 {
				parts := make([]string, 0, len(val))
				for _, x := range val {
					parts = append(parts, renderScalar(x))
				}
				sort.Strings(parts)
				b.WriteString(strings.Join(parts, ","))
			}
		case map[string]any:
			b.WriteString(k)
			b.WriteString(compactJSON(val))
		case bool:
			b.WriteString(k)
			if val {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		default:
			b.WriteString(k)
			b.WriteString(fmt.Sprintf("%v", val))
		}
	}
	b.WriteString(signSalt)

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func renderScalar(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		return compactJSON(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
