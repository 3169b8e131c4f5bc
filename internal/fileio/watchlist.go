package fileio

import (
	"io"
	"strings"
)

// Column names recognized as the model-number column, checked in order.
var keywordColumns = []string{"Model No", "model_no", "모델번호", "품번", "Keyword", "keyword"}

// ReadKeywords loads a watchlist of model numbers from a csv/xls/xlsx
// upload. The keyword column is found by header name, falling back to
// the first column; duplicates are dropped keeping first-seen order.
func ReadKeywords(r io.Reader, filename string) ([]string, error) {
	rows, err := readGrid(r, filename)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := -1
	header := rows[0]
	for _, want := range keywordColumns {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				col = i
				break
			}
		}
		if col >= 0 {
			break
		}
	}
	start := 1
	if col < 0 {
		// no recognized header: read the first column, and when the top
		// cell already looks like a model number the file has no header
		// row at all
		col = 0
		if len(header) > 0 && looksLikeModelNo(strings.TrimSpace(header[0])) {
			start = 0
		}
	}

	seen := map[string]bool{}
	var out []string
	for _, row := range rows[start:] {
		if col >= len(row) {
			continue
		}
		kw := strings.TrimSpace(row[col])
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out, nil
}

// looksLikeModelNo reports whether a cell reads as an article number
// rather than a column title: a single token carrying a digit.
func looksLikeModelNo(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	return strings.ContainsAny(s, "0123456789")
}
