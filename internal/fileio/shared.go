// Package fileio loads keyword watchlists (model numbers to scan) from
// csv, xls and xlsx uploads, and reads stored reports back.
package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// readGrid picks a parser by file extension and returns the sheet as a
// raw cell grid.
func readGrid(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// ReadAnyMaps returns rows as map[header]value records. headerRow is
// 1-based; rows above it are ignored.
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	if headerRow <= 0 {
		return nil, fmt.Errorf("headerRow must be 1-based and >= 1")
	}
	rows, err := readGrid(r, filename)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	h := pickHeader(rows, headerRow)
	return rowsToMaps(rows, h, headerRow), nil
}

// pickHeader returns the header row, substituting "Column N" for blanks.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts the raw grid to records keyed by header,
// skipping rows that are entirely blank.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	var out []map[string]string
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := map[string]string{}
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
