package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

// readXLS parses legacy .xls workbooks. Old Korean vendor exports are
// usually EUC-KR, occasionally UTF-8, so both charsets are tried.
func readXLS(r io.Reader) ([][]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"euc-kr", "utf-8"} {
		wb, lastErr = xls.OpenReader(bytes.NewReader(b), ch)
		if lastErr == nil && wb != nil {
			break
		}
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	// Row.LastCol is unreliable on sparse sheets; fix the width from a
	// full scan and read every cell up to it.
	maxCols := computeMaxCols(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = strings.TrimSpace(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	return rows, nil
}

func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 256
	maxCols := 1
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if strings.TrimSpace(r.Col(j)) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	return maxCols
}
