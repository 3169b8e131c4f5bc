package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// readCSV reads a CSV grid, sniffing the encoding and converting to
// UTF-8. Korean spreadsheet exports are frequently EUC-KR (CP949); our
// own reports are UTF-8 with a BOM.
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "euc-kr", "cp949", "uhc":
		dec = transform.NewReader(br, korean.EUCKR.NewDecoder())
	default:
		// assume UTF-8; a leading BOM is dropped below
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\uFEFF")
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
