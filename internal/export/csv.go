package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
)

// WriteCSV writes rows to path, creating parent directories. The file
// starts with a UTF-8 BOM so Korean text opens cleanly in Excel.
func WriteCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString("\uFEFF"); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.values()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
