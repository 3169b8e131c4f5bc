package export

import (
	"os"
	"path/filepath"

	excelize "github.com/xuri/excelize/v2"
)

const sheetName = "Comparison"

// WriteXLSX writes rows as a styled workbook: bold frozen header,
// numeric price/profit cells, profitable rows tinted.
func WriteXLSX(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return err
	}
	profitStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E2F0D9"}},
	})
	if err != nil {
		return err
	}

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &hdr); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return err
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	for i, r := range rows {
		rowNum := i + 2
		cells := []any{
			r.Brand, r.ProductName, r.ModelNo, r.Size, orDash(r.EUSize), r.Color,
			r.BuyPrice, r.BuyStock, r.SellPrice, r.SellStock,
			r.Profit, r.Margin, r.Status, r.SalesScore, r.SalesRank,
			r.ImageURL, r.BuyURL, r.HasProfit,
			r.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return err
		}
		if r.Status == "PROFIT" {
			end, _ := excelize.CoordinatesToCellName(len(header), rowNum)
			if err := f.SetCellStyle(sheetName, cell, end, profitStyle); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
