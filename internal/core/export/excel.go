package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter implements Table export using excelize
type ExcelExporter struct {
	sheetName string
	style     Style
}

func NewExcelExporter(style Style) *ExcelExporter {
	return &ExcelExporter{
		sheetName: "Scripts",
		style:     style,
	}
}

// Export writes t as a single-sheet workbook
func (e *ExcelExporter) Export(t *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", e.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	// Title row, then a blank row
	row := 1
	if t.Title != "" {
		titleStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 14, Family: e.style.FontFamily},
		})
		if err != nil {
			return fmt.Errorf("failed to create title style: %w", err)
		}
		if err := f.SetCellValue(e.sheetName, "A1", t.Title); err != nil {
			return err
		}
		if err := f.SetCellStyle(e.sheetName, "A1", "A1", titleStyle); err != nil {
			return err
		}
		row += 2
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: e.style.FontSize, Family: e.style.FontFamily, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{stripHashFromColor(e.style.HeaderBgColor)}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	altStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: e.style.FontSize, Family: e.style.FontFamily},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{stripHashFromColor(e.style.RowBgColor)}},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create row style: %w", err)
	}
	plainStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: e.style.FontSize, Family: e.style.FontFamily},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create row style: %w", err)
	}

	headerRow := row
	if len(t.Headers) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), headerRow)
		if err := f.SetSheetRow(e.sheetName, first, &t.Headers); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(e.sheetName, first, last, headerStyle); err != nil {
			return err
		}
		row++
	}

	for i, values := range t.Rows {
		if len(values) == 0 {
			row++
			continue
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		if err := f.SetSheetRow(e.sheetName, first, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		style := plainStyle
		if i%2 == 1 {
			style = altStyle
		}
		if err := f.SetCellStyle(e.sheetName, first, last, style); err != nil {
			return err
		}
		row++
	}

	for col, width := range t.ColumnWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(e.sheetName, name, name, width); err != nil {
			return err
		}
	}

	if e.style.FreezeHeader && len(t.Headers) > 0 {
		topLeft, _ := excelize.CoordinatesToCellName(1, headerRow+1)
		if err := f.SetPanes(e.sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: topLeft,
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
	}

	if e.style.AutoFilter && len(t.Headers) > 0 && len(t.Rows) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), headerRow+len(t.Rows))
		if err := f.AutoFilter(e.sheetName, first+":"+last, nil); err != nil {
			return fmt.Errorf("failed to add filter: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}
