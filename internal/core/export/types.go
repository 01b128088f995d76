// Package export renders saved scripts as downloadable files: plain text
// and PDF for a single script, an Excel workbook for a whole library.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/script"
)

// Format is a download file format
type Format string

const (
	FormatText  Format = "txt"
	FormatPDF   Format = "pdf"
	FormatExcel Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts a format name from a query string. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Field is a label/value line printed under a document title
type Field struct {
	Label string
	Value string
}

// Document is a single script ready for rendering
type Document struct {
	Title     string
	Fields    []Field
	Body      string // cleaned markdown
	Sections  []script.Section
	CreatedAt time.Time
}

// Table is a sheet of rows under a header
type Table struct {
	Title        string
	Headers      []string
	Rows         [][]interface{}
	ColumnWidths map[int]float64 // column index -> width
}

// Style defines shared styling for rendered files
type Style struct {
	FontFamily    string
	FontSize      float64
	HeaderBgColor string // hex
	RowBgColor    string // hex, alternate rows
	FreezeHeader  bool
	AutoFilter    bool
}

// DefaultStyle returns the default export styling
func DefaultStyle() Style {
	return Style{
		FontFamily:    "Arial",
		FontSize:      11,
		HeaderBgColor: "#4472C4",
		RowBgColor:    "#F2F2F2",
		FreezeHeader:  true,
		AutoFilter:    true,
	}
}

// stripHashFromColor removes # from hex color codes
func stripHashFromColor(color string) string {
	return strings.TrimPrefix(color, "#")
}
