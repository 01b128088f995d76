package export

import (
	"bytes"
	"fmt"
)

// Service picks the renderer for a format
type Service struct {
	pdf   *PDFExporter
	excel *ExcelExporter
}

func NewService() *Service {
	style := DefaultStyle()
	return &Service{
		pdf:   NewPDFExporter(style),
		excel: NewExcelExporter(style),
	}
}

// Document renders a single script as text or PDF
func (s *Service) Document(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(doc.Body), nil
	case FormatPDF:
		var buf bytes.Buffer
		if err := s.pdf.Export(doc, &buf); err != nil {
			return nil, fmt.Errorf("PDF export failed: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w for a single script: %s", ErrUnsupportedFormat, format)
	}
}

// Table renders t as an Excel workbook
func (s *Service) Table(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.excel.Export(t, &buf); err != nil {
		return nil, fmt.Errorf("Excel export failed: %w", err)
	}
	return buf.Bytes(), nil
}
