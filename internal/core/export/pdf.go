package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a Document with gofpdf core fonts
type PDFExporter struct {
	style Style
}

func NewPDFExporter(style Style) *PDFExporter {
	if style.FontFamily == "" {
		style.FontFamily = "Arial"
	}
	if style.FontSize == 0 {
		style.FontSize = 11
	}
	return &PDFExporter{style: style}
}

// Export writes doc as an A4 portrait PDF
func (p *PDFExporter) Export(doc *Document, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; runes outside it print as '.'
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	family := p.style.FontFamily

	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("reelscript", true)
	if !doc.CreatedAt.IsZero() {
		pdf.SetCreationDate(doc.CreatedAt)
	}
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont(family, "B", 16)
		pdf.MultiCell(0, 8, tr(doc.Title), "", "", false)
		pdf.Ln(2)
	}

	if len(doc.Fields) > 0 {
		pdf.SetFont(family, "", 9)
		pdf.SetTextColor(90, 90, 90)
		for _, f := range doc.Fields {
			if f.Value == "" {
				continue
			}
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %s", f.Label, f.Value)), "", "", false)
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	if len(doc.Sections) == 0 {
		pdf.SetFont(family, "", p.style.FontSize)
		pdf.MultiCell(0, 6, tr(plain(doc.Body)), "", "", false)
	}
	for _, s := range doc.Sections {
		r, g, b := hexToRGB(p.style.HeaderBgColor)
		pdf.SetTextColor(r, g, b)
		pdf.SetFont(family, "B", p.style.FontSize+2)
		pdf.Cell(0, 8, tr(s.Key))
		pdf.Ln(8)

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(family, "", p.style.FontSize)
		pdf.MultiCell(0, 6, tr(plain(s.Content)), "", "", false)
		pdf.Ln(4)
	}

	if !doc.CreatedAt.IsZero() {
		pdf.SetFont(family, "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", doc.CreatedAt.Format("2006-01-02 15:04")))
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// plain drops markdown bold markers
func plain(md string) string {
	return strings.ReplaceAll(md, "**", "")
}

// hexToRGB converts hex color to RGB values, black when invalid
func hexToRGB(hex string) (int, int, int) {
	hex = stripHashFromColor(hex)
	if len(hex) != 6 {
		return 0, 0, 0
	}

	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}
