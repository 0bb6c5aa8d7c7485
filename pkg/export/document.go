package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// DocumentBuilder accumulates titled table sections into a landscape A4
// document and serializes it once. Each section starts on its own page, so
// consecutive sections are separated by exactly one page break and the last
// section has no trailing break.
type DocumentBuilder struct {
	pdf      *gofpdf.Fpdf
	usable   float64
	sections int
}

// NewDocumentBuilder creates an empty landscape document.
func NewDocumentBuilder() *DocumentBuilder {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(12.7, 12.7, 12.7)
	pdf.SetAutoPageBreak(true, 12.7)
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	return &DocumentBuilder{pdf: pdf, usable: pageWidth - left - right}
}

// StartSection opens a new page for the next section.
func (b *DocumentBuilder) StartSection() {
	b.pdf.AddPage()
	b.sections++
}

// AddTitle writes a section heading.
func (b *DocumentBuilder) AddTitle(text string) {
	b.pdf.SetFont("Arial", "B", 16)
	b.pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	b.pdf.Ln(2)
}

// AddSubtitle writes a secondary heading.
func (b *DocumentBuilder) AddSubtitle(text string) {
	b.pdf.Ln(3)
	b.pdf.SetFont("Arial", "B", 12)
	b.pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	b.pdf.Ln(1)
}

// AddNotice writes a plain informational paragraph.
func (b *DocumentBuilder) AddNotice(text string) {
	b.pdf.SetFont("Arial", "", 12)
	b.pdf.MultiCell(0, 8, text, "", "L", false)
}

// AddTable renders a bordered table. Widths are relative weights scaled to
// widthPercent of the printable page width. Rows shorter than the header are
// padded with empty cells.
func (b *DocumentBuilder) AddTable(headers []string, widths []float64, rows [][]string, widthPercent float64) error {
	if len(headers) == 0 {
		return fmt.Errorf("table requires at least one header")
	}
	if len(widths) != len(headers) {
		return fmt.Errorf("table widths mismatch: %d headers, %d widths", len(headers), len(widths))
	}
	if widthPercent <= 0 || widthPercent > 100 {
		widthPercent = 100
	}

	var total float64
	for _, w := range widths {
		total += w
	}
	scale := b.usable * widthPercent / 100 / total
	cols := make([]float64, len(widths))
	for i, w := range widths {
		cols[i] = w * scale
	}

	b.pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		b.pdf.CellFormat(cols[i], 7, header, "1", 0, "C", false, 0, "")
	}
	b.pdf.Ln(-1)

	b.pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		for i := range headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			b.pdf.CellFormat(cols[i], 7, value, "1", 0, "", false, 0, "")
		}
		b.pdf.Ln(-1)
	}
	return nil
}

// PageCount reports the number of pages added so far.
func (b *DocumentBuilder) PageCount() int {
	return b.pdf.PageCount()
}

// Bytes serializes the document.
func (b *DocumentBuilder) Bytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := b.pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return buf.Bytes(), nil
}
