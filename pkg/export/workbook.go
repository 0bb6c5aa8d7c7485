package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookBuilder accumulates sheets and rows in memory and serializes the
// workbook once. Sheets keep their insertion order.
type WorkbookBuilder struct {
	file   *excelize.File
	sheets int
}

// NewWorkbookBuilder creates an empty workbook.
func NewWorkbookBuilder() *WorkbookBuilder {
	return &WorkbookBuilder{file: excelize.NewFile()}
}

// SheetWriter appends rows to a single sheet, top to bottom.
type SheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
}

// AddSheet registers a new sheet with the given name. The first sheet replaces
// the workbook's default sheet so an unused blank tab never leaks into output.
func (b *WorkbookBuilder) AddSheet(name string) (*SheetWriter, error) {
	if b.sheets == 0 {
		if err := b.file.SetSheetName(b.file.GetSheetName(0), name); err != nil {
			return nil, fmt.Errorf("rename default sheet: %w", err)
		}
	} else {
		if _, err := b.file.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	b.sheets++
	return &SheetWriter{file: b.file, sheet: name}, nil
}

// SheetCount reports the number of sheets added so far.
func (b *WorkbookBuilder) SheetCount() int {
	return b.sheets
}

// AppendRow writes one row of cells below the previously written row.
// Calling it with no cells emits a blank separator row.
func (w *SheetWriter) AppendRow(cells ...interface{}) error {
	w.row++
	if len(cells) == 0 {
		return nil
	}
	anchor, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return fmt.Errorf("row anchor: %w", err)
	}
	if err := w.file.SetSheetRow(w.sheet, anchor, &cells); err != nil {
		return fmt.Errorf("write row %d on %s: %w", w.row, w.sheet, err)
	}
	return nil
}

// SetColumnWidths applies a uniform width to the first n columns.
func (w *SheetWriter) SetColumnWidths(n int, width float64) error {
	if n < 1 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	if err := w.file.SetColWidth(w.sheet, "A", last, width); err != nil {
		return fmt.Errorf("set column widths on %s: %w", w.sheet, err)
	}
	return nil
}

// Bytes serializes the workbook. A builder with no sheets yields a valid
// empty workbook.
func (b *WorkbookBuilder) Bytes() ([]byte, error) {
	buf, err := b.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
