package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookBuilderSheetsAndRows(t *testing.T) {
	b := NewWorkbookBuilder()

	first, err := b.AddSheet("Inst_1")
	require.NoError(t, err)
	require.NoError(t, first.AppendRow("Appointment report for North High"))
	require.NoError(t, first.AppendRow("PendingAttendance", 2))
	require.NoError(t, first.AppendRow())
	require.NoError(t, first.AppendRow("Id", "Date", "Time"))
	require.NoError(t, first.AppendRow(int64(7), "2026-03-01", "09:30"))

	second, err := b.AddSheet("Inst_2")
	require.NoError(t, err)
	require.NoError(t, second.AppendRow("Appointment report for South High"))

	payload, err := b.Bytes()
	require.NoError(t, err)

	reopened, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, []string{"Inst_1", "Inst_2"}, reopened.GetSheetList())

	title, err := reopened.GetCellValue("Inst_1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Appointment report for North High", title)

	count, err := reopened.GetCellValue("Inst_1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	// Row 3 is the blank separator, row 4 the header.
	blank, err := reopened.GetCellValue("Inst_1", "A3")
	require.NoError(t, err)
	assert.Empty(t, blank)

	header, err := reopened.GetCellValue("Inst_1", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Id", header)

	id, err := reopened.GetCellValue("Inst_1", "A5")
	require.NoError(t, err)
	assert.Equal(t, "7", id)
}

func TestWorkbookBuilderEmpty(t *testing.T) {
	b := NewWorkbookBuilder()
	assert.Equal(t, 0, b.SheetCount())

	payload, err := b.Bytes()
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	reopened, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer reopened.Close()
	assert.Len(t, reopened.GetSheetList(), 1)
}
