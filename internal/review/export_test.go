package review

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/resume-refiner/internal/types"
)

func TestWriteChangeLogXLSX(t *testing.T) {
	entries := []types.ChangeLogEntry{
		{ID: "2", Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), FieldPath: "summary.0",
			OriginalValue: "sucess", NewValue: "success", Reason: "Misspelling"},
		{ID: "1", Timestamp: time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), FieldPath: types.ExtractionPath,
			OriginalValue: "REMOVAL", NewValue: "Removed phone number", Reason: "privacy"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChangeLogXLSX(&buf, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(changeLogSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Time", "Field", "Original", "New", "Reason", "Undoable"}, rows[0])
	assert.Equal(t, "summary.0", rows[1][1])
	assert.Equal(t, "success", rows[1][3])
	assert.Equal(t, "TRUE", rows[1][5])
	assert.Equal(t, types.ExtractionPath, rows[2][1])
	assert.Equal(t, "FALSE", rows[2][5])
}

func TestChangeDiff(t *testing.T) {
	out := ChangeDiff(types.ChangeLogEntry{FieldPath: "summary.0", OriginalValue: "sucess", NewValue: "success"})
	assert.Contains(t, out, "{+c+}")

	plain := strings.NewReplacer("{+", "", "+}", "", "[-", "", "-]", "").Replace(out)
	assert.Equal(t, "success", plain)
}

func TestChangeDiff_Replacement(t *testing.T) {
	out := ChangeDiff(types.ChangeLogEntry{FieldPath: "summary.0", OriginalValue: "was led", NewValue: "led"})
	assert.Contains(t, out, "[-")
	assert.NotContains(t, out, "{+")
}

func TestChangeDiff_ExtractionEntry(t *testing.T) {
	out := ChangeDiff(types.ChangeLogEntry{FieldPath: types.ExtractionPath, NewValue: "Removed phone number"})
	assert.Equal(t, "Removed phone number", out)
}
