package review

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/resume-refiner/internal/types"
)

const changeLogSheet = "Change Log"

// WriteChangeLogXLSX writes the change log as a spreadsheet, one row per entry in the given order.
func WriteChangeLogXLSX(w io.Writer, entries []types.ChangeLogEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", changeLogSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Time", "Field", "Original", "New", "Reason", "Undoable"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(changeLogSheet, cell, h)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(changeLogSheet, "A1", "F1", bold)
	}

	for i, e := range entries {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(changeLogSheet, cell, v)
		}
		write(1, e.Timestamp.Format("2006-01-02 15:04:05"))
		write(2, e.FieldPath)
		write(3, e.OriginalValue)
		write(4, e.NewValue)
		write(5, e.Reason)
		write(6, e.Undoable())
	}

	_ = f.SetColWidth(changeLogSheet, "A", "A", 20)
	_ = f.SetColWidth(changeLogSheet, "B", "B", 30)
	_ = f.SetColWidth(changeLogSheet, "C", "E", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write change log: %w", err)
	}
	return nil
}

// ChangeDiff renders the edit of an accepted change inline: removed text as [-x-] and inserted
// text as {+y+}. Extraction entries are returned as their description.
func ChangeDiff(entry types.ChangeLogEntry) string {
	if !entry.Undoable() {
		return entry.NewValue
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(entry.OriginalValue, entry.NewValue, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		}
	}
	return sb.String()
}
