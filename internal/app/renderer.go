package app

import (
	"context"
	"fmt"

	"leyning_exporter/internal/domain/report"
	"leyning_exporter/internal/domain/spreadsheet"
)

// Renderer translates a report model into sink operations: one range write
// for all cell content, then one format call per styled span.
type Renderer struct {
	sink spreadsheet.Sink
}

func NewRenderer(sink spreadsheet.Sink) *Renderer {
	return &Renderer{sink: sink}
}

func (r *Renderer) Render(ctx context.Context, sheetID int64, m *report.Model) error {
	if len(m.Rows) == 0 {
		return nil
	}

	rows := make([][]string, len(m.Rows))
	for i, row := range m.Rows {
		cells := make([]string, m.Columns)
		copy(cells, row.Cells[:m.Columns])
		rows[i] = cells
	}

	ref := fmt.Sprintf("A1:%s%d", columnLetter(m.Columns-1), len(m.Rows))
	if err := r.sink.WriteRange(ctx, sheetID, ref, rows); err != nil {
		return err
	}

	for i, row := range m.Rows {
		for _, f := range row.Formats {
			if err := r.sink.FormatRange(ctx, sheetID, spanRef(f.StartCol, f.EndCol, i+1), f.Style); err != nil {
				return err
			}
		}
	}
	return nil
}

// columnLetter maps a zero-based column index to its letter. Reports never
// exceed column F, so a single letter suffices.
func columnLetter(col int) string {
	return string(rune('A' + col))
}

// spanRef builds the A1 reference for a format span on a 1-based sheet row:
// "B25" for a single cell, "A15:C15" for a run.
func spanRef(startCol, endCol, row int) string {
	if startCol == endCol {
		return fmt.Sprintf("%s%d", columnLetter(startCol), row)
	}
	return fmt.Sprintf("%s%d:%s%d", columnLetter(startCol), row, columnLetter(endCol), row)
}
