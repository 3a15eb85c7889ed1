package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// gridBounds is a parsed A1 range in the half-open, zero-based form the
// Sheets API's GridRange expects.
type gridBounds struct {
	StartCol int64
	EndCol   int64
	StartRow int64
	EndRow   int64
}

// parseA1 parses a sheet-local A1 reference such as "B25", "A15:C15" or
// "A1:F1000".
func parseA1(ref string) (gridBounds, error) {
	start, end, found := strings.Cut(ref, ":")
	if !found {
		end = start
	}

	startCol, startRow, err := parseCell(start)
	if err != nil {
		return gridBounds{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	endCol, endRow, err := parseCell(end)
	if err != nil {
		return gridBounds{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	if endCol < startCol || endRow < startRow {
		return gridBounds{}, fmt.Errorf("invalid range %q: end before start", ref)
	}

	return gridBounds{
		StartCol: startCol,
		EndCol:   endCol + 1,
		StartRow: startRow,
		EndRow:   endRow + 1,
	}, nil
}

// parseCell parses a single cell reference like "C15" into zero-based column
// and row indices.
func parseCell(cell string) (col, row int64, err error) {
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int64(cell[i]-'A'+1)
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("cell %q has no column letters", cell)
	}
	n, convErr := strconv.ParseInt(cell[i:], 10, 64)
	if convErr != nil || n < 1 {
		return 0, 0, fmt.Errorf("cell %q has no valid row number", cell)
	}
	return col - 1, n - 1, nil
}
