package spreadsheet

import (
	"context"
	"errors"
)

// Custom errors surfaced by Sink implementations.
var (
	// ErrSheetConflict means a tab with the requested title already exists.
	// The orchestrator recovers by deleting the conflicting tab and retrying
	// creation once.
	ErrSheetConflict = errors.New("sheet with this title already exists")
	// ErrSinkUnavailable wraps any other backend failure. Fatal to the run.
	ErrSinkUnavailable = errors.New("spreadsheet backend unavailable")
)

// Color is an RGB cell background color with components in [0, 1].
type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

// CellStyle describes the formatting applied to a cell range. Zero-valued
// fields are left untouched on the sheet, so styles compose across calls.
type CellStyle struct {
	Background *Color
	Bold       bool
	Center     bool
	FontSize   int64
	FontFamily string
	Overflow   bool // wrap strategy: overflow into adjacent empty cells
}

// Sheet identifies one tab of the target spreadsheet.
type Sheet struct {
	ID    int64
	Title string
}

// Sink is the spreadsheet backend the renderer writes to. Range references
// use A1 notation without a sheet-title prefix; tabs are addressed by ID.
// Implementations are individually rate-limited and must be used from a
// single goroutine.
type Sink interface {
	// EnsureSpreadsheet opens the named spreadsheet, creating it if missing,
	// and returns its URL.
	EnsureSpreadsheet(ctx context.Context, title string) (string, error)
	// Share grants write access to the given email address and enables
	// anyone-with-the-link write access.
	Share(ctx context.Context, email string) error
	Sheets(ctx context.Context) ([]Sheet, error)
	CreateSheet(ctx context.Context, title string) (int64, error)
	DeleteSheet(ctx context.Context, sheetID int64) error
	RenameSheet(ctx context.Context, sheetID int64, title string) error
	ReorderSheets(ctx context.Context, order []int64) error
	ClearSheet(ctx context.Context, sheetID int64) error
	WriteRange(ctx context.Context, sheetID int64, rangeRef string, rows [][]string) error
	FormatRange(ctx context.Context, sheetID int64, rangeRef string, style CellStyle) error
	SetColumnWidths(ctx context.Context, sheetID int64, widths []int64) error
}
