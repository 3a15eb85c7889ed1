package report

import (
	"leyning_exporter/internal/domain/spreadsheet"
)

// Presentation constants. These are data, not control flow, so tests can
// assert on them directly.
var (
	// ColorGray marks section labels and table headers.
	ColorGray = spreadsheet.Color{Red: 0.9, Green: 0.9, Blue: 0.9}
	// ColorOrange marks the Torah-scroll row in the header block.
	ColorOrange = spreadsheet.Color{Red: 1.0, Green: 0.8, Blue: 0.6}
	// ColorFastDay highlights fast-day headers in the minyan report.
	ColorFastDay = spreadsheet.Color{Red: 1.0, Green: 0.8, Blue: 0.8}
	// ColorFestive highlights Rosh Chodesh and Chol Hamoed headers.
	ColorFestive = spreadsheet.Color{Red: 0.8, Green: 1.0, Blue: 0.8}

	// AliyahColors is the rotating highlight cycle for aliyah rows, applied
	// in key order as 0,1,2,0,1,2,...
	AliyahColors = [3]spreadsheet.Color{
		{Red: 1.0, Green: 1.0, Blue: 0.8},
		{Red: 1.0, Green: 0.8, Blue: 1.0},
		{Red: 0.8, Green: 1.0, Blue: 1.0},
	}

	// ColumnWidths matches the template sheet's pixel widths for columns A-F.
	ColumnWidths = []int64{113, 233, 184, 184, 184, 442}
)

// Format applies a style to a contiguous span of cells within one row.
// Columns are zero-based and inclusive.
type Format struct {
	StartCol int
	EndCol   int
	Style    spreadsheet.CellStyle
}

// Row is one logical report row: up to six cells plus its cell formats.
type Row struct {
	Cells   [6]string
	Formats []Format
}

func (r *Row) format(startCol, endCol int, style spreadsheet.CellStyle) {
	r.Formats = append(r.Formats, Format{StartCol: startCol, EndCol: endCol, Style: style})
}

// Model is the in-memory representation of one rendered report: an ordered
// list of rows and the sheet width they occupy. Built fresh per occasion and
// discarded after rendering.
type Model struct {
	// Columns is the rendered width: 6 for occasion reports, 4 for the
	// aggregate minyan report.
	Columns int
	Rows    []Row
	// Malformed counts cells that degraded to fallback text because the
	// underlying record could not be parsed.
	Malformed int
}

func (m *Model) appendRow(r Row) {
	m.Rows = append(m.Rows, r)
}

func (m *Model) blankRow() {
	m.Rows = append(m.Rows, Row{})
}
