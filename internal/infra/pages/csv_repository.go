package pages

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"leyning_exporter/internal/domain/pages"
)

// Expected CSV column headers. "Haftara verses" is accepted as a legacy
// spelling of "Haftarah verses".
const (
	colParsha            = "Parsha"
	colTorahPage         = "Torah Page"
	colHaftarahPage      = "Haftarah Page"
	colHaftarahVerses    = "Haftarah verses"
	colHaftarahVersesOld = "Haftara verses"
)

// CSVRepository is an in-memory page-number lookup loaded from a CSV file
// keyed by parsha name.
type CSVRepository struct {
	records map[string]pages.Record
}

// NewCSVRepository loads the page-number CSV. The first row must be a header
// naming at least the Parsha column; missing value cells leave the
// corresponding record fields unset.
func NewCSVRepository(path string) (*CSVRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening page-number file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading page-number file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("page-number file %s is empty", path)
	}

	idx := map[string]int{}
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if name == colHaftarahVersesOld {
			name = colHaftarahVerses
		}
		idx[name] = i
	}
	nameIdx, ok := idx[colParsha]
	if !ok {
		return nil, fmt.Errorf("page-number file %s has no %q column", path, colParsha)
	}

	records := make(map[string]pages.Record, len(rows)-1)
	for _, row := range rows[1:] {
		if nameIdx >= len(row) || strings.TrimSpace(row[nameIdx]) == "" {
			continue
		}
		rec := pages.Record{
			TorahPage:    parsePage(cell(row, idx, colTorahPage)),
			HaftarahPage: parsePage(cell(row, idx, colHaftarahPage)),
		}
		rec.HaftarahVerses = strings.TrimSpace(cell(row, idx, colHaftarahVerses))
		records[strings.TrimSpace(row[nameIdx])] = rec
	}

	return &CSVRepository{records: records}, nil
}

// Lookup returns the record for an occasion name, if one was loaded.
func (r *CSVRepository) Lookup(occasionName string) (*pages.Record, bool) {
	rec, ok := r.records[occasionName]
	if !ok {
		return nil, false
	}
	return &rec, true
}

func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// parsePage converts a page cell to an integer. Spreadsheet exports often
// render integers as floats ("36.0"), so parse through float64.
func parsePage(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}
