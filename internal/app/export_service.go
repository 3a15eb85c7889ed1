package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"leyning_exporter/internal/domain/pages"
	"leyning_exporter/internal/domain/reading"
	"leyning_exporter/internal/domain/report"
	"leyning_exporter/internal/domain/spreadsheet"

	"github.com/sirupsen/logrus"
)

// minyanSheetTitle is the fixed title of the first tab holding the aggregate
// weekday report.
const minyanSheetTitle = "Minyan"

// globalFormatRange covers every cell a report can touch; the base style is
// applied to it once per tab before any content is written.
const globalFormatRange = "A1:F1000"

var baseCellStyle = spreadsheet.CellStyle{
	FontFamily: "Arial",
	FontSize:   11,
	Overflow:   true,
}

// ExportService drives one export run end to end: fetch the reading set,
// build the per-occasion and weekday report models, and render them to the
// spreadsheet sink. Strictly sequential; each occasion's report is written to
// completion before the next begins.
type ExportService struct {
	source   reading.Source
	pages    pages.Repository // nil when no page-number file was supplied
	sink     spreadsheet.Sink
	renderer *Renderer
	logger   *logrus.Logger
	testMode bool
}

func NewExportService(
	source reading.Source,
	pagesRepo pages.Repository,
	sink spreadsheet.Sink,
	logger *logrus.Logger,
	testMode bool,
) *ExportService {
	return &ExportService{
		source:   source,
		pages:    pagesRepo,
		sink:     sink,
		renderer: NewRenderer(sink),
		logger:   logger,
		testMode: testMode,
	}
}

// Run exports the date range into the named spreadsheet. Sheet-title
// conflicts that survive recovery skip that occasion and continue; any other
// sink failure aborts the run.
func (s *ExportService) Run(ctx context.Context, startDate, endDate, sheetTitle, shareEmail string) error {
	set, err := s.source.Fetch(ctx, startDate, endDate)
	if err != nil {
		return err
	}
	s.dumpFetched(set)

	s.logger.Infof("Connecting to Google Sheets: %s", sheetTitle)
	url, err := s.sink.EnsureSpreadsheet(ctx, sheetTitle)
	if err != nil {
		return fmt.Errorf("error opening spreadsheet %q: %w", sheetTitle, err)
	}
	if err := s.sink.Share(ctx, shareEmail); err != nil {
		return err
	}

	groups := groupOccasions(set.Items)
	if s.testMode && len(groups) > 0 {
		groups = groups[:1]
		s.logger.Infof("Test mode: processing only parsha %s", groups[0].name)
	}

	minyanID, err := s.prepareSheets(ctx)
	if err != nil {
		return err
	}
	if err := s.renderMinyan(ctx, minyanID, set.Items); err != nil {
		return err
	}

	for _, g := range groups {
		if err := s.exportOccasion(ctx, g); err != nil {
			if errors.Is(err, spreadsheet.ErrSheetConflict) {
				s.logger.Warnf("Skipping %s: %v", g.name, err)
				continue
			}
			return err
		}
	}

	if err := s.reorderMinyanFirst(ctx, minyanID); err != nil {
		return err
	}

	s.logger.Infof("Successfully wrote data to %s", sheetTitle)
	s.logger.Infof("Spreadsheet URL: %s", url)
	return nil
}

// prepareSheets makes the first tab the minyan tab (renaming and clearing
// it) and deletes every other stale tab. Returns the minyan tab's ID.
func (s *ExportService) prepareSheets(ctx context.Context) (int64, error) {
	existing, err := s.sink.Sheets(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, fmt.Errorf("%w: spreadsheet has no sheets", spreadsheet.ErrSinkUnavailable)
	}

	first := existing[0]
	if first.Title != minyanSheetTitle {
		if err := s.sink.RenameSheet(ctx, first.ID, minyanSheetTitle); err != nil {
			return 0, err
		}
	}
	if err := s.sink.ClearSheet(ctx, first.ID); err != nil {
		return 0, err
	}

	for _, sh := range existing[1:] {
		if err := s.sink.DeleteSheet(ctx, sh.ID); err != nil {
			s.logger.Warnf("Error deleting worksheet %s: %v", sh.Title, err)
		}
	}
	return first.ID, nil
}

func (s *ExportService) renderMinyan(ctx context.Context, sheetID int64, items []reading.Occasion) error {
	s.logger.Info("Updating Minyan readings tab...")
	if err := s.applyBaseLayout(ctx, sheetID); err != nil {
		return err
	}

	model := report.BuildMinyanReport(items)
	if len(model.Rows) == 0 {
		s.logger.Info("No weekday readings found")
		return nil
	}
	s.warnMalformed(minyanSheetTitle, model)
	return s.renderer.Render(ctx, sheetID, model)
}

func (s *ExportService) exportOccasion(ctx context.Context, g occasionGroup) error {
	s.logger.Infof("Processing %s", g.name)

	sheetID, err := s.createSheet(ctx, g.name)
	if err != nil {
		return err
	}
	if err := s.applyBaseLayout(ctx, sheetID); err != nil {
		return err
	}

	var rec *pages.Record
	if s.pages != nil {
		rec, _ = s.pages.Lookup(g.name)
	}

	model := report.BuildOccasionReport(g.representative(), rec)
	s.warnMalformed(g.name, model)
	return s.renderer.Render(ctx, sheetID, model)
}

// createSheet creates a tab, recovering from a title conflict by deleting
// the old tab and retrying creation once.
func (s *ExportService) createSheet(ctx context.Context, title string) (int64, error) {
	sheetID, err := s.sink.CreateSheet(ctx, title)
	if err == nil {
		return sheetID, nil
	}
	if !errors.Is(err, spreadsheet.ErrSheetConflict) {
		return 0, err
	}

	s.logger.Infof("Sheet %s already exists, trying to delete it first", title)
	existing, listErr := s.sink.Sheets(ctx)
	if listErr != nil {
		return 0, listErr
	}
	for _, sh := range existing {
		if sh.Title == title {
			if err := s.sink.DeleteSheet(ctx, sh.ID); err != nil {
				return 0, err
			}
			break
		}
	}
	return s.sink.CreateSheet(ctx, title)
}

// applyBaseLayout sets the template's base font and column widths on a tab.
func (s *ExportService) applyBaseLayout(ctx context.Context, sheetID int64) error {
	if err := s.sink.FormatRange(ctx, sheetID, globalFormatRange, baseCellStyle); err != nil {
		return err
	}
	return s.sink.SetColumnWidths(ctx, sheetID, report.ColumnWidths)
}

func (s *ExportService) reorderMinyanFirst(ctx context.Context, minyanID int64) error {
	existing, err := s.sink.Sheets(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 || existing[0].ID == minyanID {
		return nil
	}

	order := []int64{minyanID}
	for _, sh := range existing {
		if sh.ID != minyanID {
			order = append(order, sh.ID)
		}
	}
	return s.sink.ReorderSheets(ctx, order)
}

func (s *ExportService) warnMalformed(name string, m *report.Model) {
	if m.Malformed > 0 {
		s.logger.Warnf("%s: %d field(s) degraded to fallback text", name, m.Malformed)
	}
}

func (s *ExportService) dumpFetched(set *reading.Set) {
	if !s.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		s.logger.Debugf("Could not dump fetched document: %v", err)
		return
	}
	s.logger.Debugf("Fetched reading set:\n%s", data)
}

// occasionGroup collects the items sharing one occasion name across the date
// range, in first-appearance order.
type occasionGroup struct {
	name  string
	items []reading.Occasion
}

// representative picks the item carrying a full reading if one exists, else
// the first.
func (g occasionGroup) representative() *reading.Occasion {
	for i := range g.items {
		if len(g.items[i].FullKriyah) > 0 {
			return &g.items[i]
		}
	}
	return &g.items[0]
}

// groupOccasions groups items by English name, preserving first-appearance
// order. Special days are excluded; they appear only in the minyan report.
func groupOccasions(items []reading.Occasion) []occasionGroup {
	var groups []occasionGroup
	index := make(map[string]int)
	for _, item := range items {
		name := item.Name.En
		if reading.IsSpecialDay(name) {
			continue
		}
		if i, ok := index[name]; ok {
			groups[i].items = append(groups[i].items, item)
		} else {
			index[name] = len(groups)
			groups = append(groups, occasionGroup{name: name, items: []reading.Occasion{item}})
		}
	}
	return groups
}
