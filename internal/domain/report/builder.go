package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"leyning_exporter/internal/domain/pages"
	"leyning_exporter/internal/domain/reading"
	"leyning_exporter/internal/domain/spreadsheet"
)

const (
	reportColumns = 6

	// footerAnchorRow is the 1-based sheet row where the footer block starts.
	// Shorter readings are padded so the footer keeps its template position.
	footerAnchorRow = 24

	isoDateLayout = "2006-01-02"
)

// Header block constants from the congregation's template sheet.
const (
	defaultLeader      = "Rabbi Amanda Russell"
	defaultGabbai      = "Sam (default)"
	defaultHonors      = "Todd (default)"
	defaultAnnouncer   = "Jerilyn (default)"
	defaultTorahScroll = "Neuhas"
	maftirLabel        = "Maf"
	haftarahLabel      = "Haf"
	torahPagePrefix    = "Torah page"
	haftarahPagePrefix = "Haftarah page"
	musafLeaderFormula = `=if(ISNUMBER(SEARCH("Richman",$A$2)), "RDR default", "RAR default")`
	aliyotHeaderReader = "Reader"
	aliyotHeaderAliyah = "Aliyah"
	aliyotHeaderNames  = "Hebrew Name(s)"
	aliyotHeaderNotes  = "Notes"
)

// footerRoles are the ceremonial-role placeholder rows following the honors
// and page-number rows.
var footerRoles = []string{
	"Hagbah",
	"G'lilah",
	"Prayer for Country",
	"Prayer for Israel",
	"Prayer for Peace",
	"Anim Zmerot",
	"Adon Olam",
}

// BuildOccasionReport builds the per-occasion report model: header block
// (rows 1-14), aliyah rows with the Maftir appended last, an optional
// Haftarah row, and the footer block anchored at row 24. The build is pure;
// the same occasion and page record always yield the same model.
func BuildOccasionReport(o *reading.Occasion, rec *pages.Record) *Model {
	m := &Model{Columns: reportColumns}
	buildHeader(m, o)
	buildReadings(m, o, rec)
	buildFooter(m, rec)
	return m
}

func buildHeader(m *Model, o *reading.Occasion) {
	gregorian, previous, ok := displayDates(o.Date)
	if !ok {
		m.Malformed++
	}
	hebrew := headerHebrewDate(o.HDate)
	special := o.SpecialShabbat()
	total, parsha := reading.VerseTotals(o.FullKriyah)

	title := Row{Cells: [6]string{"", o.Name.En, "", gregorian, hebrew, ""}}
	title.format(0, 5, spreadsheet.CellStyle{FontSize: 24})
	m.appendRow(title)

	leader := Row{Cells: [6]string{defaultLeader, "", "", special, "", ""}}
	leader.format(0, 5, spreadsheet.CellStyle{FontSize: 14})
	m.appendRow(leader)

	services := Row{Cells: [6]string{"Service leaders", "Kabbalat Shabbat " + previous, "", "", "", ""}}
	services.format(0, 0, spreadsheet.CellStyle{Background: &ColorGray})
	m.appendRow(services)

	m.appendRow(Row{Cells: [6]string{"", "P'sukei D'zimrah", "", "", "", ""}})
	m.appendRow(Row{Cells: [6]string{"", "Shacharit", "", "", "", ""}})
	m.appendRow(Row{Cells: [6]string{"", "Musaf", musafLeaderFormula, "", "", ""}})
	m.appendRow(Row{Cells: [6]string{"", "Torah Service", "", "", "", ""}})
	m.appendRow(Row{Cells: [6]string{"", "Gabbai", defaultGabbai, "", "", ""}})
	m.appendRow(Row{Cells: [6]string{"", "Distribute honors", defaultHonors, "", "", ""}})
	m.appendRow(Row{Cells: [6]string{"", "Read announcements", defaultAnnouncer, "", "", ""}})

	hosts := Row{Cells: [6]string{"Board hosts", "", "", "", "", ""}}
	hosts.format(0, 0, spreadsheet.CellStyle{Background: &ColorGray})
	m.appendRow(hosts)

	m.blankRow()

	scroll := Row{Cells: [6]string{"Torah(s) Scroll", defaultTorahScroll, "", "", "", ""}}
	scroll.format(0, 1, spreadsheet.CellStyle{Background: &ColorOrange})
	m.appendRow(scroll)

	divider := Row{Cells: [6]string{
		"",
		fmt.Sprintf("Full kriyah - %d verses (parsha=%d)", total, parsha),
		aliyotHeaderReader,
		aliyotHeaderAliyah,
		aliyotHeaderNames,
		aliyotHeaderNotes,
	}}
	divider.format(0, 5, spreadsheet.CellStyle{Background: &ColorGray})
	m.appendRow(divider)
}

func buildReadings(m *Model, o *reading.Occasion, rec *pages.Record) {
	colorIdx := 0
	for _, key := range reading.OrderedKeys(o.FullKriyah) {
		aliyah := o.FullKriyah[key]
		text := reading.FormatVerseRange(aliyah)
		if text == reading.MalformedRangeText {
			m.Malformed++
		}
		m.appendRow(readingRow(aliyahLabel(key), text, colorIdx))
		colorIdx = (colorIdx + 1) % len(AliyahColors)
	}

	if text := haftarahText(o, rec); text != "" {
		m.appendRow(readingRow(haftarahLabel, text, colorIdx))
	}
}

// readingRow builds one aliyah-style row: highlighted A:C, centered label.
func readingRow(label, text string, colorIdx int) Row {
	row := Row{Cells: [6]string{label, text, "", "", "", ""}}
	row.format(0, 2, spreadsheet.CellStyle{Background: &AliyahColors[colorIdx]})
	row.format(0, 0, spreadsheet.CellStyle{Center: true})
	return row
}

// aliyahLabel converts an aliyah key to its display label: Roman numeral for
// ordinals, "Maf" for the Maftir, the raw key otherwise.
func aliyahLabel(key string) string {
	if key == reading.MaftirKey {
		return maftirLabel
	}
	if n, err := strconv.Atoi(key); err == nil {
		if roman, err := reading.ToRoman(n); err == nil {
			return roman
		}
	}
	return key
}

// haftarahText resolves the Haftarah display string: an explicit page-record
// override wins, then the computed single- or multi-part range, else empty.
func haftarahText(o *reading.Occasion, rec *pages.Record) string {
	if rec != nil && rec.HaftarahVerses != "" {
		return rec.HaftarahVerses
	}
	if o.Haftarah == nil || len(o.Haftarah.Parts) == 0 {
		return ""
	}
	if len(o.Haftarah.Parts) == 1 {
		return reading.FormatVerseRange(o.Haftarah.Parts[0].Aliyah)
	}
	parts := make([]reading.Aliyah, 0, len(o.Haftarah.Parts))
	for _, p := range o.Haftarah.Parts {
		parts = append(parts, p.Aliyah)
	}
	return reading.FormatMultiPartRange(parts)
}

func buildFooter(m *Model, rec *pages.Record) {
	// Keep the footer anchored at its template row when the reading section
	// is short; never truncate when it runs long.
	for len(m.Rows) < footerAnchorRow-1 {
		m.blankRow()
	}

	m.blankRow()

	honors := Row{Cells: [6]string{"", "Honors", "", "Etz Hayyim", "", ""}}
	honors.format(0, 0, spreadsheet.CellStyle{Background: &ColorGray})
	honors.format(1, 1, spreadsheet.CellStyle{Background: &ColorGray})
	honors.format(3, 3, spreadsheet.CellStyle{Background: &ColorGray})
	m.appendRow(honors)

	m.appendRow(Row{Cells: [6]string{"P'ticha 1", "", "", pageText(torahPagePrefix, recTorahPage(rec)), "", ""}})
	m.appendRow(Row{Cells: [6]string{"P'ticha 2", "", "", pageText(haftarahPagePrefix, recHaftarahPage(rec)), "", ""}})

	for _, role := range footerRoles {
		m.appendRow(Row{Cells: [6]string{role, "", "", "", "", ""}})
	}
}

func recTorahPage(rec *pages.Record) *int {
	if rec == nil {
		return nil
	}
	return rec.TorahPage
}

func recHaftarahPage(rec *pages.Record) *int {
	if rec == nil {
		return nil
	}
	return rec.HaftarahPage
}

// pageText renders "Torah page 36" when a page number is supplied, or the
// bare placeholder when it is not.
func pageText(prefix string, page *int) string {
	if page == nil {
		return prefix
	}
	return fmt.Sprintf("%s %d", prefix, *page)
}

// displayDates derives the header's Gregorian display date ("January 4") and
// the previous day's date for the Kabbalat Shabbat row. A malformed ISO date
// falls back to the raw string.
func displayDates(isoDate string) (gregorian, previous string, ok bool) {
	t, err := time.Parse(isoDateLayout, isoDate)
	if err != nil {
		return isoDate, isoDate, false
	}
	return t.Format("January 2"), t.AddDate(0, 0, -1).Format("January 2"), true
}

// headerHebrewDate reorders "26 Tevet 5784" to "Tevet 26", dropping the year.
func headerHebrewDate(hdate string) string {
	parts := strings.Fields(hdate)
	if len(parts) < 2 {
		return hdate
	}
	return parts[1] + " " + parts[0]
}
