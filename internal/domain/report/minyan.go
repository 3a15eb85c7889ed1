package report

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"leyning_exporter/internal/domain/reading"
	"leyning_exporter/internal/domain/spreadsheet"
)

const minyanColumns = 4

// minyanEntry is one weekday reading selected for the aggregate report.
type minyanEntry struct {
	occasion reading.Occasion
	readings map[string]reading.Aliyah
	kind     reading.Type
}

// BuildMinyanReport builds the aggregate weekday report: every occasion in
// the date range that carries a weekday reading, plus special full-reading
// days, in date order. Each section is a highlighted header row followed by
// its aliyah rows (Maftir excluded on weekdays) and a blank separator.
func BuildMinyanReport(items []reading.Occasion) *Model {
	m := &Model{Columns: minyanColumns}

	var entries []minyanEntry
	for _, item := range items {
		if !reading.BelongsInWeekdayReport(&item) {
			continue
		}
		readings := item.Weekday
		if len(readings) == 0 {
			readings = item.FullKriyah
		}
		entries = append(entries, minyanEntry{
			occasion: item,
			readings: readings,
			kind:     reading.ClassifyReadingType(item.Name.En),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].occasion.Date < entries[j].occasion.Date
	})

	for _, e := range entries {
		buildMinyanSection(m, e)
	}
	return m
}

func buildMinyanSection(m *Model, e minyanEntry) {
	secular, weekday, ok := minyanDates(e.occasion.Date)
	if !ok {
		m.Malformed++
	}

	header := Row{Cells: [6]string{secular, dropHebrewYear(e.occasion.HDate), e.occasion.Name.En, weekday, "", ""}}
	color := minyanHeaderColor(e.kind)
	header.format(0, minyanColumns-1, spreadsheet.CellStyle{
		Background: &color,
		Bold:       true,
		Center:     true,
	})
	m.appendRow(header)

	for _, key := range reading.OrderedKeys(e.readings) {
		if key == reading.MaftirKey {
			continue
		}
		aliyah := e.readings[key]
		text := reading.FormatVerseRange(aliyah)
		if text == reading.MalformedRangeText {
			m.Malformed++
		}
		row := Row{Cells: [6]string{minyanAliyahLabel(key), text, "", "", "", ""}}
		row.format(0, 0, spreadsheet.CellStyle{Center: true})
		m.appendRow(row)
	}

	m.blankRow()
}

// minyanHeaderColor picks the section-header highlight by reading type:
// fast days get the warning color, Rosh Chodesh and Chol Hamoed the festive
// one, everything else neutral gray.
func minyanHeaderColor(t reading.Type) spreadsheet.Color {
	switch t {
	case reading.FastDay:
		return ColorFastDay
	case reading.RoshChodesh, reading.CholHamoed:
		return ColorFestive
	default:
		return ColorGray
	}
}

func minyanAliyahLabel(key string) string {
	if n, err := strconv.Atoi(key); err == nil {
		if roman, err := reading.ToRoman(n); err == nil {
			return roman
		}
	}
	return key
}

// minyanDates derives the abbreviated display date ("Jan 04") and the weekday
// name. A malformed ISO date falls back to the raw string.
func minyanDates(isoDate string) (secular, weekday string, ok bool) {
	t, err := time.Parse(isoDateLayout, isoDate)
	if err != nil {
		return isoDate, "", false
	}
	return t.Format("Jan 02"), t.Format("Monday"), true
}

// dropHebrewYear turns "26 Tevet 5784" into "26 Tevet".
func dropHebrewYear(hdate string) string {
	parts := strings.Fields(hdate)
	if len(parts) < 2 {
		return hdate
	}
	return strings.Join(parts[:len(parts)-1], " ")
}
