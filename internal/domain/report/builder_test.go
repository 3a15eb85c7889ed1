package report

import (
	"testing"

	"leyning_exporter/internal/domain/pages"
	"leyning_exporter/internal/domain/reading"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func vayera() *reading.Occasion {
	return &reading.Occasion{
		Name:  reading.Name{En: "Vayera", He: "וירא"},
		Date:  "2023-11-04",
		HDate: "20 Cheshvan 5784",
		FullKriyah: map[string]reading.Aliyah{
			"1": {Book: "Genesis", Begin: "18:1", End: "18:14", Verses: intPtr(14)},
			"2": {Book: "Genesis", Begin: "18:15", End: "18:33", Verses: intPtr(19)},
			"3": {Book: "Genesis", Begin: "19:1", End: "19:20", Verses: intPtr(20)},
			"M": {Book: "Genesis", Begin: "22:20", End: "22:24", Verses: intPtr(5)},
		},
		Haftarah: &reading.HaftarahSet{Parts: []reading.HaftarahPart{
			{Aliyah: reading.Aliyah{Book: "II Kings", Begin: "4:1", End: "4:37", Verses: intPtr(37)}},
		}},
	}
}

func TestBuildOccasionReportHeader(t *testing.T) {
	m := BuildOccasionReport(vayera(), nil)
	require.Equal(t, 6, m.Columns)
	require.GreaterOrEqual(t, len(m.Rows), footerAnchorRow)

	title := m.Rows[0]
	assert.Equal(t, "Vayera", title.Cells[1])
	assert.Equal(t, "November 4", title.Cells[3])
	assert.Equal(t, "Cheshvan 20", title.Cells[4])

	leader := m.Rows[1]
	assert.Equal(t, "Rabbi Amanda Russell", leader.Cells[0])
	assert.Empty(t, leader.Cells[3], "no special shabbat annotation expected")

	services := m.Rows[2]
	assert.Equal(t, "Service leaders", services.Cells[0])
	assert.Equal(t, "Kabbalat Shabbat November 3", services.Cells[1])

	divider := m.Rows[13]
	assert.Equal(t, "Full kriyah - 58 verses (parsha=53)", divider.Cells[1])
	assert.Equal(t, "Reader", divider.Cells[2])
}

func TestBuildOccasionReportSpecialShabbat(t *testing.T) {
	o := vayera()
	o.Reason = &reading.Reason{Haftarah: "Shabbat Shekalim"}
	m := BuildOccasionReport(o, nil)
	assert.Equal(t, "Shabbat Shekalim", m.Rows[1].Cells[3])
}

func TestBuildOccasionReportReadings(t *testing.T) {
	m := BuildOccasionReport(vayera(), nil)

	// Readings start right after the 14-row header.
	readings := m.Rows[14:]
	assert.Equal(t, "I", readings[0].Cells[0])
	assert.Equal(t, "Genesis 18:1-14 (14)", readings[0].Cells[1])
	assert.Equal(t, "II", readings[1].Cells[0])
	assert.Equal(t, "III", readings[2].Cells[0])
	assert.Equal(t, "Maf", readings[3].Cells[0])
	assert.Equal(t, "Genesis 22:20-24 (5)", readings[3].Cells[1])
	assert.Equal(t, "Haf", readings[4].Cells[0])
	assert.Equal(t, "II Kings 4:1-37 (37)", readings[4].Cells[1])
}

func TestBuildOccasionReportAliyahColorCycle(t *testing.T) {
	m := BuildOccasionReport(vayera(), nil)

	for i, row := range m.Rows[14:18] {
		want := AliyahColors[i%len(AliyahColors)]
		var found bool
		for _, f := range row.Formats {
			if f.Style.Background != nil && *f.Style.Background == want {
				found = true
				assert.Equal(t, 0, f.StartCol)
				assert.Equal(t, 2, f.EndCol)
			}
		}
		assert.True(t, found, "row %d should carry cycle color %d", i+14, i%len(AliyahColors))
	}
}

func TestBuildOccasionReportHaftarahOverride(t *testing.T) {
	rec := &pages.Record{HaftarahVerses: "I Samuel 20:18-42 (custom)"}
	m := BuildOccasionReport(vayera(), rec)
	haf := m.Rows[18]
	assert.Equal(t, "Haf", haf.Cells[0])
	assert.Equal(t, "I Samuel 20:18-42 (custom)", haf.Cells[1])
}

func TestBuildOccasionReportMultiPartHaftarah(t *testing.T) {
	o := vayera()
	o.Haftarah = &reading.HaftarahSet{Parts: []reading.HaftarahPart{
		{Aliyah: reading.Aliyah{Book: "II Kings", Begin: "12:1", End: "12:17", Verses: intPtr(17)}},
		{Aliyah: reading.Aliyah{Book: "II Kings", Begin: "11:17", End: "11:20", Verses: intPtr(4)}},
	}}
	m := BuildOccasionReport(o, nil)
	assert.Equal(t, "II Kings 12:1-12:17, 11:17-11:20 (21)", m.Rows[18].Cells[1])
}

func TestBuildOccasionReportFooter(t *testing.T) {
	rec := &pages.Record{TorahPage: intPtr(85), HaftarahPage: intPtr(1141)}
	m := BuildOccasionReport(vayera(), rec)

	honors := m.Rows[footerAnchorRow]
	assert.Equal(t, "Honors", honors.Cells[1])
	assert.Equal(t, "Etz Hayyim", honors.Cells[3])

	pticha1 := m.Rows[footerAnchorRow+1]
	assert.Equal(t, "P'ticha 1", pticha1.Cells[0])
	assert.Equal(t, "Torah page 85", pticha1.Cells[3])

	pticha2 := m.Rows[footerAnchorRow+2]
	assert.Equal(t, "P'ticha 2", pticha2.Cells[0])
	assert.Equal(t, "Haftarah page 1141", pticha2.Cells[3])

	last := m.Rows[len(m.Rows)-1]
	assert.Equal(t, "Adon Olam", last.Cells[0])
}

func TestBuildOccasionReportFooterWithoutPages(t *testing.T) {
	m := BuildOccasionReport(vayera(), nil)
	assert.Equal(t, "Torah page", m.Rows[footerAnchorRow+1].Cells[3])
	assert.Equal(t, "Haftarah page", m.Rows[footerAnchorRow+2].Cells[3])
}

func TestBuildOccasionReportIdempotent(t *testing.T) {
	a := BuildOccasionReport(vayera(), nil)
	b := BuildOccasionReport(vayera(), nil)
	assert.Equal(t, a, b)
}

func TestBuildOccasionReportMalformedDate(t *testing.T) {
	o := vayera()
	o.Date = "not-a-date"
	m := BuildOccasionReport(o, nil)
	assert.Equal(t, "not-a-date", m.Rows[0].Cells[3])
	assert.Positive(t, m.Malformed)
}

func TestBuildOccasionReportMalformedRange(t *testing.T) {
	o := vayera()
	o.FullKriyah["2"] = reading.Aliyah{Book: "Genesis", Begin: "18", End: "18:33"}
	m := BuildOccasionReport(o, nil)
	assert.Equal(t, reading.MalformedRangeText, m.Rows[15].Cells[1])
	assert.Equal(t, 1, m.Malformed)
}
