package reading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyReadingType(t *testing.T) {
	cases := []struct {
		name string
		want Type
	}{
		{"Fast of Gedaliah", FastDay},
		{"Ta'anit Esther", FastDay},
		{"Tzom Tammuz (Fast)", FastDay},
		{"Rosh Chodesh Nisan", RoshChodesh},
		{"Shabbat Rosh Chodesh", RoshChodesh},
		{"Shabbat Chol Ha-Moed Pesach", CholHamoed},
		{"Chol Hamoed Sukkot", CholHamoed},
		{"Vayera", Regular},
		{"Bereshit", Regular},
		{"", Regular},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyReadingType(c.name), "classify %q", c.name)
	}
}

func TestClassifyReadingTypeCaseInsensitive(t *testing.T) {
	assert.Equal(t, FastDay, ClassifyReadingType("FAST OF ESTHER"))
	assert.Equal(t, RoshChodesh, ClassifyReadingType("rosh chodesh adar"))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "fast_day", FastDay.String())
	assert.Equal(t, "rosh_chodesh", RoshChodesh.String())
	assert.Equal(t, "chol_hamoed", CholHamoed.String())
	assert.Equal(t, "regular", Regular.String())
}

func TestIsSpecialDay(t *testing.T) {
	assert.True(t, IsSpecialDay("Fast of Gedaliah"))
	assert.True(t, IsSpecialDay("Rosh Chodesh Nisan"))
	assert.True(t, IsSpecialDay("Shabbat Chol Ha-Moed Pesach"))
	assert.False(t, IsSpecialDay("Vayera"))
}

func TestBelongsInWeekdayReport(t *testing.T) {
	weekday := map[string]Aliyah{"1": {Book: "Exodus", Begin: "30:11", End: "30:16"}}
	full := map[string]Aliyah{"1": {Book: "Numbers", Begin: "28:1", End: "28:5"}}

	withWeekday := &Occasion{Name: Name{En: "Vayera"}, Weekday: weekday}
	assert.True(t, BelongsInWeekdayReport(withWeekday))

	specialWithFull := &Occasion{Name: Name{En: "Rosh Chodesh Nisan"}, FullKriyah: full}
	assert.True(t, BelongsInWeekdayReport(specialWithFull))

	regularWithFull := &Occasion{Name: Name{En: "Vayera"}, FullKriyah: full}
	assert.False(t, BelongsInWeekdayReport(regularWithFull))

	empty := &Occasion{Name: Name{En: "Fast of Gedaliah"}}
	assert.False(t, BelongsInWeekdayReport(empty))
}
