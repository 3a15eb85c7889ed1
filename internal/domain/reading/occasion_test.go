package reading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccasionUnmarshalFullKriyah(t *testing.T) {
	raw := `{
		"name": {"en": "Vayera", "he": "וירא"},
		"date": "2023-11-04",
		"hdate": "20 Cheshvan 5784",
		"fullkriyah": {
			"1": {"k": "Genesis", "b": "18:1", "e": "18:14", "v": 14},
			"2": {"k": "Genesis", "b": "18:15", "e": "18:33", "v": 19},
			"M": {"k": "Genesis", "b": "22:20", "e": "22:24", "v": 5}
		},
		"haft": {"k": "II Kings", "b": "4:1", "e": "4:37", "v": 37}
	}`
	var o Occasion
	require.NoError(t, json.Unmarshal([]byte(raw), &o))

	assert.Equal(t, "Vayera", o.Name.En)
	assert.Equal(t, "20 Cheshvan 5784", o.HDate)
	require.Len(t, o.FullKriyah, 3)
	require.NotNil(t, o.FullKriyah["1"].Verses)
	assert.Equal(t, 14, *o.FullKriyah["1"].Verses)

	require.NotNil(t, o.Haftarah)
	require.Len(t, o.Haftarah.Parts, 1)
	assert.Equal(t, "II Kings", o.Haftarah.Parts[0].Book)
}

func TestHaftarahSetUnmarshalList(t *testing.T) {
	raw := `[
		{"k": "II Kings", "b": "12:1", "e": "12:17", "v": 17},
		{"k": "II Kings", "b": "11:17", "e": "11:20", "v": 4, "reason": "Shabbat Shekalim"}
	]`
	var h HaftarahSet
	require.NoError(t, json.Unmarshal([]byte(raw), &h))
	require.Len(t, h.Parts, 2)
	assert.Equal(t, "12:1", h.Parts[0].Begin)
	assert.Equal(t, "Shabbat Shekalim", h.Parts[1].Reason)
}

func TestReasonUnmarshalString(t *testing.T) {
	var r Reason
	require.NoError(t, json.Unmarshal([]byte(`"Rosh Chodesh Adar"`), &r))
	assert.Equal(t, "Rosh Chodesh Adar", r.Text)
	assert.Empty(t, r.Haftarah)
}

func TestReasonUnmarshalObject(t *testing.T) {
	var r Reason
	require.NoError(t, json.Unmarshal([]byte(`{"haftara": "Shabbat Shekalim"}`), &r))
	assert.Equal(t, "Shabbat Shekalim", r.Haftarah)
	assert.Empty(t, r.Text)
}

func TestSpecialShabbatPrecedence(t *testing.T) {
	// Top-level reason wins over a reason on the haftarah part.
	o := Occasion{
		Reason: &Reason{Haftarah: "Shabbat HaChodesh"},
		Haftarah: &HaftarahSet{Parts: []HaftarahPart{
			{Reason: "Shabbat Shekalim"},
		}},
	}
	assert.Equal(t, "Shabbat HaChodesh", o.SpecialShabbat())

	o.Reason = nil
	assert.Equal(t, "Shabbat Shekalim", o.SpecialShabbat())

	o.Haftarah = nil
	assert.Empty(t, o.SpecialShabbat())
}

func TestOrderedKeys(t *testing.T) {
	kriyah := map[string]Aliyah{
		"1": {}, "3": {}, "2": {}, "M": {},
	}
	assert.Equal(t, []string{"1", "2", "3", "M"}, OrderedKeys(kriyah))
}

func TestOrderedKeysDoubleDigit(t *testing.T) {
	kriyah := map[string]Aliyah{
		"10": {}, "2": {}, "1": {}, "M": {},
	}
	// Numeric, not lexicographic: 2 before 10.
	assert.Equal(t, []string{"1", "2", "10", "M"}, OrderedKeys(kriyah))
}

func TestOrderedKeysNoMaftir(t *testing.T) {
	kriyah := map[string]Aliyah{"2": {}, "1": {}}
	assert.Equal(t, []string{"1", "2"}, OrderedKeys(kriyah))
}

func TestVerseTotals(t *testing.T) {
	kriyah := map[string]Aliyah{
		"1": {Verses: intPtr(5)},
		"2": {Verses: intPtr(6)},
		"3": {Verses: intPtr(7)},
		"M": {Verses: intPtr(3)},
	}
	total, parsha := VerseTotals(kriyah)
	assert.Equal(t, 21, total)
	assert.Equal(t, 18, parsha)
}

func TestVerseTotalsMissingCounts(t *testing.T) {
	kriyah := map[string]Aliyah{
		"1": {Verses: intPtr(5)},
		"2": {},
		"M": {Verses: intPtr(3)},
	}
	total, parsha := VerseTotals(kriyah)
	assert.Equal(t, 8, total)
	assert.Equal(t, 5, parsha)
}
