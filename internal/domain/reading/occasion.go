package reading

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
)

// MaftirKey is the distinguished aliyah key for the Maftir reading. It never
// participates in the numeric ordering of aliyot and always renders last.
const MaftirKey = "M"

// Name holds the English and Hebrew names of a calendar item.
type Name struct {
	En string `json:"en"`
	He string `json:"he"`
}

// Aliyah is one contiguous Torah or Haftarah reading: a book plus a start and
// end reference in "chapter:verse" form. Verses is nil when the source did not
// supply a count; that is distinct from a count of zero.
type Aliyah struct {
	Book   string `json:"k"`
	Begin  string `json:"b"`
	End    string `json:"e"`
	Verses *int   `json:"v,omitempty"`
}

// HaftarahPart is an Aliyah that may carry its own special-Shabbat reason.
type HaftarahPart struct {
	Aliyah
	Reason string `json:"reason,omitempty"`
}

// HaftarahSet holds the Haftarah reading(s) of an occasion. The upstream API
// serializes this either as a single object or as a list of parts; both
// decode into Parts.
type HaftarahSet struct {
	Parts []HaftarahPart
}

func (h *HaftarahSet) UnmarshalJSON(data []byte) error {
	var one HaftarahPart
	if err := json.Unmarshal(data, &one); err == nil {
		h.Parts = []HaftarahPart{one}
		return nil
	}
	var many []HaftarahPart
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	h.Parts = many
	return nil
}

func (h *HaftarahSet) MarshalJSON() ([]byte, error) {
	if len(h.Parts) == 1 {
		return json.Marshal(h.Parts[0])
	}
	return json.Marshal(h.Parts)
}

// Reason is the optional annotation attached to an occasion. The source emits
// it either as a bare string or as an object keyed by what the reason applies
// to ("haftara" for a special-Shabbat haftarah).
type Reason struct {
	Haftarah string
	Text     string
}

func (r *Reason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Text = s
		return nil
	}
	var obj struct {
		Haftara string `json:"haftara"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Haftarah = obj.Haftara
	return nil
}

// Occasion is one named calendar event in the fetched reading set: a weekly
// portion, fast day, Rosh Chodesh, and so on. Any subset of the optional
// fields may be absent.
type Occasion struct {
	Name       Name              `json:"name"`
	Date       string            `json:"date"`
	HDate      string            `json:"hdate"`
	FullKriyah map[string]Aliyah `json:"fullkriyah,omitempty"`
	Weekday    map[string]Aliyah `json:"weekday,omitempty"`
	Haftarah   *HaftarahSet      `json:"haft,omitempty"`
	Reason     *Reason           `json:"reason,omitempty"`
}

// SpecialShabbat resolves the special-Shabbat annotation for the header.
// Precedence: the top-level reason's haftarah note, then a reason attached to
// the Haftarah data itself (first part carrying one wins).
func (o *Occasion) SpecialShabbat() string {
	if o.Reason != nil && o.Reason.Haftarah != "" {
		return o.Reason.Haftarah
	}
	if o.Haftarah != nil {
		for _, p := range o.Haftarah.Parts {
			if p.Reason != "" {
				return p.Reason
			}
		}
	}
	return ""
}

// Set is one fetched reading-set document covering a date range.
type Set struct {
	Title string     `json:"title,omitempty"`
	Items []Occasion `json:"items"`
}

// Source fetches the reading set for an inclusive ISO date range. Transport
// retries are the implementation's concern; callers see only the final error.
type Source interface {
	Fetch(ctx context.Context, startDate, endDate string) (*Set, error)
}

// OrderedKeys returns the aliyah keys of a reading mapping in display order:
// numeric keys ascending, then any non-numeric keys, with Maftir always last.
func OrderedKeys(kriyah map[string]Aliyah) []string {
	var numeric, other []string
	hasMaftir := false
	for key := range kriyah {
		switch {
		case key == MaftirKey:
			hasMaftir = true
		case isNumeric(key):
			numeric = append(numeric, key)
		default:
			other = append(other, key)
		}
	}
	sort.Slice(numeric, func(i, j int) bool {
		a, _ := strconv.Atoi(numeric[i])
		b, _ := strconv.Atoi(numeric[j])
		return a < b
	})
	sort.Strings(other)
	keys := append(numeric, other...)
	if hasMaftir {
		keys = append(keys, MaftirKey)
	}
	return keys
}

// VerseTotals sums the verse counts of a reading mapping. Maftir contributes
// to the total but never to the parsha-only count. Absent counts add nothing.
func VerseTotals(kriyah map[string]Aliyah) (total, parsha int) {
	for key, aliyah := range kriyah {
		if aliyah.Verses == nil {
			continue
		}
		total += *aliyah.Verses
		if key != MaftirKey {
			parsha += *aliyah.Verses
		}
	}
	return total, parsha
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
