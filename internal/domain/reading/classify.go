package reading

import "strings"

// Type categorizes a calendar item by the kind of Torah reading it carries.
type Type int

const (
	Regular Type = iota
	FastDay
	RoshChodesh
	CholHamoed
)

func (t Type) String() string {
	switch t {
	case FastDay:
		return "fast_day"
	case RoshChodesh:
		return "rosh_chodesh"
	case CholHamoed:
		return "chol_hamoed"
	default:
		return "regular"
	}
}

// classifyRules is the keyword table for ClassifyReadingType. Rules are
// checked in order; the first match wins.
var classifyRules = []struct {
	Keywords []string
	Type     Type
}{
	{[]string{"fast", "taanit"}, FastDay},
	{[]string{"rosh chodesh"}, RoshChodesh},
	{[]string{"chol ha-moed", "chol hamoed"}, CholHamoed},
}

// ClassifyReadingType tags a calendar item name with its reading type using
// case-insensitive substring matching.
func ClassifyReadingType(name string) Type {
	lower := strings.ToLower(name)
	for _, rule := range classifyRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Type
			}
		}
	}
	return Regular
}

// IsSpecialDay reports whether the named item is a fast day, Rosh Chodesh, or
// Chol Hamoed. Special days are pulled into the aggregate weekday report
// instead of getting their own tab.
func IsSpecialDay(name string) bool {
	return ClassifyReadingType(name) != Regular
}

// BelongsInWeekdayReport reports whether an occasion appears in the aggregate
// weekday report: any occasion with an abbreviated weekday reading, plus
// special days that carry a full reading (a fast or Rosh Chodesh falling on a
// weekday reads from the Torah without being a weekly portion).
func BelongsInWeekdayReport(o *Occasion) bool {
	if len(o.Weekday) > 0 {
		return true
	}
	return len(o.FullKriyah) > 0 && IsSpecialDay(o.Name.En)
}
