package pages

// Record supplies pre-printed chumash page numbers and an optional
// pre-formatted Haftarah verse string for one occasion. Nil pointers and the
// empty string mean "not supplied; use the computed default" - never zero.
type Record struct {
	TorahPage      *int
	HaftarahPage   *int
	HaftarahVerses string
}

// Repository looks up page-number records by occasion name.
type Repository interface {
	Lookup(occasionName string) (*Record, bool)
}
