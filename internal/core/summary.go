package core

// CategoryTotal is one row of a per-category aggregation.
type CategoryTotal struct {
	Category   string
	TotalCents int64
	Count      int64
}

// MonthTotal is one row of the per-month aggregation, keyed by a
// YYYY-MM month token.
type MonthTotal struct {
	Month      string
	TotalCents int64
	Count      int64
}

// CategoryShare extends CategoryTotal with the category's share of the
// month total, rounded half-up to one decimal place.
type CategoryShare struct {
	CategoryTotal
	Percent float64
}

// SharePercent computes part/whole as a percentage with one decimal of
// precision using integer arithmetic only. A zero whole yields 0.
func SharePercent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	tenths := (part*1000 + whole/2) / whole
	return float64(tenths) / 10
}
