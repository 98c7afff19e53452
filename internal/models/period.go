// Package models defines the domain types for the org chart builder.
package models

import "fmt"

// Period identifies one of the four planning quarters, or the aggregate
// full-year view used when no single quarter is selected.
type Period string

// The four concrete quarters plus the aggregate view.
const (
	Q1        Period = "Q1"
	Q2        Period = "Q2"
	Q3        Period = "Q3"
	Q4        Period = "Q4"
	PeriodAll Period = "all"
)

// PeriodOrder is the fixed iteration order for the concrete quarters.
// Everything that walks quarters (expansion, first-active lookup,
// serialization) uses this order so results are deterministic.
var PeriodOrder = [4]Period{Q1, Q2, Q3, Q4}

// ParsePeriod validates a raw period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Q1, Q2, Q3, Q4, PeriodAll:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Concrete reports whether p is one of the four quarters (not the
// aggregate view).
func (p Period) Concrete() bool {
	return p == Q1 || p == Q2 || p == Q3 || p == Q4
}
