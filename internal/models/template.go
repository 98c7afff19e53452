package models

// RoleTemplate is one cleaned row of the source headcount data: a role
// title with a per-quarter headcount, owned by a department.
//
// Templates are created at import time and are immutable afterwards except
// for DepartmentID, which the user may reassign. A template only exists if
// at least one quarter has headcount > 0.
type RoleTemplate struct {
	ID           string         `json:"id"`
	CleanName    string         `json:"cleanName"`
	OriginalName string         `json:"originalName"`
	DepartmentID string         `json:"departmentId"`
	Quarters     map[Period]int `json:"quarters"`
}

// HeadcountFor returns the number of seats this template contributes in
// the given period. For the aggregate view this is the maximum count
// across all quarters, so every seat that exists at any point in the year
// is represented.
func (t RoleTemplate) HeadcountFor(period Period) int {
	if period.Concrete() {
		return t.Quarters[period]
	}
	max := 0
	for _, q := range PeriodOrder {
		if t.Quarters[q] > max {
			max = t.Quarters[q]
		}
	}
	return max
}

// FirstActivePeriod returns the earliest quarter with headcount > 0, or
// "" when the template never activates.
func (t RoleTemplate) FirstActivePeriod() Period {
	for _, q := range PeriodOrder {
		if t.Quarters[q] > 0 {
			return q
		}
	}
	return ""
}

// ActivePeriods returns the quarters with headcount > 0 in fixed order.
func (t RoleTemplate) ActivePeriods() []Period {
	var out []Period
	for _, q := range PeriodOrder {
		if t.Quarters[q] > 0 {
			out = append(out, q)
		}
	}
	return out
}
