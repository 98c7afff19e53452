package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a 2-D diagram coordinate in pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PersonNode is one expanded seat of a role template for the selected
// period, or a user-created custom role.
//
// Template-derived nodes are regenerated wholesale on every period switch
// or dataset change; only ManagerID survives, reapplied from the canonical
// manager-assignment map. Custom nodes live outside regeneration and are
// the only nodes that may be deleted.
type PersonNode struct {
	ID               string   `json:"id"`
	TemplateID       string   `json:"templateId,omitempty"`
	RoleName         string   `json:"roleName"`
	DisplayName      string   `json:"displayName"`
	DepartmentID     string   `json:"departmentId"`
	ManagerID        string   `json:"managerId,omitempty"`
	Position         Position `json:"position"`
	ActiveInQuarters []Period `json:"activeInQuarters,omitempty"`
	StartQuarter     Period   `json:"startQuarter,omitempty"`
	IsCustom         bool     `json:"isCustom"`
	IsFutureRole     bool     `json:"isFutureRole"`
}

const personIDInfix = "-person-"

// FormatPersonID builds the deterministic id for instance i of a template.
// The same seat keeps the same id across periods as long as the template's
// headcount covers its index in both.
func FormatPersonID(templateID string, i int) string {
	return fmt.Sprintf("%s%s%d", templateID, personIDInfix, i)
}

// ParsePersonID splits a template-derived person id back into its template
// id and instance index. It returns ok=false for custom ids and anything
// else that does not follow the "{templateId}-person-{i}" pattern.
func ParsePersonID(id string) (templateID string, index int, ok bool) {
	at := strings.LastIndex(id, personIDInfix)
	if at <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(id[at+len(personIDInfix):])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return id[:at], n, true
}
