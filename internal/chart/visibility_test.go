package chart

import (
	"testing"

	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

func person(id, dept, manager string) *models.PersonNode {
	return &models.PersonNode{
		ID:           id,
		RoleName:     id,
		DisplayName:  id,
		DepartmentID: dept,
		ManagerID:    manager,
	}
}

// chain: root <- mid <- leaf, plus a floater with no manager.
func chainPersons() []*models.PersonNode {
	return []*models.PersonNode{
		person("root", "d1", ""),
		person("mid", "d1", "root"),
		person("leaf", "d1", "mid"),
		person("floater", "d2", ""),
	}
}

func visibleIDs(persons []*models.PersonNode, collapsed models.IDSet) models.IDSet {
	out := models.NewIDSet()
	for _, p := range Visible(persons, collapsed) {
		out.Add(p.ID)
	}
	return out
}

func TestVisible_NoCollapseShowsAll(t *testing.T) {
	got := visibleIDs(chainPersons(), models.NewIDSet())
	if len(got) != 4 {
		t.Errorf("visible = %v, want all 4", got.Sorted())
	}
}

func TestVisible_CollapseHidesStrictDescendantsOnly(t *testing.T) {
	got := visibleIDs(chainPersons(), models.NewIDSet("root"))
	if !got.Has("root") {
		t.Errorf("collapsed node itself must stay visible")
	}
	if got.Has("mid") || got.Has("leaf") {
		t.Errorf("descendants of a collapsed node leaked: %v", got.Sorted())
	}
	if !got.Has("floater") {
		t.Errorf("unrelated person hidden")
	}

	got = visibleIDs(chainPersons(), models.NewIDSet("mid"))
	if !got.Has("root") || !got.Has("mid") || got.Has("leaf") {
		t.Errorf("collapsing mid: visible = %v, want root+mid+floater", got.Sorted())
	}
}

func TestVisible_Monotonicity(t *testing.T) {
	persons := chainPersons()
	base := visibleIDs(persons, models.NewIDSet("mid"))
	more := visibleIDs(persons, models.NewIDSet("mid", "root"))
	for id := range more {
		if !base.Has(id) {
			t.Errorf("collapsing an extra node made %q visible", id)
		}
	}
	if len(more) > len(base) {
		t.Errorf("visible set grew: %d -> %d", len(base), len(more))
	}
}

func TestVisible_ManagerOfVisibleIsVisible(t *testing.T) {
	persons := chainPersons()
	for _, collapsed := range []models.IDSet{
		models.NewIDSet(),
		models.NewIDSet("root"),
		models.NewIDSet("mid"),
		models.NewIDSet("root", "mid"),
	} {
		got := visibleIDs(persons, collapsed)
		for _, p := range persons {
			if got.Has(p.ID) && p.ManagerID != "" && !got.Has(p.ManagerID) {
				t.Errorf("collapsed=%v: %q visible but its manager %q is not",
					collapsed.Sorted(), p.ID, p.ManagerID)
			}
		}
	}
}

func TestVisible_DanglingManagerTreatedAsRoot(t *testing.T) {
	persons := []*models.PersonNode{person("a", "d1", "ghost")}
	got := visibleIDs(persons, models.NewIDSet("ghost"))
	if !got.Has("a") {
		t.Errorf("person with a dangling manager reference was hidden")
	}
}

func TestVisible_CorruptChainTerminates(t *testing.T) {
	persons := []*models.PersonNode{
		person("a", "d1", "b"),
		person("b", "d1", "a"),
	}
	got := visibleIDs(persons, models.NewIDSet())
	if !got.Has("a") || !got.Has("b") {
		t.Errorf("persons on a malformed loop should stay visible: %v", got.Sorted())
	}
}

func TestManagersAndDirectReports(t *testing.T) {
	persons := chainPersons()
	m := Managers(persons)
	if !m["root"] || !m["mid"] || m["leaf"] || m["floater"] {
		t.Errorf("managers = %v", m)
	}
	r := DirectReports(persons)
	if r["root"] != 1 || r["mid"] != 1 || r["leaf"] != 0 {
		t.Errorf("directReports = %v", r)
	}
}
