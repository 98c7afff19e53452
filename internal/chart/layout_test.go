package chart

import (
	"testing"

	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

var testDepts = []models.Department{
	{ID: "d1", DisplayName: "One", Color: "#111111", OrderIndex: 0},
	{ID: "d2", DisplayName: "Two", Color: "#222222", OrderIndex: 1},
}

func leaf(id, dept, manager, template string) *models.PersonNode {
	p := person(id, dept, manager)
	p.TemplateID = template
	return p
}

func wantPos(t *testing.T, pos map[string]models.Position, id string, x, y float64) {
	t.Helper()
	got, ok := pos[id]
	if !ok {
		t.Fatalf("no position for %q", id)
	}
	if got.X != x || got.Y != y {
		t.Errorf("%s = (%v, %v), want (%v, %v)", id, got.X, got.Y, x, y)
	}
}

func TestLayout_GridFiveAcrossFourColumns(t *testing.T) {
	var persons []*models.PersonNode
	for _, id := range []string{"p0", "p1", "p2", "p3", "p4"} {
		persons = append(persons, person(id, "d1", ""))
	}

	pos := Layout(persons, persons, testDepts)
	wantPos(t, pos, "p0", 0, 0)
	wantPos(t, pos, "p1", 240, 0)
	wantPos(t, pos, "p2", 480, 0)
	wantPos(t, pos, "p3", 720, 0)
	wantPos(t, pos, "p4", 0, 160) // wraps to row 1, column 0
}

func TestLayout_GridDepartmentBlocksStack(t *testing.T) {
	persons := []*models.PersonNode{
		person("a0", "d1", ""),
		person("a1", "d1", ""),
		person("a2", "d1", ""),
		person("a3", "d1", ""),
		person("a4", "d1", ""),
		person("b0", "d2", ""),
	}

	pos := Layout(persons, persons, testDepts)
	// d1 occupies two rows, then the block gap.
	wantPos(t, pos, "b0", 0, 2*160+80)
}

func TestLayout_GridUnknownDepartmentTrailingBlock(t *testing.T) {
	persons := []*models.PersonNode{
		person("a0", "d1", ""),
		person("x0", "", ""),
	}

	pos := Layout(persons, persons, testDepts)
	wantPos(t, pos, "a0", 0, 0)
	wantPos(t, pos, "x0", 0, 160+80)
}

func TestLayout_RoleColumnsStackSameRoleLeaves(t *testing.T) {
	persons := []*models.PersonNode{
		person("m", "d1", ""),
		leaf("e1", "d1", "m", "eng"),
		leaf("e2", "d1", "m", "eng"),
		leaf("e3", "d1", "m", "eng"),
		leaf("x1", "d1", "m", "des"),
	}

	pos := Layout(persons, persons, testDepts)
	// Two distinct roles means two columns, parent centered over 480.
	wantPos(t, pos, "m", 120, 0)
	wantPos(t, pos, "e1", 0, 160)
	wantPos(t, pos, "e2", 0, 260)
	wantPos(t, pos, "e3", 0, 360)
	wantPos(t, pos, "x1", 240, 160)
}

func TestLayout_ManagerChildOccupiesSubtreeWidth(t *testing.T) {
	persons := []*models.PersonNode{
		person("r", "d1", ""),
		leaf("l", "d1", "r", "a"),
		person("m2", "d1", "r"),
		leaf("x", "d1", "m2", "x"),
		leaf("y", "d1", "m2", "y"),
	}

	pos := Layout(persons, persons, testDepts)
	// r spans the leaf column (240) plus m2's subtree (480).
	wantPos(t, pos, "r", 240, 0)
	wantPos(t, pos, "l", 0, 160)
	wantPos(t, pos, "m2", 360, 160)
	wantPos(t, pos, "x", 240, 320)
	wantPos(t, pos, "y", 480, 320)
}

func TestLayout_RootsAdvanceLeftToRight(t *testing.T) {
	persons := []*models.PersonNode{
		person("r1", "d1", ""),
		leaf("c1", "d1", "r1", "a"),
		person("r2", "d1", ""),
		leaf("c2", "d1", "r2", "b"),
	}

	pos := Layout(persons, persons, testDepts)
	wantPos(t, pos, "r1", 0, 0)
	wantPos(t, pos, "r2", 240+80, 0)
}

func TestLayout_UnassignedRowsAboveTrees(t *testing.T) {
	persons := []*models.PersonNode{
		person("u", "d2", ""),
		person("r", "d1", ""),
		leaf("c", "d1", "r", "a"),
	}

	pos := Layout(persons, persons, testDepts)
	wantPos(t, pos, "u", 0, 0)
	wantPos(t, pos, "r", 0, 160+80)
	wantPos(t, pos, "c", 0, 160+80+160)
}

func TestLayout_CollapsedRootStaysARoot(t *testing.T) {
	all := []*models.PersonNode{
		person("r", "d1", ""),
		leaf("a", "d1", "r", "a"),
		person("u", "d1", ""),
	}
	visible := Visible(all, models.NewIDSet("r"))

	pos := Layout(visible, all, testDepts)
	// u fills the unassigned block; r anchors a tree below it even with
	// its only report hidden.
	wantPos(t, pos, "u", 0, 0)
	wantPos(t, pos, "r", 0, 160+80)
	if _, ok := pos["a"]; ok {
		t.Errorf("hidden person received a position")
	}
}

func TestLayout_TotalityIncludesMalformedChains(t *testing.T) {
	persons := []*models.PersonNode{
		person("r", "d1", ""),
		leaf("c", "d1", "r", "a"),
		person("loop1", "d1", "loop2"),
		person("loop2", "d1", "loop1"),
	}

	pos := Layout(persons, persons, testDepts)
	for _, p := range persons {
		if _, ok := pos[p.ID]; !ok {
			t.Errorf("no position for %q", p.ID)
		}
	}
}

func TestLayout_ChildlessManagerTakesOneUnit(t *testing.T) {
	persons := []*models.PersonNode{
		person("r1", "d1", ""),
		leaf("c1", "d1", "r1", "a"),
	}
	all := append([]*models.PersonNode{}, persons...)
	all = append(all, leaf("c2", "d1", "r2", "b"))
	all = append(all, person("r2", "d1", ""))

	visible := append([]*models.PersonNode{}, persons...)
	visible = append(visible, person("r2", "d1", ""))

	pos := Layout(visible, all, testDepts)
	// r2's report is not visible, so its subtree is a single unit
	// placed after r1's.
	wantPos(t, pos, "r2", 240+80, 0)
}
