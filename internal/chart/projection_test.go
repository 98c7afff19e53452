package chart

import (
	"testing"

	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

func edgeTargets(view ChartView) []string {
	out := make([]string, len(view.Edges))
	for i, e := range view.Edges {
		out[i] = e.Target
	}
	return out
}

func TestProject_LeafSiblingsShareOneEdge(t *testing.T) {
	persons := []*models.PersonNode{
		person("m", "d1", ""),
		leaf("e1", "d1", "m", "eng"),
		leaf("e2", "d1", "m", "eng"),
		leaf("x1", "d1", "m", "des"),
	}

	view := Project(persons, persons, testDepts, models.NewIDSet())
	if len(view.Edges) != 2 {
		t.Fatalf("edges = %v, want one per (manager, role) pair", edgeTargets(view))
	}
	if view.Edges[0].Target != "e1" || view.Edges[1].Target != "x1" {
		t.Errorf("edge targets = %v, want first sibling of each role", edgeTargets(view))
	}
	if view.Edges[0].ID != "edge-m-e1" || view.Edges[0].Source != "m" {
		t.Errorf("edge = %+v", view.Edges[0])
	}
}

func TestProject_ManagerEdgesNeverDeduped(t *testing.T) {
	persons := []*models.PersonNode{
		person("top", "d1", ""),
		leaf("m1", "d1", "top", "mgr"),
		leaf("m2", "d1", "top", "mgr"),
		leaf("a", "d1", "m1", "x"),
		leaf("b", "d1", "m2", "x"),
	}

	view := Project(persons, persons, testDepts, models.NewIDSet())
	// m1 and m2 share a template but both manage someone, so both edges
	// from top are drawn.
	var fromTop int
	for _, e := range view.Edges {
		if e.Source == "top" {
			fromTop++
		}
	}
	if fromTop != 2 {
		t.Errorf("edges from top = %d, want 2", fromTop)
	}
}

func TestProject_CrossDepartmentFlag(t *testing.T) {
	persons := []*models.PersonNode{
		person("m", "d1", ""),
		leaf("a", "d2", "m", "x"),
		leaf("b", "d1", "m", "y"),
	}

	view := Project(persons, persons, testDepts, models.NewIDSet())
	flags := map[string]bool{}
	for _, e := range view.Edges {
		flags[e.Target] = e.CrossDepartment
	}
	if !flags["a"] {
		t.Errorf("edge into another department not flagged")
	}
	if flags["b"] {
		t.Errorf("same-department edge flagged cross-department")
	}
}

func TestProject_CollapsedManagerKeepsFullCount(t *testing.T) {
	all := []*models.PersonNode{
		person("m", "d1", ""),
		leaf("a", "d1", "m", "x"),
		leaf("b", "d1", "m", "y"),
	}
	collapsed := models.NewIDSet("m")
	visible := Visible(all, collapsed)

	view := Project(visible, all, testDepts, collapsed)
	if len(view.Nodes) != 1 {
		t.Fatalf("nodes = %d, want only the collapsed manager", len(view.Nodes))
	}
	n := view.Nodes[0]
	if !n.IsCollapsed || !n.IsManager {
		t.Errorf("flags = %+v", n)
	}
	if n.DirectReportsCount != 2 {
		t.Errorf("directReportsCount = %d, want full-set count 2", n.DirectReportsCount)
	}
	if len(view.Edges) != 0 {
		t.Errorf("edges into hidden persons drawn: %v", edgeTargets(view))
	}
}

func TestProject_NodeCarriesDepartmentColor(t *testing.T) {
	persons := []*models.PersonNode{person("a", "d2", "")}
	view := Project(persons, persons, testDepts, models.NewIDSet())
	if view.Nodes[0].DepartmentColor != "#222222" {
		t.Errorf("departmentColor = %q", view.Nodes[0].DepartmentColor)
	}
}

func TestProject_RevisionTracksDrawnContent(t *testing.T) {
	persons := []*models.PersonNode{
		person("m", "d1", ""),
		leaf("a", "d1", "m", "x"),
	}
	v1 := Project(persons, persons, testDepts, models.NewIDSet())
	v2 := Project(persons, persons, testDepts, models.NewIDSet())
	if v1.Revision != v2.Revision {
		t.Fatalf("identical projections differ: %q vs %q", v1.Revision, v2.Revision)
	}

	persons[1].Position = models.Position{X: 50, Y: 60}
	v3 := Project(persons, persons, testDepts, models.NewIDSet())
	if v3.Revision == v1.Revision {
		t.Errorf("revision unchanged after a position change")
	}
}
