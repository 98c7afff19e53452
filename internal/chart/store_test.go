package chart

import (
	"errors"
	"testing"

	"github.com/Craig-TribeAI/org-chart-builder/internal/apperr"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

func TestSelectPeriod_RegeneratesAndReappliesManagers(t *testing.T) {
	s := testStore(t)
	mustSetManager(t, s, "design-person-0", "ops-person-0")

	s.SelectPeriod(models.Q3) // design headcount grows 1 -> 2
	var designers int
	for _, p := range s.Persons() {
		if p.TemplateID == "design" {
			designers++
		}
	}
	if designers != 2 {
		t.Fatalf("designers in Q3 = %d, want 2", designers)
	}
	if p := s.findPerson("design-person-0"); p == nil || p.ManagerID != "ops-person-0" {
		t.Errorf("manager lost across period switch: %+v", p)
	}
	if s.Period() != models.Q3 {
		t.Errorf("period = %q, want %q", s.Period(), models.Q3)
	}
}

func TestSelectPeriod_CustomNodesAlwaysPresent(t *testing.T) {
	s := testStore(t)
	c, err := s.AddCustomRole("Advisor", "dept-ops", "")
	if err != nil {
		t.Fatalf("AddCustomRole: %v", err)
	}
	for _, q := range models.PeriodOrder {
		s.SelectPeriod(q)
		if s.findPerson(c.ID) == nil {
			t.Errorf("custom node missing in %s", q)
		}
	}
}

func TestSelectPeriod_ManagerInactiveBecomesFuturePlaceholder(t *testing.T) {
	s := testStore(t)
	s.SelectPeriod(models.Q3)
	mustSetManager(t, s, "eng-person-0", "design-person-1") // design seat 2 exists only in Q3/Q4

	s.SelectPeriod(models.Q1)
	m := s.findPerson("design-person-1")
	if m == nil {
		t.Fatalf("referenced manager not materialized in Q1")
	}
	if !m.IsFutureRole {
		t.Errorf("referenced out-of-period manager should carry the future flag")
	}
	if p := s.findPerson("eng-person-0"); p.ManagerID != "design-person-1" {
		t.Errorf("assignment lost: %q", p.ManagerID)
	}
}

func TestLoadDataset_PreservesRelationsAndCustoms(t *testing.T) {
	s := testStore(t)
	mustSetManager(t, s, "eng-person-0", "ops-person-0")
	c, _ := s.AddCustomRole("Advisor", "dept-ops", "ops-person-0")
	if _, err := s.ToggleCollapse("ops-person-0"); err != nil {
		t.Fatalf("ToggleCollapse: %v", err)
	}
	if _, err := s.ToggleCollapse("design-person-0"); err != nil {
		t.Fatalf("ToggleCollapse: %v", err)
	}

	// Re-import drops the design template entirely.
	s.LoadDataset(
		[]models.Department{
			{ID: "dept-eng", DisplayName: "Engineering", Color: "#6366f1"},
			{ID: "dept-ops", DisplayName: "Operations", Color: "#f59e0b"},
		},
		[]models.RoleTemplate{
			tpl("eng", "Engineer", "dept-eng", 2, 2, 2, 2),
			tpl("ops", "Ops Manager", "dept-ops", 1, 1, 1, 1),
		},
		"plan-v2.csv",
	)

	if p := s.findPerson("eng-person-0"); p == nil || p.ManagerID != "ops-person-0" {
		t.Errorf("assignment lost across dataset reload: %+v", p)
	}
	if s.findPerson(c.ID) == nil {
		t.Errorf("custom node lost across dataset reload")
	}
	if !s.Collapsed().Has("ops-person-0") {
		t.Errorf("collapse flag for a surviving node dropped")
	}
	if s.Collapsed().Has("design-person-0") {
		t.Errorf("collapse flag for a vanished node kept")
	}
	if s.CSVFileName() != "plan-v2.csv" {
		t.Errorf("csvFileName = %q", s.CSVFileName())
	}
}

func TestToggleCollapse_FlipsState(t *testing.T) {
	s := testStore(t)
	on, err := s.ToggleCollapse("eng-person-0")
	if err != nil || !on {
		t.Fatalf("first toggle = %v, %v; want true, nil", on, err)
	}
	off, err := s.ToggleCollapse("eng-person-0")
	if err != nil || off {
		t.Fatalf("second toggle = %v, %v; want false, nil", off, err)
	}
	if _, err := s.ToggleCollapse("nobody"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}

func TestRebuild_RevisionTracksContent(t *testing.T) {
	s := testStore(t)
	mustSetManager(t, s, "eng-person-0", "ops-person-0")

	v1 := s.Rebuild()
	v2 := s.Rebuild()
	if v1.Revision == "" || v1.Revision != v2.Revision {
		t.Fatalf("revisions differ on identical content: %q vs %q", v1.Revision, v2.Revision)
	}

	mustSetManager(t, s, "eng-person-1", "ops-person-0")
	v3 := s.Rebuild()
	if v3.Revision == v1.Revision {
		t.Errorf("revision unchanged after a graph mutation")
	}
}

func TestUpdatePosition_SurvivesProjectionRefresh(t *testing.T) {
	s := testStore(t)
	s.Rebuild()

	want := models.Position{X: 999, Y: 42}
	if err := s.UpdatePosition("eng-person-0", want); err != nil {
		t.Fatalf("UpdatePosition: %v", err)
	}
	view := s.RefreshProjection()
	if got := nodeByID(t, view, "eng-person-0").Position; got != want {
		t.Errorf("position after refresh = %+v, want %+v", got, want)
	}

	// A full rebuild re-runs layout and overwrites the drag.
	view = s.Rebuild()
	if got := nodeByID(t, view, "eng-person-0").Position; got == want {
		t.Errorf("rebuild kept the dragged position %+v", got)
	}
}

func nodeByID(t *testing.T, view ChartView, id string) ChartNode {
	t.Helper()
	for _, n := range view.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %q not in view", id)
	return ChartNode{}
}

func TestUpdateDepartment(t *testing.T) {
	s := testStore(t)
	if err := s.UpdateDepartment("dept-eng", "Platform", "#0ea5e9"); err != nil {
		t.Fatalf("UpdateDepartment: %v", err)
	}
	d := s.Departments()[0]
	if d.DisplayName != "Platform" || d.Color != "#0ea5e9" {
		t.Errorf("department = %+v", d)
	}

	if err := s.UpdateDepartment("dept-eng", "", ""); err != nil {
		t.Fatalf("UpdateDepartment noop: %v", err)
	}
	if s.Departments()[0].DisplayName != "Platform" {
		t.Errorf("empty rename overwrote the name")
	}

	if err := s.UpdateDepartment("nope", "X", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown department error = %v, want ErrNotFound", err)
	}
}

func TestReassignTemplateDepartment(t *testing.T) {
	s := testStore(t)
	if err := s.ReassignTemplateDepartment("design", "dept-eng"); err != nil {
		t.Fatalf("ReassignTemplateDepartment: %v", err)
	}
	if p := s.findPerson("design-person-0"); p.DepartmentID != "dept-eng" {
		t.Errorf("expanded person departmentId = %q, want dept-eng", p.DepartmentID)
	}

	if err := s.ReassignTemplateDepartment("design", "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown department error = %v, want ErrNotFound", err)
	}
	if err := s.ReassignTemplateDepartment("nope", "dept-eng"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown template error = %v, want ErrNotFound", err)
	}
}

func TestRestore_RebuildsWorkingSetFromDocument(t *testing.T) {
	s := NewStore()
	s.Restore(
		[]models.Department{{ID: "dept-eng", DisplayName: "Engineering", Color: "#6366f1"}},
		[]models.RoleTemplate{tpl("eng", "Engineer", "dept-eng", 2, 2, 2, 2)},
		[]*models.PersonNode{{ID: "custom-abc", RoleName: "Advisor", DisplayName: "Advisor", DepartmentID: "dept-eng", IsCustom: true}},
		map[string]string{"eng-person-1": "custom-abc"},
		models.NewIDSet("eng-person-0"),
		models.Q2,
		"plan.csv",
	)

	if s.Period() != models.Q2 {
		t.Errorf("period = %q, want %q", s.Period(), models.Q2)
	}
	if p := s.findPerson("eng-person-1"); p == nil || p.ManagerID != "custom-abc" {
		t.Errorf("restored assignment missing: %+v", p)
	}
	if s.findPerson("custom-abc") == nil {
		t.Errorf("custom node not restored")
	}
	if !s.Collapsed().Has("eng-person-0") {
		t.Errorf("collapse set not restored")
	}
}
