package chart

import (
	"reflect"
	"testing"

	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

func tpl(id, name, dept string, q1, q2, q3, q4 int) models.RoleTemplate {
	return models.RoleTemplate{
		ID:           id,
		CleanName:    name,
		OriginalName: name,
		DepartmentID: dept,
		Quarters: map[models.Period]int{
			models.Q1: q1, models.Q2: q2, models.Q3: q3, models.Q4: q4,
		},
	}
}

func ids(persons []*models.PersonNode) []string {
	out := make([]string, len(persons))
	for i, p := range persons {
		out[i] = p.ID
	}
	return out
}

func TestExpand_InactivePeriodMaterializesOnlyReferenced(t *testing.T) {
	role5 := tpl("role-5", "Team Lead", "dept-1", 0, 2, 2, 2)

	got := Expand([]models.RoleTemplate{role5}, models.Q1, []string{"role-5-person-0"})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (%v)", len(got), ids(got))
	}
	p := got[0]
	if p.ID != "role-5-person-0" {
		t.Errorf("id = %q, want %q", p.ID, "role-5-person-0")
	}
	if !p.IsFutureRole {
		t.Errorf("expected future-role flag for a seat inactive this period")
	}
	if p.StartQuarter != models.Q2 {
		t.Errorf("startQuarter = %q, want %q", p.StartQuarter, models.Q2)
	}
}

func TestExpand_ActivePeriodClearsFutureFlag(t *testing.T) {
	role5 := tpl("role-5", "Team Lead", "dept-1", 0, 2, 2, 2)

	got := Expand([]models.RoleTemplate{role5}, models.Q3, []string{"role-5-person-0"})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(got), ids(got))
	}
	for _, p := range got {
		if p.IsFutureRole {
			t.Errorf("%s: future-role flag set in an active period", p.ID)
		}
	}
}

func TestExpand_Deterministic(t *testing.T) {
	templates := []models.RoleTemplate{
		tpl("role-1", "Engineer", "dept-1", 3, 3, 4, 4),
		tpl("role-2", "Designer", "dept-2", 0, 1, 1, 1),
	}
	refs := []string{"role-2-person-0", "ghost-person-3"}

	a := Expand(templates, models.Q1, refs)
	b := Expand(templates, models.Q1, refs)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two expansions of identical input differ:\n%v\n%v", ids(a), ids(b))
	}
}

func TestExpand_IDStableAcrossPeriods(t *testing.T) {
	templates := []models.RoleTemplate{tpl("role-1", "Engineer", "dept-1", 2, 3, 0, 0)}

	q1 := models.NewIDSet(ids(Expand(templates, models.Q1, nil))...)
	q2 := models.NewIDSet(ids(Expand(templates, models.Q2, nil))...)
	if !q1.Has("role-1-person-1") || !q2.Has("role-1-person-1") {
		t.Errorf("role-1-person-1 missing from a period where headcount covers it: q1=%v q2=%v",
			q1.Sorted(), q2.Sorted())
	}
}

func TestExpand_OrdinalDisplayNames(t *testing.T) {
	many := Expand([]models.RoleTemplate{tpl("role-1", "Engineer", "d", 3, 0, 0, 0)}, models.Q1, nil)
	wantNames := []string{"Engineer 1", "Engineer 2", "Engineer 3"}
	for i, p := range many {
		if p.DisplayName != wantNames[i] {
			t.Errorf("displayName[%d] = %q, want %q", i, p.DisplayName, wantNames[i])
		}
	}

	one := Expand([]models.RoleTemplate{tpl("role-1", "Engineer", "d", 1, 0, 0, 0)}, models.Q1, nil)
	if one[0].DisplayName != "Engineer" {
		t.Errorf("single seat displayName = %q, want no ordinal", one[0].DisplayName)
	}
}

func TestExpand_SynthesizesUnknownReference(t *testing.T) {
	got := Expand([]models.RoleTemplate{tpl("role-1", "Engineer", "d", 1, 0, 0, 0)},
		models.Q1, []string{"ghost-person-0"})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(got), ids(got))
	}
	ghost := got[1]
	if ghost.ID != "ghost-person-0" {
		t.Fatalf("synthesized id = %q", ghost.ID)
	}
	if !ghost.IsFutureRole || ghost.RoleName != "Unknown role" {
		t.Errorf("bare placeholder = %+v", ghost)
	}
}

func TestExpand_ReferenceBeyondHeadcountInheritsTemplate(t *testing.T) {
	got := Expand([]models.RoleTemplate{tpl("role-1", "Engineer", "dept-1", 1, 1, 1, 1)},
		models.Q1, []string{"role-1-person-2"})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(got), ids(got))
	}
	extra := got[1]
	if extra.ID != "role-1-person-2" || extra.TemplateID != "role-1" {
		t.Fatalf("synthesized = %+v", extra)
	}
	if extra.RoleName != "Engineer" || extra.DepartmentID != "dept-1" {
		t.Errorf("placeholder should inherit template role and department, got %+v", extra)
	}
	if !extra.IsFutureRole {
		t.Errorf("placeholder beyond headcount must be a future role")
	}
}

func TestExpand_AllPeriodUsesPeakHeadcount(t *testing.T) {
	got := Expand([]models.RoleTemplate{tpl("role-1", "Engineer", "d", 1, 4, 2, 0)}, models.PeriodAll, nil)
	if len(got) != 4 {
		t.Errorf("len = %d, want peak headcount 4", len(got))
	}
}
