// Package chart implements the org-chart derivation pipeline: expanding
// role templates into person nodes, maintaining the manager-assignment
// relation, computing collapse visibility, assigning 2-D layout
// coordinates, and projecting the result into renderable records.
package chart

import (
	"fmt"
	"sort"

	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

// maxPlaceholderPasses bounds the synthesis loop that resolves manager
// references with no corresponding node. References still unresolved when
// the cap is hit stay dangling and are treated as "no manager" downstream.
const maxPlaceholderPasses = 10

// Expand turns role templates into the flat person set for one period.
//
// Each template contributes HeadcountFor(period) nodes with deterministic
// ids "{templateId}-person-{i}". A template whose count is zero in the
// period still materializes the specific instances named in
// referencedManagerIDs, flagged as future roles so the chart can show a
// manager before their own seat activates. After the template pass, any
// referenced id that still has no node is synthesized as a placeholder.
//
// Identical inputs always produce an identical output slice: same ids,
// same order, same fields. Callers rely on this to reapply the canonical
// manager map after regeneration.
func Expand(templates []models.RoleTemplate, period models.Period, referencedManagerIDs []string) []*models.PersonNode {
	refs := models.NewIDSet(referencedManagerIDs...)
	refIndices := referencedInstances(templates, refs)

	byTemplateID := make(map[string]models.RoleTemplate, len(templates))
	for _, t := range templates {
		byTemplateID[t.ID] = t
	}

	var out []*models.PersonNode
	have := models.NewIDSet()

	for _, t := range templates {
		count := t.HeadcountFor(period)
		if count > 0 {
			for i := 0; i < count; i++ {
				n := instantiate(t, i, count, false)
				out = append(out, n)
				have.Add(n.ID)
			}
			continue
		}
		// Inactive this period: only instances someone reports to exist,
		// as future-role placeholders.
		for _, i := range refIndices[t.ID] {
			n := instantiate(t, i, len(refIndices[t.ID]), true)
			out = append(out, n)
			have.Add(n.ID)
		}
	}

	// Placeholder synthesis for referenced ids not covered above, e.g.
	// instance indices beyond the period's headcount. Bounded passes keep
	// a corrupt reference set from looping forever; whatever is still
	// missing after the cap stays dangling.
	pending := missingRefs(refs, have)
	for pass := 0; pass < maxPlaceholderPasses && len(pending) > 0; pass++ {
		for _, id := range pending {
			n := synthesize(id, byTemplateID)
			out = append(out, n)
			have.Add(id)
		}
		pending = missingRefs(refs, have)
	}

	return out
}

// referencedInstances maps template id → sorted instance indices that
// appear in the referenced-manager set.
func referencedInstances(templates []models.RoleTemplate, refs models.IDSet) map[string][]int {
	known := models.NewIDSet()
	for _, t := range templates {
		known.Add(t.ID)
	}
	out := make(map[string][]int)
	for id := range refs {
		tid, idx, ok := models.ParsePersonID(id)
		if !ok || !known.Has(tid) {
			continue
		}
		out[tid] = append(out[tid], idx)
	}
	for tid := range out {
		sort.Ints(out[tid])
	}
	return out
}

func missingRefs(refs, have models.IDSet) []string {
	var out []string
	for id := range refs {
		if !have.Has(id) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// instantiate builds instance i of a template. siblings is the number of
// instances the template yields this period; with more than one, display
// names get an ordinal suffix so same-titled seats stay distinguishable.
func instantiate(t models.RoleTemplate, i, siblings int, future bool) *models.PersonNode {
	name := t.CleanName
	if siblings > 1 {
		name = fmt.Sprintf("%s %d", t.CleanName, i+1)
	}
	return &models.PersonNode{
		ID:               models.FormatPersonID(t.ID, i),
		TemplateID:       t.ID,
		RoleName:         t.CleanName,
		DisplayName:      name,
		DepartmentID:     t.DepartmentID,
		ActiveInQuarters: t.ActivePeriods(),
		StartQuarter:     t.FirstActivePeriod(),
		IsFutureRole:     future,
	}
}

// synthesize builds a placeholder for a referenced id with no node. Ids
// matching a known template's pattern inherit its role and department;
// anything else becomes a bare placeholder so the edge is not dropped.
func synthesize(id string, byTemplateID map[string]models.RoleTemplate) *models.PersonNode {
	if tid, idx, ok := models.ParsePersonID(id); ok {
		if t, known := byTemplateID[tid]; known {
			name := t.CleanName
			if idx > 0 {
				name = fmt.Sprintf("%s %d", t.CleanName, idx+1)
			}
			return &models.PersonNode{
				ID:               id,
				TemplateID:       tid,
				RoleName:         t.CleanName,
				DisplayName:      name,
				DepartmentID:     t.DepartmentID,
				ActiveInQuarters: t.ActivePeriods(),
				StartQuarter:     t.FirstActivePeriod(),
				IsFutureRole:     true,
			}
		}
	}
	return &models.PersonNode{
		ID:           id,
		RoleName:     "Unknown role",
		DisplayName:  "Unknown role",
		IsFutureRole: true,
	}
}
