package chart

import (
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

// Visible filters the working set down to the persons whose ancestors
// are all expanded. A collapsed person stays visible itself; collapsing
// hides only its strict descendants. The upward walk keeps a visited
// set so malformed chains terminate instead of hanging, and a person on
// a malformed chain stays visible rather than silently disappearing.
func Visible(persons []*models.PersonNode, collapsed models.IDSet) []*models.PersonNode {
	byID := make(map[string]*models.PersonNode, len(persons))
	for _, p := range persons {
		byID[p.ID] = p
	}

	out := make([]*models.PersonNode, 0, len(persons))
	for _, p := range persons {
		if !hiddenByAncestor(p, byID, collapsed) {
			out = append(out, p)
		}
	}
	return out
}

func hiddenByAncestor(p *models.PersonNode, byID map[string]*models.PersonNode, collapsed models.IDSet) bool {
	visited := models.NewIDSet()
	cur := byID[p.ManagerID]
	for cur != nil {
		if collapsed.Has(cur.ID) {
			return true
		}
		if visited.Has(cur.ID) {
			return false
		}
		visited.Add(cur.ID)
		cur = byID[cur.ManagerID]
	}
	return false
}

// Managers reports which ids manage at least one person in the given
// set. The flag is computed fresh from the manager references so it can
// never go stale against the working set.
func Managers(persons []*models.PersonNode) map[string]bool {
	out := make(map[string]bool)
	for _, p := range persons {
		if p.ManagerID != "" {
			out[p.ManagerID] = true
		}
	}
	return out
}

// DirectReports counts direct reports per manager id within the given
// set.
func DirectReports(persons []*models.PersonNode) map[string]int {
	out := make(map[string]int)
	for _, p := range persons {
		if p.ManagerID != "" {
			out[p.ManagerID]++
		}
	}
	return out
}
