package chart

import (
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

// Pixel geometry. A unit is the horizontal slot one node (or one
// stacked role column) occupies, node width plus spacing, so widths
// summed in units already carry their gaps.
const (
	unitWidth   = 240.0
	levelHeight = 160.0
	stackStepY  = 100.0
	blockGap    = 80.0
	gridColumns = 4
)

// Layout assigns 2-D coordinates to every visible person. The mode is a
// global switch decided on the full set: as soon as anyone has a
// manager the chart is a hierarchy; with no relationships at all it is
// a department-grouped grid. Every visible id is present in the result,
// including persons on malformed manager chains.
func Layout(visible []*models.PersonNode, all []*models.PersonNode, departments []models.Department) map[string]models.Position {
	if hasAnyManager(all) {
		return layoutHierarchy(visible, all, departments)
	}
	return layoutGrid(visible, departments)
}

func hasAnyManager(persons []*models.PersonNode) bool {
	for _, p := range persons {
		if p.ManagerID != "" {
			return true
		}
	}
	return false
}

// layoutGrid places persons department by department in display order,
// each department a block of fixed-column rows, blocks stacked
// vertically. Persons referencing an unknown department form a trailing
// block.
func layoutGrid(visible []*models.PersonNode, departments []models.Department) map[string]models.Position {
	pos := make(map[string]models.Position, len(visible))
	y := 0.0
	for _, group := range groupByDepartment(visible, departments) {
		y = placeRows(group, 0, y, pos) + blockGap
	}
	return pos
}

// placeRows lays group out in rows of gridColumns starting at (x, y)
// and returns the y just below the block.
func placeRows(group []*models.PersonNode, x, y float64, pos map[string]models.Position) float64 {
	for i, p := range group {
		row, col := i/gridColumns, i%gridColumns
		pos[p.ID] = models.Position{
			X: x + float64(col)*unitWidth,
			Y: y + float64(row)*levelHeight,
		}
	}
	rows := (len(group) + gridColumns - 1) / gridColumns
	return y + float64(rows)*levelHeight
}

// groupByDepartment splits persons into non-empty groups following
// department display order, preserving working-set order inside each
// group. A final group collects persons with an unknown department id.
func groupByDepartment(persons []*models.PersonNode, departments []models.Department) [][]*models.PersonNode {
	known := models.NewIDSet()
	var groups [][]*models.PersonNode
	for _, d := range departments {
		known.Add(d.ID)
		var group []*models.PersonNode
		for _, p := range persons {
			if p.DepartmentID == d.ID {
				group = append(group, p)
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	var orphans []*models.PersonNode
	for _, p := range persons {
		if !known.Has(p.DepartmentID) {
			orphans = append(orphans, p)
		}
	}
	if len(orphans) > 0 {
		groups = append(groups, orphans)
	}
	return groups
}

// layoutHierarchy renders unassigned individuals in department rows
// above the trees, then each true root's subtree left to right.
func layoutHierarchy(visible []*models.PersonNode, all []*models.PersonNode, departments []models.Department) map[string]models.Position {
	byID := make(map[string]*models.PersonNode, len(visible))
	for _, p := range visible {
		byID[p.ID] = p
	}
	children := make(map[string][]*models.PersonNode)
	for _, p := range visible {
		if p.ManagerID != "" && byID[p.ManagerID] != nil {
			children[p.ManagerID] = append(children[p.ManagerID], p)
		}
	}

	// True roots are unmanaged persons that manage someone anywhere in
	// the full set, so a root whose reports are all collapsed away (or
	// absent from this period) still anchors a tree instead of drifting
	// into the unassigned rows.
	managesAnyone := Managers(all)
	var roots, unassigned []*models.PersonNode
	for _, p := range visible {
		if p.ManagerID != "" && byID[p.ManagerID] != nil {
			continue
		}
		if managesAnyone[p.ID] {
			roots = append(roots, p)
		} else {
			unassigned = append(unassigned, p)
		}
	}

	pos := make(map[string]models.Position, len(visible))
	y := 0.0
	for _, group := range groupByDepartment(unassigned, departments) {
		y = placeRows(group, 0, y, pos) + blockGap
	}

	x := 0.0
	for _, r := range roots {
		w := subtreeWidth(r, children, managesAnyone)
		placeSubtree(r, x, y, w, children, managesAnyone, pos)
		x += w + blockGap
	}

	// A malformed import can strand persons on a manager loop no root
	// reaches. They get a block to the right of the trees so the
	// position map stays total.
	var stranded []*models.PersonNode
	for _, p := range visible {
		if _, ok := pos[p.ID]; !ok {
			stranded = append(stranded, p)
		}
	}
	if len(stranded) > 0 {
		placeRows(stranded, x, y, pos)
	}
	return pos
}

// roleKey buckets leaf siblings for column grouping: instances of one
// template share a column, custom leaves group by role title.
func roleKey(p *models.PersonNode) string {
	if p.TemplateID != "" {
		return p.TemplateID
	}
	return p.RoleName
}

// slot is one horizontal span under a parent: either a manager child
// with its whole subtree, or a column of same-role leaf children.
type slot struct {
	manager *models.PersonNode
	leaves  []*models.PersonNode
}

// childSlots partitions a parent's children into slots in first-seen
// order. Manager children each take their own slot; leaf children merge
// into one column per role, so a parent's width grows with distinct
// roles rather than raw headcount.
func childSlots(kids []*models.PersonNode, managesAnyone map[string]bool) []slot {
	var slots []slot
	columns := make(map[string]int)
	for _, k := range kids {
		if managesAnyone[k.ID] {
			slots = append(slots, slot{manager: k})
			continue
		}
		key := roleKey(k)
		if i, ok := columns[key]; ok {
			slots[i].leaves = append(slots[i].leaves, k)
			continue
		}
		columns[key] = len(slots)
		slots = append(slots, slot{leaves: []*models.PersonNode{k}})
	}
	return slots
}

// subtreeWidth computes the horizontal span a node needs, in pixels.
// Leaves and childless managers take one unit; a parent needs the sum
// of its slots, at least one unit so it can sit over nothing.
func subtreeWidth(p *models.PersonNode, children map[string][]*models.PersonNode, managesAnyone map[string]bool) float64 {
	kids := children[p.ID]
	if len(kids) == 0 {
		return unitWidth
	}
	total := 0.0
	for _, s := range childSlots(kids, managesAnyone) {
		if s.manager != nil {
			total += subtreeWidth(s.manager, children, managesAnyone)
		} else {
			total += unitWidth
		}
	}
	if total < unitWidth {
		return unitWidth
	}
	return total
}

// placeSubtree positions p centered over [x, x+w] and recurses into its
// slots one level down. Leaf columns stack vertically in steps smaller
// than a full level so dense same-role groups stay compact.
func placeSubtree(p *models.PersonNode, x, y, w float64, children map[string][]*models.PersonNode, managesAnyone map[string]bool, pos map[string]models.Position) {
	pos[p.ID] = models.Position{X: x + (w-unitWidth)/2, Y: y}

	cx := x
	cy := y + levelHeight
	for _, s := range childSlots(children[p.ID], managesAnyone) {
		if s.manager != nil {
			mw := subtreeWidth(s.manager, children, managesAnyone)
			placeSubtree(s.manager, cx, cy, mw, children, managesAnyone, pos)
			cx += mw
			continue
		}
		for j, leaf := range s.leaves {
			pos[leaf.ID] = models.Position{X: cx, Y: cy + float64(j)*stackStepY}
		}
		cx += unitWidth
	}
}
