package chart

import (
	"encoding/json"

	"github.com/Craig-TribeAI/org-chart-builder/internal/checksum"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

// ChartNode is one renderable box. Positions come from the layout pass
// or a user drag; everything else is derived fresh at projection time.
type ChartNode struct {
	ID                 string          `json:"id"`
	Position           models.Position `json:"position"`
	DepartmentColor    string          `json:"departmentColor"`
	IsManager          bool            `json:"isManager"`
	IsCollapsed        bool            `json:"isCollapsed"`
	IsCustom           bool            `json:"isCustom"`
	IsFutureRole       bool            `json:"isFutureRole"`
	DirectReportsCount int             `json:"directReportsCount"`
	DisplayName        string          `json:"displayName"`
	RoleName           string          `json:"roleName"`
}

// ChartEdge is one drawn reporting line, source the manager and target
// the report.
type ChartEdge struct {
	ID              string `json:"id"`
	Source          string `json:"source"`
	Target          string `json:"target"`
	CrossDepartment bool   `json:"crossDepartment"`
}

// ChartView is the complete renderable state of the diagram. Revision
// changes whenever the drawn content changes, which lets clients skip
// redundant redraws and lets the HTTP layer answer conditional GETs.
type ChartView struct {
	Nodes    []ChartNode `json:"nodes"`
	Edges    []ChartEdge `json:"edges"`
	Revision string      `json:"revision"`
}

// Project turns the visible person set into the diagram contract.
// Manager flags and report counts are computed against the full set so
// a collapsed manager still reads as a manager with its full count.
//
// Leaf siblings sharing a manager and a role collapse onto a single
// visual edge, the one into the first such sibling. Edges into managers
// are always drawn.
func Project(visible []*models.PersonNode, all []*models.PersonNode, departments []models.Department, collapsed models.IDSet) ChartView {
	colors := make(map[string]string, len(departments))
	for _, d := range departments {
		colors[d.ID] = d.Color
	}
	managesAnyone := Managers(all)
	reports := DirectReports(all)

	visibleIDs := models.NewIDSet()
	for _, p := range visible {
		visibleIDs.Add(p.ID)
	}
	byID := make(map[string]*models.PersonNode, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	view := ChartView{
		Nodes: make([]ChartNode, 0, len(visible)),
		Edges: make([]ChartEdge, 0, len(visible)),
	}
	drawnLeafEdges := models.NewIDSet()

	for _, p := range visible {
		view.Nodes = append(view.Nodes, ChartNode{
			ID:                 p.ID,
			Position:           p.Position,
			DepartmentColor:    colors[p.DepartmentID],
			IsManager:          managesAnyone[p.ID],
			IsCollapsed:        collapsed.Has(p.ID),
			IsCustom:           p.IsCustom,
			IsFutureRole:       p.IsFutureRole,
			DirectReportsCount: reports[p.ID],
			DisplayName:        p.DisplayName,
			RoleName:           p.RoleName,
		})

		if p.ManagerID == "" || !visibleIDs.Has(p.ManagerID) {
			continue
		}
		if !managesAnyone[p.ID] {
			key := p.ManagerID + "\x00" + roleKey(p)
			if drawnLeafEdges.Has(key) {
				continue
			}
			drawnLeafEdges.Add(key)
		}
		manager := byID[p.ManagerID]
		view.Edges = append(view.Edges, ChartEdge{
			ID:              "edge-" + p.ManagerID + "-" + p.ID,
			Source:          p.ManagerID,
			Target:          p.ID,
			CrossDepartment: manager.DepartmentID != p.DepartmentID,
		})
	}

	view.Revision = revision(view)
	return view
}

// revision fingerprints the drawn content. Node and edge slices are
// ordered, so equal content always hashes equal.
func revision(view ChartView) string {
	payload, err := json.Marshal(struct {
		Nodes []ChartNode `json:"nodes"`
		Edges []ChartEdge `json:"edges"`
	}{view.Nodes, view.Edges})
	if err != nil {
		return ""
	}
	return checksum.Short(payload)
}
