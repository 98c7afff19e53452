package chart

import (
	"fmt"

	"github.com/Craig-TribeAI/org-chart-builder/internal/apperr"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

// Store is the owned state container for one org-chart document: the
// imported dataset, the expanded working person set, the canonical
// manager-assignment map, the collapse set, and the advisory user-facing
// messages.
//
// The store is not safe for concurrent use; the service layer serializes
// access. Mutations never rebuild implicitly: callers run the explicit
// Rebuild pipeline (visibility, layout, projection) after mutating, so
// each stage stays independently testable.
type Store struct {
	departments []models.Department
	templates   []models.RoleTemplate
	persons     []*models.PersonNode
	assignments map[string]string // canonical map: personID → managerID
	collapsed   models.IDSet
	period      models.Period
	csvFileName string

	lastError   string
	lastWarning string

	view ChartView
}

// NewStore returns an empty store with the first quarter selected.
func NewStore() *Store {
	return &Store{
		assignments: make(map[string]string),
		collapsed:   models.NewIDSet(),
		period:      models.Q1,
	}
}

// Departments returns the department list in display order.
func (s *Store) Departments() []models.Department { return s.departments }

// Templates returns the role templates in source-row order.
func (s *Store) Templates() []models.RoleTemplate { return s.templates }

// Persons returns the working person set: template-derived nodes first,
// custom nodes after.
func (s *Store) Persons() []*models.PersonNode { return s.persons }

// Period returns the selected period.
func (s *Store) Period() models.Period { return s.period }

// CSVFileName returns the name of the source dataset file, if any.
func (s *Store) CSVFileName() string { return s.csvFileName }

// Collapsed returns the live collapse set.
func (s *Store) Collapsed() models.IDSet { return s.collapsed }

// Assignments returns a copy of the canonical manager map.
func (s *Store) Assignments() map[string]string {
	out := make(map[string]string, len(s.assignments))
	for k, v := range s.assignments {
		out[k] = v
	}
	return out
}

// LastError returns the advisory error from the most recent rejected
// operation, empty when none.
func (s *Store) LastError() string { return s.lastError }

// LastWarning returns the advisory warning from the most recent partial
// operation, empty when none.
func (s *Store) LastWarning() string { return s.lastWarning }

// ClearMessages resets both advisory messages.
func (s *Store) ClearMessages() {
	s.lastError = ""
	s.lastWarning = ""
}

// SetLastError records the advisory message for a rejected operation.
func (s *Store) SetLastError(msg string) { s.lastError = msg }

// SetLastWarning records the advisory message for a partial operation.
func (s *Store) SetLastWarning(msg string) { s.lastWarning = msg }

// LoadDataset replaces the imported templates and departments and
// regenerates the working set. Relationship state and custom roles
// survive; collapse entries whose nodes no longer exist are dropped.
func (s *Store) LoadDataset(departments []models.Department, templates []models.RoleTemplate, csvFileName string) {
	s.departments = departments
	s.templates = templates
	s.csvFileName = csvFileName
	s.regenerate()
	for id := range s.collapsed {
		if s.findPerson(id) == nil {
			s.collapsed.Remove(id)
		}
	}
}

// SelectPeriod switches the active period and regenerates the working set.
func (s *Store) SelectPeriod(p models.Period) {
	s.period = p
	s.regenerate()
}

// Restore replaces the whole document state from an imported exchange
// document. personNodes from the document only contribute their custom
// entries; template-derived nodes are regenerated so derived fields are
// always consistent with the templates.
func (s *Store) Restore(departments []models.Department, templates []models.RoleTemplate,
	customs []*models.PersonNode, assignments map[string]string,
	collapsed models.IDSet, period models.Period, csvFileName string) {

	s.departments = departments
	s.templates = templates
	s.persons = nil
	s.assignments = assignments
	if s.assignments == nil {
		s.assignments = make(map[string]string)
	}
	s.collapsed = collapsed
	if s.collapsed == nil {
		s.collapsed = models.NewIDSet()
	}
	s.period = period
	s.csvFileName = csvFileName
	s.lastError = ""
	s.lastWarning = ""

	for _, c := range customs {
		s.persons = append(s.persons, c)
	}
	s.regenerate()
}

// regenerate rebuilds the template-derived part of the working set for
// the current period and reapplies the canonical manager map. Custom
// nodes are carried over untouched, and manager references that custom
// nodes already satisfy are excluded from placeholder synthesis.
func (s *Store) regenerate() {
	customs := make([]*models.PersonNode, 0)
	customIDs := models.NewIDSet()
	for _, p := range s.persons {
		if p.IsCustom {
			customs = append(customs, p)
			customIDs.Add(p.ID)
		}
	}

	refs := models.NewIDSet()
	for _, managerID := range s.assignments {
		if managerID != "" && !customIDs.Has(managerID) {
			refs.Add(managerID)
		}
	}

	persons := Expand(s.templates, s.period, refs.Sorted())
	persons = append(persons, customs...)
	for _, p := range persons {
		p.ManagerID = s.assignments[p.ID]
	}
	s.persons = persons
}

// findPerson returns the working-set node for id, or nil.
func (s *Store) findPerson(id string) *models.PersonNode {
	for _, p := range s.persons {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// personIndex builds an id → node lookup over the working set.
func (s *Store) personIndex() map[string]*models.PersonNode {
	out := make(map[string]*models.PersonNode, len(s.persons))
	for _, p := range s.persons {
		out[p.ID] = p
	}
	return out
}

// ToggleCollapse flips the collapse flag for a person id and returns the
// new state. Collapsing hides the whole descendant subtree.
func (s *Store) ToggleCollapse(id string) (bool, error) {
	if s.findPerson(id) == nil {
		return false, fmt.Errorf("person %q: %w", id, apperr.ErrNotFound)
	}
	if s.collapsed.Has(id) {
		s.collapsed.Remove(id)
		return false, nil
	}
	s.collapsed.Add(id)
	return true, nil
}

// UpdatePosition records an explicit user drag. Positions set this way
// survive until the next layout-producing rebuild.
func (s *Store) UpdatePosition(id string, pos models.Position) error {
	p := s.findPerson(id)
	if p == nil {
		return fmt.Errorf("person %q: %w", id, apperr.ErrNotFound)
	}
	p.Position = pos
	return nil
}

// UpdateDepartment renames and/or recolors a department. Empty arguments
// leave the corresponding field unchanged.
func (s *Store) UpdateDepartment(id, displayName, color string) error {
	for i := range s.departments {
		if s.departments[i].ID != id {
			continue
		}
		if displayName != "" {
			s.departments[i].DisplayName = displayName
		}
		if color != "" {
			s.departments[i].Color = color
		}
		return nil
	}
	return fmt.Errorf("department %q: %w", id, apperr.ErrNotFound)
}

// ReassignTemplateDepartment moves a role template (and therefore its
// expanded persons) to another department.
func (s *Store) ReassignTemplateDepartment(templateID, departmentID string) error {
	if !s.departmentExists(departmentID) {
		return fmt.Errorf("department %q: %w", departmentID, apperr.ErrNotFound)
	}
	for i := range s.templates {
		if s.templates[i].ID != templateID {
			continue
		}
		s.templates[i].DepartmentID = departmentID
		s.regenerate()
		return nil
	}
	return fmt.Errorf("template %q: %w", templateID, apperr.ErrNotFound)
}

func (s *Store) departmentExists(id string) bool {
	for _, d := range s.departments {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Rebuild runs the full derivation pipeline and caches the projection:
// visibility filtering, layout, then the renderable view. Layout output
// is written back to the node positions, which is the only way positions
// change outside an explicit drag.
func (s *Store) Rebuild() ChartView {
	visible := Visible(s.persons, s.collapsed)
	positions := Layout(visible, s.persons, s.departments)
	for _, p := range visible {
		if pos, ok := positions[p.ID]; ok {
			p.Position = pos
		}
	}
	s.view = Project(visible, s.persons, s.departments, s.collapsed)
	return s.view
}

// RefreshProjection re-projects the current state without re-running
// layout, preserving dragged positions.
func (s *Store) RefreshProjection() ChartView {
	visible := Visible(s.persons, s.collapsed)
	s.view = Project(visible, s.persons, s.departments, s.collapsed)
	return s.view
}

// View returns the projection from the most recent rebuild.
func (s *Store) View() ChartView { return s.view }
