package chart

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Craig-TribeAI/org-chart-builder/internal/apperr"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

// maxChainWalk bounds the upward walk in cycle detection. A reporting
// chain longer than this is treated as a cycle rather than followed
// further.
const maxChainWalk = 1000

// Skip reasons reported for entries a bulk operation refused to apply.
const (
	SkipNotFound  = "not found"
	SkipCycle     = "cycle"
	SkipSelf      = "self"
	SkipNotCustom = "not custom"
)

// Skipped identifies one entry a bulk operation left unapplied and why.
type Skipped struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult reports the outcome of a bulk mutation: how many entries
// were applied and which were skipped.
type BulkResult struct {
	Applied int       `json:"applied"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// WouldCreateCycle reports whether assigning managerID as the manager of
// personID would close a reporting loop. Self-assignment always counts
// as a cycle. The walk follows the canonical manager map upward from the
// candidate manager; revisiting a node or exceeding maxChainWalk steps
// also counts as a cycle, so a corrupted chain can never be made worse.
func (s *Store) WouldCreateCycle(personID, managerID string) bool {
	return wouldCycle(s.assignments, personID, managerID)
}

func wouldCycle(assignments map[string]string, personID, managerID string) bool {
	if personID == managerID {
		return true
	}
	visited := models.NewIDSet()
	cur := managerID
	for i := 0; i < maxChainWalk; i++ {
		if cur == personID {
			return true
		}
		if visited.Has(cur) {
			return true
		}
		visited.Add(cur)
		next := assignments[cur]
		if next == "" {
			return false
		}
		cur = next
	}
	return true
}

// SetManager records managerID as the manager of personID in the
// canonical map. Both ids must exist in the working set, and the
// assignment must not close a reporting loop.
func (s *Store) SetManager(personID, managerID string) error {
	person := s.findPerson(personID)
	if person == nil {
		return fmt.Errorf("person %q: %w", personID, apperr.ErrNotFound)
	}
	if s.findPerson(managerID) == nil {
		return fmt.Errorf("manager %q: %w", managerID, apperr.ErrNotFound)
	}
	if s.WouldCreateCycle(personID, managerID) {
		return fmt.Errorf("%s -> %s: %w", personID, managerID, apperr.ErrCycle)
	}
	s.assignments[personID] = managerID
	person.ManagerID = managerID
	return nil
}

// RemoveManager clears the manager of personID. Clearing a person that
// already has no manager is a no-op.
func (s *Store) RemoveManager(personID string) error {
	person := s.findPerson(personID)
	if person == nil {
		return fmt.Errorf("person %q: %w", personID, apperr.ErrNotFound)
	}
	delete(s.assignments, personID)
	person.ManagerID = ""
	return nil
}

// BulkSetManager assigns managerID to every listed person. Every entry
// is validated against the graph as it stood before the batch, so the
// outcome never depends on the order of the list and assignments made
// by the batch cannot justify later entries. The manager itself must
// exist or the whole batch is rejected.
func (s *Store) BulkSetManager(personIDs []string, managerID string) (BulkResult, error) {
	if s.findPerson(managerID) == nil {
		return BulkResult{}, fmt.Errorf("manager %q: %w", managerID, apperr.ErrNotFound)
	}

	before := make(map[string]string, len(s.assignments))
	for k, v := range s.assignments {
		before[k] = v
	}

	var res BulkResult
	for _, id := range personIDs {
		person := s.findPerson(id)
		switch {
		case person == nil:
			res.Skipped = append(res.Skipped, Skipped{ID: id, Reason: SkipNotFound})
		case id == managerID:
			res.Skipped = append(res.Skipped, Skipped{ID: id, Reason: SkipSelf})
		case wouldCycle(before, id, managerID):
			res.Skipped = append(res.Skipped, Skipped{ID: id, Reason: SkipCycle})
		default:
			s.assignments[id] = managerID
			person.ManagerID = managerID
			res.Applied++
		}
	}
	return res, nil
}

// BulkRemoveManager clears the manager of every listed person. Unknown
// ids are skipped; persons that already have no manager count as
// applied.
func (s *Store) BulkRemoveManager(personIDs []string) BulkResult {
	var res BulkResult
	for _, id := range personIDs {
		person := s.findPerson(id)
		if person == nil {
			res.Skipped = append(res.Skipped, Skipped{ID: id, Reason: SkipNotFound})
			continue
		}
		delete(s.assignments, id)
		person.ManagerID = ""
		res.Applied++
	}
	return res
}

// AddCustomRole creates a free-form person outside any template. Custom
// persons are active in every period and survive dataset reloads. The
// optional managerID must exist in the working set.
func (s *Store) AddCustomRole(roleName, departmentID, managerID string) (*models.PersonNode, error) {
	if !s.departmentExists(departmentID) {
		return nil, fmt.Errorf("department %q: %w", departmentID, apperr.ErrNotFound)
	}
	if managerID != "" && s.findPerson(managerID) == nil {
		return nil, fmt.Errorf("manager %q: %w", managerID, apperr.ErrNotFound)
	}

	node := &models.PersonNode{
		ID:           "custom-" + uuid.NewString(),
		RoleName:     roleName,
		DisplayName:  roleName,
		DepartmentID: departmentID,
		IsCustom:     true,
	}
	if managerID != "" {
		node.ManagerID = managerID
		s.assignments[node.ID] = managerID
	}
	s.persons = append(s.persons, node)
	return node, nil
}

// DeletePerson removes a custom person and cascades: the node leaves
// the working set and the collapse set, its own assignment entry is
// dropped, and every person that reported to it becomes a root. Reports
// are deliberately not reattached to the deleted person's manager.
// Template-derived persons cannot be deleted.
func (s *Store) DeletePerson(id string) error {
	person := s.findPerson(id)
	if person == nil {
		return fmt.Errorf("person %q: %w", id, apperr.ErrNotFound)
	}
	if !person.IsCustom {
		return fmt.Errorf("person %q: %w", id, apperr.ErrNotCustom)
	}
	s.removePersonCascade(id)
	return nil
}

// DeletePersons removes every listed custom person, validating each id
// against the state before the batch. Unknown ids and template-derived
// ids are skipped.
func (s *Store) DeletePersons(ids []string) BulkResult {
	deletable := models.NewIDSet()
	var res BulkResult
	for _, id := range ids {
		person := s.findPerson(id)
		switch {
		case person == nil:
			res.Skipped = append(res.Skipped, Skipped{ID: id, Reason: SkipNotFound})
		case !person.IsCustom:
			res.Skipped = append(res.Skipped, Skipped{ID: id, Reason: SkipNotCustom})
		default:
			deletable.Add(id)
		}
	}
	for _, id := range deletable.Sorted() {
		s.removePersonCascade(id)
		res.Applied++
	}
	return res
}

// removePersonCascade scrubs one id from the working set, the collapse
// set, and both sides of the canonical map. The map is scrubbed in full
// because it can hold entries for persons not materialized in the
// current period.
func (s *Store) removePersonCascade(id string) {
	kept := s.persons[:0]
	for _, p := range s.persons {
		if p.ID == id {
			continue
		}
		if p.ManagerID == id {
			p.ManagerID = ""
		}
		kept = append(kept, p)
	}
	s.persons = kept

	delete(s.assignments, id)
	for personID, managerID := range s.assignments {
		if managerID == id {
			delete(s.assignments, personID)
		}
	}
	s.collapsed.Remove(id)
}
