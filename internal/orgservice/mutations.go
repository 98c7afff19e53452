package orgservice

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Craig-TribeAI/org-chart-builder/internal/apperr"
	"github.com/Craig-TribeAI/org-chart-builder/internal/chart"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
	"github.com/Craig-TribeAI/org-chart-builder/internal/snapshot"
	"github.com/Craig-TribeAI/org-chart-builder/internal/tabular"
)

// Every mutation follows the same shape: take the lock, clear the
// previous advisory messages, mutate, then rebuild the derived view,
// autosave, and notify. Failed mutations record an advisory error and
// leave the graph untouched.

// ImportCSV replaces the dataset from a headcount plan. Existing
// manager assignments, custom roles, and collapse state survive.
func (s *Service) ImportCSV(_ context.Context, r io.Reader, fileName string) error {
	ds, err := tabular.Parse(r)
	if err != nil {
		s.mu.Lock()
		s.store.ClearMessages()
		s.store.SetLastError(err.Error())
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()
	s.store.LoadDataset(ds.Departments, ds.RoleTemplates, fileName)
	s.store.Rebuild()
	s.autosave()
	s.notify("dataset.loaded", map[string]string{"csvFileName": fileName})
	return nil
}

// Import replaces the whole document from exchange JSON. Rejection is
// all-or-nothing; prior state survives a malformed document.
func (s *Service) Import(_ context.Context, data []byte) error {
	doc, err := snapshot.Decode(data)
	if err != nil {
		s.mu.Lock()
		s.store.ClearMessages()
		s.store.SetLastError(err.Error())
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()
	s.store.Restore(doc.Departments, doc.RoleTemplates, doc.Customs(),
		doc.Assignments(), doc.Collapsed(), doc.SelectedQuarter, doc.CSVFileName)
	s.store.Rebuild()
	s.autosave()
	s.notify("dataset.loaded", map[string]string{"csvFileName": doc.CSVFileName})
	return nil
}

// Export renders the current document as exchange JSON.
func (s *Service) Export(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.store.Departments()) == 0 && len(s.store.Persons()) == 0 {
		return nil, apperr.ErrNoDataset
	}
	return snapshot.Encode(s.document())
}

// ExportToFile writes the exchange JSON into the workdir exports
// directory and returns the relative path. An empty name gets a
// timestamped default.
func (s *Service) ExportToFile(ctx context.Context, name string) (string, error) {
	if s.files == nil {
		return "", fmt.Errorf("file export disabled: no workdir configured")
	}
	data, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	if name == "" {
		name = "orgchart-" + time.Now().UTC().Format("20060102-150405") + ".json"
	}
	name = filepath.Base(name)
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		name += ".json"
	}
	rel := filepath.Join("exports", name)
	if err := s.files.Write(rel, data); err != nil {
		return "", err
	}
	return rel, nil
}

// SelectPeriod switches the active quarter and regenerates the chart.
func (s *Service) SelectPeriod(_ context.Context, p models.Period) chart.ChartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()
	s.store.SelectPeriod(p)
	view := s.store.Rebuild()
	s.autosave()
	s.notify("period.changed", map[string]string{"period": string(p)})
	return view
}

// AddCustomRole creates a free-form person.
func (s *Service) AddCustomRole(_ context.Context, roleName, departmentID, managerID string) (models.PersonNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	node, err := s.store.AddCustomRole(roleName, departmentID, managerID)
	if err != nil {
		s.store.SetLastError(err.Error())
		return models.PersonNode{}, err
	}
	s.store.Rebuild()
	s.autosave()
	s.notify("person.created", map[string]string{"id": node.ID})
	return *node, nil
}

// DeletePerson removes one custom person with full cascade.
func (s *Service) DeletePerson(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	if err := s.store.DeletePerson(id); err != nil {
		s.store.SetLastError(err.Error())
		return err
	}
	s.store.Rebuild()
	s.autosave()
	s.notify("person.deleted", map[string]string{"id": id})
	return nil
}

// DeletePersons removes a batch of custom persons, skipping entries
// that are unknown or template-derived.
func (s *Service) DeletePersons(_ context.Context, ids []string) chart.BulkResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	res := s.store.DeletePersons(ids)
	s.finishBulk(res, "person.deleted")
	return res
}

// SetManager assigns a manager, rejecting cycles.
func (s *Service) SetManager(_ context.Context, personID, managerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	if err := s.store.SetManager(personID, managerID); err != nil {
		s.store.SetLastError(err.Error())
		return err
	}
	s.store.Rebuild()
	s.autosave()
	s.notify("manager.changed", map[string]string{"id": personID, "managerId": managerID})
	return nil
}

// RemoveManager clears a manager assignment.
func (s *Service) RemoveManager(_ context.Context, personID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	if err := s.store.RemoveManager(personID); err != nil {
		s.store.SetLastError(err.Error())
		return err
	}
	s.store.Rebuild()
	s.autosave()
	s.notify("manager.changed", map[string]string{"id": personID})
	return nil
}

// BulkSetManager assigns one manager to many persons, skipping invalid
// entries.
func (s *Service) BulkSetManager(_ context.Context, personIDs []string, managerID string) (chart.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	res, err := s.store.BulkSetManager(personIDs, managerID)
	if err != nil {
		s.store.SetLastError(err.Error())
		return res, err
	}
	s.finishBulk(res, "manager.changed")
	return res, nil
}

// BulkRemoveManager clears managers for a batch of persons.
func (s *Service) BulkRemoveManager(_ context.Context, personIDs []string) chart.BulkResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	res := s.store.BulkRemoveManager(personIDs)
	s.finishBulk(res, "manager.changed")
	return res
}

// finishBulk handles the shared tail of batch mutations: a warning when
// entries were skipped, and rebuild/save/notify only when anything
// actually changed. Caller holds the mutex.
func (s *Service) finishBulk(res chart.BulkResult, kind string) {
	if len(res.Skipped) > 0 {
		s.store.SetLastWarning(fmt.Sprintf("%d of %d entries skipped", len(res.Skipped), res.Applied+len(res.Skipped)))
	}
	if res.Applied == 0 {
		return
	}
	s.store.Rebuild()
	s.autosave()
	s.notify(kind, map[string]int{"applied": res.Applied})
}

// ToggleCollapse flips a subtree's visibility.
func (s *Service) ToggleCollapse(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	collapsed, err := s.store.ToggleCollapse(id)
	if err != nil {
		s.store.SetLastError(err.Error())
		return false, err
	}
	s.store.Rebuild()
	s.autosave()
	s.notify("node.collapsed", map[string]interface{}{"id": id, "collapsed": collapsed})
	return collapsed, nil
}

// UpdatePosition records a drag. Only the projection refreshes; the
// dragged coordinates survive until the next layout-producing change.
func (s *Service) UpdatePosition(_ context.Context, id string, pos models.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdatePosition(id, pos); err != nil {
		return err
	}
	s.store.RefreshProjection()
	s.autosave()
	s.notify("position.changed", map[string]string{"id": id})
	return nil
}

// UpdateDepartment renames or recolors a department.
func (s *Service) UpdateDepartment(_ context.Context, id, displayName, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	if err := s.store.UpdateDepartment(id, displayName, color); err != nil {
		s.store.SetLastError(err.Error())
		return err
	}
	s.store.Rebuild()
	s.autosave()
	s.notify("department.updated", map[string]string{"id": id})
	return nil
}

// ReassignTemplateDepartment moves a role template to another
// department, taking its expanded persons along.
func (s *Service) ReassignTemplateDepartment(_ context.Context, templateID, departmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()

	if err := s.store.ReassignTemplateDepartment(templateID, departmentID); err != nil {
		s.store.SetLastError(err.Error())
		return err
	}
	s.store.Rebuild()
	s.autosave()
	s.notify("template.moved", map[string]string{"templateId": templateID, "departmentId": departmentID})
	return nil
}
