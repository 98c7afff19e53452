// Package orgservice coordinates the chart store, workspace persistence,
// and change notification behind one serialized facade. Every public
// method takes the service mutex, so the chart package itself never
// needs synchronization.
package orgservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Craig-TribeAI/org-chart-builder/internal/chart"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
	"github.com/Craig-TribeAI/org-chart-builder/internal/snapshot"
	"github.com/Craig-TribeAI/org-chart-builder/internal/storage"
	"github.com/Craig-TribeAI/org-chart-builder/internal/workspace"
)

// Notifier receives change events for connected clients. The SSE broker
// satisfies this.
type Notifier interface {
	PublishChange(kind string, data interface{})
}

// Service owns the chart store and serializes all access to it.
type Service struct {
	mu       sync.Mutex
	store    *chart.Store
	ws       workspace.Workspace
	files    storage.Provider
	notifier Notifier
	logger   *slog.Logger

	wsReset bool
}

// NewService wires the store to its collaborators. The workspace,
// file provider, and notifier may each be nil, which disables autosave,
// file export, or event publishing respectively.
func NewService(ws workspace.Workspace, files storage.Provider, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    chart.NewStore(),
		ws:       ws,
		files:    files,
		notifier: notifier,
		logger:   logger,
	}
}

// LoadWorkspace restores the last saved document, if any. A document
// that no longer decodes is discarded with a warning rather than
// blocking startup; the user still holds the source CSV and exports.
func (s *Service) LoadWorkspace(_ context.Context) error {
	if s.ws == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wsReset = s.ws.WasReset()

	data, err := s.ws.Load()
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	doc, err := snapshot.Decode(data)
	if err != nil {
		s.logger.Warn("discarding undecodable workspace document", "error", err)
		s.wsReset = true
		return nil
	}
	s.store.Restore(doc.Departments, doc.RoleTemplates, doc.Customs(),
		doc.Assignments(), doc.Collapsed(), doc.SelectedQuarter, doc.CSVFileName)
	s.store.Rebuild()
	return nil
}

// autosave persists the current document. Called with the mutex held
// after a successful mutation; failures are logged, not returned, since
// the in-memory mutation already succeeded.
func (s *Service) autosave() {
	if s.ws == nil {
		return
	}
	data, err := snapshot.Encode(s.document())
	if err != nil {
		s.logger.Error("encode workspace document", "error", err)
		return
	}
	if err := s.ws.Save(data); err != nil {
		s.logger.Error("save workspace document", "error", err)
	}
}

// document assembles the exchange document from store state. Caller
// holds the mutex.
func (s *Service) document() *snapshot.Document {
	return snapshot.New(
		s.store.Departments(),
		s.store.Templates(),
		s.store.Persons(),
		s.store.Collapsed(),
		s.store.Period(),
		s.store.CSVFileName(),
	)
}

// notify publishes a change event when a notifier is attached. Caller
// holds the mutex; the broker hands off to its own goroutine.
func (s *Service) notify(kind string, data interface{}) {
	if s.notifier != nil {
		s.notifier.PublishChange(kind, data)
	}
}

// StateView is the non-diagram half of the client contract: the
// dataset, selection, and advisory messages.
type StateView struct {
	Period         models.Period         `json:"period"`
	CSVFileName    string                `json:"csvFileName"`
	Departments    []models.Department   `json:"departments"`
	RoleTemplates  []models.RoleTemplate `json:"roleTemplates"`
	PersonCount    int                   `json:"personCount"`
	CollapsedNodes []string              `json:"collapsedNodes"`
	Revision       string                `json:"revision"`
	LastError      string                `json:"lastError,omitempty"`
	LastWarning    string                `json:"lastWarning,omitempty"`
	WorkspaceReset bool                  `json:"workspaceReset,omitempty"`
}

// State returns a copy of the current non-diagram state.
func (s *Service) State(_ context.Context) StateView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StateView{
		Period:         s.store.Period(),
		CSVFileName:    s.store.CSVFileName(),
		Departments:    append([]models.Department(nil), s.store.Departments()...),
		RoleTemplates:  append([]models.RoleTemplate(nil), s.store.Templates()...),
		PersonCount:    len(s.store.Persons()),
		CollapsedNodes: s.store.Collapsed().Sorted(),
		Revision:       s.store.View().Revision,
		LastError:      s.store.LastError(),
		LastWarning:    s.store.LastWarning(),
		WorkspaceReset: s.wsReset,
	}
}

// Chart returns the current projection.
func (s *Service) Chart(_ context.Context) chart.ChartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.View()
}

// Persons returns a value copy of the working set.
func (s *Service) Persons(_ context.Context) []models.PersonNode {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PersonNode, len(s.store.Persons()))
	for i, p := range s.store.Persons() {
		out[i] = *p
	}
	return out
}

// Person returns one person by id.
func (s *Service) Person(_ context.Context, id string) (models.PersonNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.store.Persons() {
		if p.ID == id {
			return *p, true
		}
	}
	return models.PersonNode{}, false
}

// ClearMessages drops the advisory error and warning.
func (s *Service) ClearMessages(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearMessages()
}

// PersonSummary is the compact person record handed to the command
// interpreter so it can resolve names to ids.
type PersonSummary struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	RoleName     string `json:"roleName"`
	DepartmentID string `json:"departmentId"`
	ManagerID    string `json:"managerId,omitempty"`
	IsCustom     bool   `json:"isCustom"`
	IsManager    bool   `json:"isManager"`
}

// CommandContext is the serialized snapshot sent to the free-text
// command interpreter.
type CommandContext struct {
	Period      models.Period       `json:"period"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Departments []models.Department `json:"departments"`
	Persons     []PersonSummary     `json:"persons"`
}

// CommandSnapshot builds the interpreter context from current state.
func (s *Service) CommandSnapshot(_ context.Context) CommandContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	persons := s.store.Persons()
	managers := chart.Managers(persons)
	out := CommandContext{
		Period:      s.store.Period(),
		GeneratedAt: time.Now().UTC(),
		Departments: append([]models.Department(nil), s.store.Departments()...),
		Persons:     make([]PersonSummary, 0, len(persons)),
	}
	for _, p := range persons {
		out.Persons = append(out.Persons, PersonSummary{
			ID:           p.ID,
			DisplayName:  p.DisplayName,
			RoleName:     p.RoleName,
			DepartmentID: p.DepartmentID,
			ManagerID:    p.ManagerID,
			IsCustom:     p.IsCustom,
			IsManager:    managers[p.ID],
		})
	}
	return out
}
