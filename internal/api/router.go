package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Craig-TribeAI/org-chart-builder/internal/orgservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *orgservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Diagram and workspace state.
	r.Get("/chart", h.Chart)
	r.Get("/state", h.State)
	r.Post("/state/clear", h.ClearMessages)
	r.Put("/period", h.SelectPeriod)

	// Persons and manager assignments.
	r.Get("/persons", h.ListPersons)
	r.Post("/persons", h.AddCustomRole)
	r.Get("/persons/{id}", h.GetPerson)
	r.Delete("/persons/{id}", h.DeletePerson)
	r.Put("/persons/{id}/manager", h.SetManager)
	r.Delete("/persons/{id}/manager", h.RemoveManager)
	r.Put("/persons/{id}/position", h.UpdatePosition)
	r.Post("/persons/{id}/collapse", h.ToggleCollapse)
	r.Post("/persons/bulk/manager", h.BulkSetManager)
	r.Post("/persons/bulk/manager/remove", h.BulkRemoveManager)
	r.Post("/persons/bulk/delete", h.DeletePersons)

	// Departments and role templates.
	r.Put("/departments/{id}", h.UpdateDepartment)
	r.Put("/templates/{id}/department", h.MoveTemplate)

	// Dataset exchange.
	r.Post("/dataset", h.UploadDataset)
	r.Get("/export", h.Export)
	r.Post("/export/file", h.ExportToFile)
	r.Post("/import", h.Import)

	// Structured commands.
	r.Post("/command", h.ExecuteCommand)
	r.Get("/command/context", h.CommandContext)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
