package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
	"github.com/Craig-TribeAI/org-chart-builder/internal/orgservice"
)

const maxBodyBytes = 1 << 20 // 1 MB for JSON bodies

// Handler holds API route handlers.
type Handler struct {
	svc *orgservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *orgservice.Service) *Handler {
	return &Handler{svc: svc}
}

// decodeBody parses a JSON request body into dst with a size cap.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// Chart handles GET /api/chart.
//
//	@Summary		Get the current diagram projection
//	@Tags			chart
//	@Produce		json
//	@Success		200	{object}	ChartView
//	@Header			200	{string}	ETag	"Chart revision"
//	@Success		304	"Not modified"
//	@Security		BearerAuth
//	@Router			/chart [get]
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	view := h.svc.Chart(r.Context())
	if match := strings.Trim(r.Header.Get("If-None-Match"), `"`); match != "" && match == view.Revision {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", `"`+view.Revision+`"`)
	writeJSON(w, http.StatusOK, view)
}

// State handles GET /api/state.
//
//	@Summary		Get the workspace state summary
//	@Tags			state
//	@Produce		json
//	@Success		200	{object}	StateView
//	@Security		BearerAuth
//	@Router			/state [get]
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.State(r.Context()))
}

// ClearMessages handles POST /api/state/clear.
//
//	@Summary		Dismiss the pending advisory messages
//	@Tags			state
//	@Success		204	"Messages cleared"
//	@Security		BearerAuth
//	@Router			/state/clear [post]
func (h *Handler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearMessages(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// SelectPeriod handles PUT /api/period.
//
//	@Summary		Switch the active quarter
//	@Tags			state
//	@Accept			json
//	@Produce		json
//	@Param			body	body		PeriodRequest	true	"Quarter to select"
//	@Success		200		{object}	ChartView
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/period [put]
func (h *Handler) SelectPeriod(w http.ResponseWriter, r *http.Request) {
	var req PeriodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := models.ParsePeriod(req.Period)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.SelectPeriod(r.Context(), p))
}

// ListPersons handles GET /api/persons.
//
//	@Summary		List every person in the working set
//	@Tags			persons
//	@Produce		json
//	@Success		200	{object}	PersonListResponse
//	@Security		BearerAuth
//	@Router			/persons [get]
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons := h.svc.Persons(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"persons": persons,
		"total":   len(persons),
	})
}

// GetPerson handles GET /api/persons/{id}.
//
//	@Summary		Get a single person
//	@Tags			persons
//	@Produce		json
//	@Param			id	path		string	true	"Person id"
//	@Success		200	{object}	models.PersonNode
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/{id} [get]
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	node, ok := h.svc.Person(r.Context(), id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// AddCustomRole handles POST /api/persons.
//
//	@Summary		Create a custom role
//	@Tags			persons
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AddRoleRequest	true	"Role to create"
//	@Success		201		{object}	models.PersonNode
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons [post]
func (h *Handler) AddCustomRole(w http.ResponseWriter, r *http.Request) {
	var req AddRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RoleName == "" || req.DepartmentID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("roleName and departmentId are required"))
		return
	}
	node, err := h.svc.AddCustomRole(r.Context(), req.RoleName, req.DepartmentID, req.ManagerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, node)
}

// DeletePerson handles DELETE /api/persons/{id}.
//
//	@Summary		Delete a custom role
//	@Tags			persons
//	@Param			id	path	string	true	"Person id"
//	@Success		204	"Person deleted"
//	@Failure		404	{object}	errResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/{id} [delete]
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePerson(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePersons handles POST /api/persons/bulk/delete.
//
//	@Summary		Delete several custom roles
//	@Tags			persons
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BulkPersonsRequest	true	"Person ids"
//	@Success		200		{object}	BulkResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/bulk/delete [post]
func (h *Handler) DeletePersons(w http.ResponseWriter, r *http.Request) {
	var req BulkPersonsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.PersonIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("personIds is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.DeletePersons(r.Context(), req.PersonIDs))
}

// SetManager handles PUT /api/persons/{id}/manager.
//
//	@Summary		Assign a manager
//	@Tags			persons
//	@Accept			json
//	@Param			id		path	string				true	"Person id"
//	@Param			body	body	SetManagerRequest	true	"Manager to assign"
//	@Success		204		"Manager assigned"
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/{id}/manager [put]
func (h *Handler) SetManager(w http.ResponseWriter, r *http.Request) {
	var req SetManagerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ManagerID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("managerId is required"))
		return
	}
	if err := h.svc.SetManager(r.Context(), chi.URLParam(r, "id"), req.ManagerID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveManager handles DELETE /api/persons/{id}/manager.
//
//	@Summary		Clear a person's manager
//	@Tags			persons
//	@Param			id	path	string	true	"Person id"
//	@Success		204	"Manager cleared"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/{id}/manager [delete]
func (h *Handler) RemoveManager(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveManager(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkSetManager handles POST /api/persons/bulk/manager.
//
//	@Summary		Assign one manager to several reports
//	@Tags			persons
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BulkManagerRequest	true	"Assignments"
//	@Success		200		{object}	BulkResult
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/bulk/manager [post]
func (h *Handler) BulkSetManager(w http.ResponseWriter, r *http.Request) {
	var req BulkManagerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.PersonIDs) == 0 || req.ManagerID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("personIds and managerId are required"))
		return
	}
	res, err := h.svc.BulkSetManager(r.Context(), req.PersonIDs, req.ManagerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// BulkRemoveManager handles POST /api/persons/bulk/manager/remove.
//
//	@Summary		Clear the manager of several persons
//	@Tags			persons
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BulkPersonsRequest	true	"Person ids"
//	@Success		200		{object}	BulkResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/bulk/manager/remove [post]
func (h *Handler) BulkRemoveManager(w http.ResponseWriter, r *http.Request) {
	var req BulkPersonsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.PersonIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("personIds is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.BulkRemoveManager(r.Context(), req.PersonIDs))
}

// UpdatePosition handles PUT /api/persons/{id}/position.
//
//	@Summary		Record a node drag
//	@Tags			persons
//	@Accept			json
//	@Param			id		path	string			true	"Person id"
//	@Param			body	body	PositionRequest	true	"New position"
//	@Success		204		"Position stored"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/{id}/position [put]
func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pos := models.Position{X: req.X, Y: req.Y}
	if err := h.svc.UpdatePosition(r.Context(), chi.URLParam(r, "id"), pos); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleCollapse handles POST /api/persons/{id}/collapse.
//
//	@Summary		Toggle a manager's collapse state
//	@Tags			persons
//	@Produce		json
//	@Param			id	path		string	true	"Person id"
//	@Success		200	{object}	CollapseResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/persons/{id}/collapse [post]
func (h *Handler) ToggleCollapse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	collapsed, err := h.svc.ToggleCollapse(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CollapseResponse{ID: id, Collapsed: collapsed})
}

// UpdateDepartment handles PUT /api/departments/{id}.
//
//	@Summary		Rename or recolor a department
//	@Tags			departments
//	@Accept			json
//	@Param			id		path	string					true	"Department id"
//	@Param			body	body	UpdateDepartmentRequest	true	"Fields to change"
//	@Success		204		"Department updated"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/departments/{id} [put]
func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var req UpdateDepartmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DisplayName == "" && req.Color == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("displayName or color is required"))
		return
	}
	if err := h.svc.UpdateDepartment(r.Context(), chi.URLParam(r, "id"), req.DisplayName, req.Color); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveTemplate handles PUT /api/templates/{id}/department.
//
//	@Summary		Reassign a role template to another department
//	@Tags			templates
//	@Accept			json
//	@Param			id		path	string				true	"Template id"
//	@Param			body	body	MoveTemplateRequest	true	"Target department"
//	@Success		204		"Template moved"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/templates/{id}/department [put]
func (h *Handler) MoveTemplate(w http.ResponseWriter, r *http.Request) {
	var req MoveTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DepartmentID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("departmentId is required"))
		return
	}
	if err := h.svc.ReassignTemplateDepartment(r.Context(), chi.URLParam(r, "id"), req.DepartmentID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
