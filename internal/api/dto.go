package api

import (
	"github.com/Craig-TribeAI/org-chart-builder/internal/chart"
	"github.com/Craig-TribeAI/org-chart-builder/internal/command"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
	"github.com/Craig-TribeAI/org-chart-builder/internal/orgservice"
)

// AddRoleRequest is the request body for creating a custom role.
type AddRoleRequest struct {
	RoleName     string `json:"roleName" example:"Staff Engineer" validate:"required"`
	DepartmentID string `json:"departmentId" example:"dept-1" validate:"required"`
	ManagerID    string `json:"managerId,omitempty" example:"role-2-person-0"`
}

// SetManagerRequest is the request body for assigning one manager.
type SetManagerRequest struct {
	ManagerID string `json:"managerId" example:"role-2-person-0" validate:"required"`
}

// BulkManagerRequest assigns one manager to many reports.
type BulkManagerRequest struct {
	PersonIDs []string `json:"personIds" validate:"required"`
	ManagerID string   `json:"managerId" example:"role-2-person-0" validate:"required"`
}

// BulkPersonsRequest carries the target ids of a bulk operation.
type BulkPersonsRequest struct {
	PersonIDs []string `json:"personIds" validate:"required"`
}

// PositionRequest is the request body for a node drag.
type PositionRequest struct {
	X float64 `json:"x" example:"240"`
	Y float64 `json:"y" example:"160"`
}

// PeriodRequest selects the active quarter.
type PeriodRequest struct {
	Period string `json:"period" example:"Q3" validate:"required"`
}

// UpdateDepartmentRequest renames or recolors a department. Empty
// fields keep their current value.
type UpdateDepartmentRequest struct {
	DisplayName string `json:"displayName,omitempty" example:"Platform Engineering"`
	Color       string `json:"color,omitempty" example:"#6366f1"`
}

// MoveTemplateRequest reassigns a role template to another department.
type MoveTemplateRequest struct {
	DepartmentID string `json:"departmentId" example:"dept-2" validate:"required"`
}

// ExportFileRequest names the export file. An empty name gets a
// timestamped default.
type ExportFileRequest struct {
	FileName string `json:"fileName,omitempty" example:"sprint-plan.json"`
}

// ExportFileResponse reports where the export landed.
type ExportFileResponse struct {
	Path string `json:"path" example:"exports/sprint-plan.json" validate:"required"`
}

// CommandRequest is the request body for executing one structured
// descriptor. Destructive descriptors need Confirmed set.
type CommandRequest struct {
	Command   command.Descriptor `json:"command" validate:"required"`
	Confirmed bool               `json:"confirmed,omitempty"`
}

// CollapseResponse reports the collapse state after a toggle.
type CollapseResponse struct {
	ID        string `json:"id" example:"role-2-person-0" validate:"required"`
	Collapsed bool   `json:"collapsed" validate:"required"`
}

// PersonListResponse wraps the person listing.
type PersonListResponse struct {
	Persons []models.PersonNode `json:"persons" validate:"required"`
	Total   int                 `json:"total" example:"12" validate:"required"`
}

// ChartView is the diagram projection (aliased from the domain layer).
type ChartView = chart.ChartView

// StateView is the workspace state summary (aliased from the domain layer).
type StateView = orgservice.StateView

// CommandResult is the outcome of one executed descriptor (aliased
// from the domain layer).
type CommandResult = command.Result

// BulkResult reports applied and skipped entries of a bulk mutation
// (aliased from the domain layer).
type BulkResult = chart.BulkResult

// confirmationResponse asks the client to retry a destructive command
// with confirmed set.
type confirmationResponse struct {
	Error                string             `json:"error"`
	RequiresConfirmation bool               `json:"requiresConfirmation"`
	Command              command.Descriptor `json:"command"`
}
