// Package command executes the structured operation descriptors
// produced by an external free-text interpreter. Each descriptor maps
// onto exactly one service mutation; the destructive kinds additionally
// require explicit confirmation.
package command

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Craig-TribeAI/org-chart-builder/internal/apperr"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
	"github.com/Craig-TribeAI/org-chart-builder/internal/orgservice"
)

// Kind identifies one descriptor operation.
type Kind string

// The fixed descriptor vocabulary. An interpreter returning anything
// else is rejected before execution.
const (
	KindAddRole           Kind = "add_role"
	KindAddRoles          Kind = "add_roles"
	KindDeleteRoles       Kind = "delete_roles"
	KindSetManager        Kind = "set_manager"
	KindBulkSetManager    Kind = "bulk_set_manager"
	KindRemoveManager     Kind = "remove_manager"
	KindBulkRemoveManager Kind = "bulk_remove_manager"
	KindSetPeriod         Kind = "set_period"
)

// RoleSpec describes one custom role to create.
type RoleSpec struct {
	RoleName     string `json:"roleName"`
	DepartmentID string `json:"departmentId"`
	ManagerID    string `json:"managerId,omitempty"`
}

// Descriptor is one structured operation. Only the fields relevant to
// its kind are read.
type Descriptor struct {
	Kind      Kind       `json:"kind"`
	Role      *RoleSpec  `json:"role,omitempty"`
	Roles     []RoleSpec `json:"roles,omitempty"`
	PersonID  string     `json:"personId,omitempty"`
	PersonIDs []string   `json:"personIds,omitempty"`
	ManagerID string     `json:"managerId,omitempty"`
	Period    string     `json:"period,omitempty"`
}

// Validate checks that the descriptor carries the fields its kind
// needs.
func (d Descriptor) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Kind, validation.Required, validation.In(
			KindAddRole, KindAddRoles, KindDeleteRoles,
			KindSetManager, KindBulkSetManager,
			KindRemoveManager, KindBulkRemoveManager,
			KindSetPeriod,
		)),
		validation.Field(&d.Role,
			validation.Required.When(d.Kind == KindAddRole)),
		validation.Field(&d.Roles,
			validation.Required.When(d.Kind == KindAddRoles)),
		validation.Field(&d.PersonID,
			validation.Required.When(d.Kind == KindSetManager || d.Kind == KindRemoveManager)),
		validation.Field(&d.PersonIDs,
			validation.Required.When(d.Kind == KindDeleteRoles ||
				d.Kind == KindBulkSetManager || d.Kind == KindBulkRemoveManager)),
		validation.Field(&d.ManagerID,
			validation.Required.When(d.Kind == KindSetManager || d.Kind == KindBulkSetManager)),
		validation.Field(&d.Period,
			validation.Required.When(d.Kind == KindSetPeriod)),
	)
}

// Destructive reports whether the descriptor's kind removes data and
// therefore needs user confirmation before executing.
func (d Descriptor) Destructive() bool {
	return d.Kind == KindDeleteRoles
}

// Result summarizes one executed descriptor for the caller's UI.
type Result struct {
	Kind      Kind     `json:"kind"`
	Message   string   `json:"message"`
	Applied   int      `json:"applied"`
	Skipped   int      `json:"skipped"`
	PersonIDs []string `json:"personIds,omitempty"`
}

// Execute validates and runs one descriptor against the service. A
// destructive descriptor without confirmed set fails with
// apperr.ErrConfirmationRequired and mutates nothing.
func Execute(ctx context.Context, svc *orgservice.Service, d Descriptor, confirmed bool) (Result, error) {
	if err := d.Validate(); err != nil {
		return Result{Kind: d.Kind}, fmt.Errorf("%v: %w", err, apperr.ErrBadFormat)
	}
	if d.Destructive() && !confirmed {
		return Result{Kind: d.Kind}, apperr.ErrConfirmationRequired
	}

	switch d.Kind {
	case KindAddRole:
		return addRoles(ctx, svc, d.Kind, []RoleSpec{*d.Role})
	case KindAddRoles:
		return addRoles(ctx, svc, d.Kind, d.Roles)
	case KindDeleteRoles:
		res := svc.DeletePersons(ctx, d.PersonIDs)
		return Result{
			Kind:    d.Kind,
			Message: fmt.Sprintf("deleted %d role(s), skipped %d", res.Applied, len(res.Skipped)),
			Applied: res.Applied,
			Skipped: len(res.Skipped),
		}, nil
	case KindSetManager:
		if err := svc.SetManager(ctx, d.PersonID, d.ManagerID); err != nil {
			return Result{Kind: d.Kind}, err
		}
		return Result{
			Kind:    d.Kind,
			Message: fmt.Sprintf("%s now reports to %s", d.PersonID, d.ManagerID),
			Applied: 1,
		}, nil
	case KindBulkSetManager:
		res, err := svc.BulkSetManager(ctx, d.PersonIDs, d.ManagerID)
		if err != nil {
			return Result{Kind: d.Kind}, err
		}
		return Result{
			Kind:    d.Kind,
			Message: fmt.Sprintf("assigned %d report(s) to %s, skipped %d", res.Applied, d.ManagerID, len(res.Skipped)),
			Applied: res.Applied,
			Skipped: len(res.Skipped),
		}, nil
	case KindRemoveManager:
		if err := svc.RemoveManager(ctx, d.PersonID); err != nil {
			return Result{Kind: d.Kind}, err
		}
		return Result{
			Kind:    d.Kind,
			Message: fmt.Sprintf("%s no longer has a manager", d.PersonID),
			Applied: 1,
		}, nil
	case KindBulkRemoveManager:
		res := svc.BulkRemoveManager(ctx, d.PersonIDs)
		return Result{
			Kind:    d.Kind,
			Message: fmt.Sprintf("cleared %d manager(s), skipped %d", res.Applied, len(res.Skipped)),
			Applied: res.Applied,
			Skipped: len(res.Skipped),
		}, nil
	case KindSetPeriod:
		p, err := models.ParsePeriod(d.Period)
		if err != nil {
			return Result{Kind: d.Kind}, fmt.Errorf("%v: %w", err, apperr.ErrBadFormat)
		}
		svc.SelectPeriod(ctx, p)
		return Result{
			Kind:    d.Kind,
			Message: fmt.Sprintf("switched to %s", p),
			Applied: 1,
		}, nil
	}
	return Result{Kind: d.Kind}, fmt.Errorf("unhandled kind %q: %w", d.Kind, apperr.ErrBadFormat)
}

// addRoles creates each spec in order, skipping entries the service
// rejects so one bad department does not abort the rest.
func addRoles(ctx context.Context, svc *orgservice.Service, kind Kind, specs []RoleSpec) (Result, error) {
	res := Result{Kind: kind}
	for _, spec := range specs {
		node, err := svc.AddCustomRole(ctx, spec.RoleName, spec.DepartmentID, spec.ManagerID)
		if err != nil {
			res.Skipped++
			continue
		}
		res.Applied++
		res.PersonIDs = append(res.PersonIDs, node.ID)
	}
	res.Message = fmt.Sprintf("added %d role(s), skipped %d", res.Applied, res.Skipped)
	return res, nil
}
