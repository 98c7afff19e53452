package api

import (
	"errors"
	"net/http"

	"github.com/Craig-TribeAI/org-chart-builder/internal/apperr"
	"github.com/Craig-TribeAI/org-chart-builder/internal/command"
)

// ExecuteCommand handles POST /api/command.
//
//	@Summary		Execute one structured operation descriptor
//	@Tags			commands
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CommandRequest	true	"Descriptor to execute"
//	@Success		200		{object}	CommandResult
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	confirmationResponse
//	@Security		BearerAuth
//	@Router			/command [post]
func (h *Handler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := command.Execute(r.Context(), h.svc, req.Command, req.Confirmed)
	if err != nil {
		if errors.Is(err, apperr.ErrConfirmationRequired) {
			writeJSON(w, http.StatusConflict, confirmationResponse{
				Error:                "confirmation required",
				RequiresConfirmation: true,
				Command:              req.Command,
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CommandContext handles GET /api/command/context.
//
//	@Summary		Get the snapshot an interpreter needs to ground ids
//	@Tags			commands
//	@Produce		json
//	@Success		200	{object}	orgservice.CommandContext
//	@Security		BearerAuth
//	@Router			/command/context [get]
func (h *Handler) CommandContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CommandSnapshot(r.Context()))
}
