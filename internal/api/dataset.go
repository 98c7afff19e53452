package api

import (
	"io"
	"net/http"
	"path/filepath"
)

const maxDatasetBytes = 10 << 20 // 10 MB

// UploadDataset handles POST /api/dataset (multipart/form-data, field "file").
//
//	@Summary		Import a headcount plan CSV
//	@Tags			dataset
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Headcount plan"
//	@Success		201		{object}	StateView
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dataset [post]
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDatasetBytes)

	if err := r.ParseMultipartForm(maxDatasetBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	if err := h.svc.ImportCSV(r.Context(), file, filepath.Base(header.Filename)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.svc.State(r.Context()))
}

// Export handles GET /api/export.
//
//	@Summary		Download the workspace as exchange JSON
//	@Tags			dataset
//	@Produce		json
//	@Success		200	{string}	string	"Exchange document"
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orgchart-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportToFile handles POST /api/export/file.
//
//	@Summary		Write the exchange JSON into the workdir exports directory
//	@Tags			dataset
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ExportFileRequest	true	"File name"
//	@Success		201		{object}	ExportFileResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/export/file [post]
func (h *Handler) ExportToFile(w http.ResponseWriter, r *http.Request) {
	var req ExportFileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	path, err := h.svc.ExportToFile(r.Context(), req.FileName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ExportFileResponse{Path: path})
}

// Import handles POST /api/import.
//
//	@Summary		Replace the workspace from exchange JSON
//	@Tags			dataset
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	StateView
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDatasetBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if err := h.svc.Import(r.Context(), data); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.State(r.Context()))
}
