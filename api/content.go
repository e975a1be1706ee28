package api

import (
	"io"
	"net/http"

	"github.com/garnizeh/scribe/internal/auth"
	"github.com/garnizeh/scribe/internal/content"
)

// maxJobBody caps the create-job request body.
const maxJobBody = 1 << 20

type ContentHandler struct {
	content *content.Service
	errs    *ErrorWriter
}

func NewContentHandler(svc *content.Service, errs *ErrorWriter) *ContentHandler {
	return &ContentHandler{content: svc, errs: errs}
}

func (h *ContentHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJobBody))
	if err != nil {
		h.errs.BadRequest(w, "Invalid JSON in request body", err)
		return
	}

	p, _ := auth.PrincipalFromContext(r.Context())
	job, err := h.content.Submit(r.Context(), p, body)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	writeJSON(w, job, http.StatusCreated)
}

func (h *ContentHandler) MyJobs(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	jobs, err := h.content.ListMine(r.Context(), p)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	writeJSON(w, jobs, http.StatusOK)
}
