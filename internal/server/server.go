// Package server exposes the pipeline over HTTP for the browser
// dashboard. It speaks JSON and xlsx bytes only; rendering belongs to
// the front end.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vendapainel/vendapainel/internal/aggregate"
	"github.com/vendapainel/vendapainel/internal/dataset"
	"github.com/vendapainel/vendapainel/internal/decode"
	"github.com/vendapainel/vendapainel/internal/export"
	"github.com/vendapainel/vendapainel/internal/pipeline"
	"github.com/vendapainel/vendapainel/internal/report"
	"github.com/vendapainel/vendapainel/internal/schema"
)

// Server binds the HTTP surface to one pipeline (one logical session).
type Server struct {
	pipe      *pipeline.Pipeline
	maxUpload int64
}

// New creates a Server. maxUpload limits the accepted payload in bytes.
func New(pipe *pipeline.Pipeline, maxUpload int64) *Server {
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	return &Server{pipe: pipe, maxUpload: maxUpload}
}

// Routes assembles the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/upload", s.handleUpload)
	r.Get("/api/status", s.handleStatus)
	r.Route("/api/{view}", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Get("/view", s.handleView)
		r.Get("/export", s.handleExport)
	})
	return r
}

type uploadResponse struct {
	Message      string `json:"message"`
	Filename     string `json:"filename"`
	HasCustomers bool   `json:"hasCustomers"`
	HasFranchise bool   `json:"hasFranchise"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}

	snap, err := s.pipe.Ingest(data, header.Filename)
	if err != nil {
		writeError(w, ingestStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Message:      fmt.Sprintf("Arquivo %q carregado com sucesso.", header.Filename),
		Filename:     header.Filename,
		HasCustomers: snap.HasCustomers(),
		HasFranchise: snap.HasFranchise(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.pipe.Store().Current()
	if snap == nil {
		writeJSON(w, http.StatusOK, map[string]any{"loaded": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"loaded":       true,
		"id":           snap.ID,
		"filename":     snap.Filename,
		"uploadedAt":   snap.UploadedAt,
		"hasCustomers": snap.HasCustomers(),
		"hasFranchise": snap.HasFranchise(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	kind, ok := viewKind(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	opts, err := s.pipe.FacetOptions(kind)
	if err != nil {
		writeError(w, viewStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	kind, ok := viewKind(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	filters := filtersFromQuery(r)
	var (
		payload any
		err     error
	)
	switch kind {
	case report.KindCustomer:
		payload, err = s.pipe.CustomerView(filters)
	case report.KindFranchise:
		payload, err = s.pipe.FranchiseView(filters)
	}
	if err != nil {
		writeError(w, viewStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, ok := viewKind(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	filters := filtersFromQuery(r)
	var (
		data     []byte
		filename string
		err      error
	)
	switch kind {
	case report.KindCustomer:
		data, err = s.pipe.ExportCustomer(filters)
		filename = export.CustomerReportFilename
	case report.KindFranchise:
		data, err = s.pipe.ExportFranchise(filters)
		filename = export.FranchiseReportFilename
	}
	if err != nil {
		var nte *export.NothingToExportError
		if errors.As(err, &nte) {
			// Export with nothing to export is a no-op, not a failure.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func viewKind(r *http.Request) (string, bool) {
	switch chi.URLParam(r, "view") {
	case report.KindCustomer:
		return report.KindCustomer, true
	case report.KindFranchise:
		return report.KindFranchise, true
	}
	return "", false
}

// filtersFromQuery reads repeated query parameters into facet filters:
// ?customer=A&customer=B&salesperson=X etc.
func filtersFromQuery(r *http.Request) report.Filters {
	q := r.URL.Query()
	f := report.Filters{}
	for param, facet := range map[string]string{
		"customer":    report.FacetCustomers,
		"salesperson": report.FacetSalespeople,
		"franchise":   report.FacetFranchises,
		"item":        report.FacetItems,
	} {
		if vals := q[param]; len(vals) > 0 {
			f[facet] = vals
		}
	}
	return f
}

func ingestStatus(err error) int {
	var (
		de  *decode.DecodeError
		dce *dataset.DuplicateColumnError
		se  *schema.SchemaError
		nu  *aggregate.NoUsableDataError
	)
	if errors.As(err, &de) || errors.As(err, &dce) || errors.As(err, &se) || errors.As(err, &nu) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func viewStatus(err error) int {
	var vu *pipeline.ViewUnavailableError
	if errors.As(err, &vu) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
