package server

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmynk/chamabot/internal/report"
	"github.com/mmynk/chamabot/internal/storage"
)

type reportHandler struct {
	store     storage.Store
	perMember float64
	logger    *slog.Logger
}

func (h *reportHandler) pdf(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "pdf", "application/pdf", report.WritePDF)
}

func (h *reportHandler) html(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "html", "text/html; charset=utf-8", report.WriteHTML)
}

// serve renders into a buffer first so a failure can still produce a 500.
func (h *reportHandler) serve(w http.ResponseWriter, r *http.Request, ext, contentType string, render func(io.Writer, *report.Report) error) {
	rep, err := report.Build(r.Context(), h.store, h.perMember, report.DefaultRecentLimit, time.Now())
	if err != nil {
		h.logger.Error("Failed to build report", "error", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, rep); err != nil {
		h.logger.Error("Failed to render report", "format", ext, "error", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if ext == "pdf" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+rep.Filename(ext)+`"`)
	}
	w.Write(buf.Bytes())
}
