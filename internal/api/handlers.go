package api

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chandrakanthm/skyvern/internal/application/port/input"
	"github.com/chandrakanthm/skyvern/internal/audit"
)

// uploadLimit bounds guideline uploads; rule files are small.
const uploadLimit = 1 << 20

type auditSingleRequest struct {
	URL            string `json:"url"`
	GuidelinesPath string `json:"guidelines_path,omitempty"`
	Screenshot     *bool  `json:"include_screenshot,omitempty"`
	Report         *bool  `json:"generate_report,omitempty"`
	SkipSummary    bool   `json:"skip_summary,omitempty"`
}

type auditMultipleRequest struct {
	URLs           []string `json:"urls"`
	GuidelinesPath string   `json:"guidelines_path,omitempty"`
	Screenshot     *bool    `json:"include_screenshot,omitempty"`
	Report         *bool    `json:"generate_report,omitempty"`
	SkipSummary    bool     `json:"skip_summary,omitempty"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAuditSingle(w http.ResponseWriter, r *http.Request) {
	var req auditSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := s.runner.RunSingle(r.Context(), input.AuditRequest{
		URL:               req.URL,
		Guidelines:        s.activeGuidelines(),
		GuidelinesPath:    req.GuidelinesPath,
		IncludeScreenshot: boolOr(req.Screenshot, true),
		GenerateReport:    boolOr(req.Report, true),
		SkipSummary:       req.SkipSummary,
	})
	if err != nil {
		s.log.Error("Single audit failed", "url", req.URL, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAuditMultiple(w http.ResponseWriter, r *http.Request) {
	var req auditMultipleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.URLs) == 0 {
		respondError(w, http.StatusBadRequest, "urls is required")
		return
	}

	result, err := s.runner.RunMultiple(r.Context(), input.MultiAuditRequest{
		URLs:              req.URLs,
		Guidelines:        s.activeGuidelines(),
		GuidelinesPath:    req.GuidelinesPath,
		IncludeScreenshot: boolOr(req.Screenshot, true),
		GenerateReport:    boolOr(req.Report, true),
		SkipSummary:       req.SkipSummary,
	})
	if err != nil {
		s.log.Error("Multi audit failed", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runner.Get(chi.URLParam(r, "auditID"))
	if !ok {
		respondError(w, http.StatusNotFound, "audit not found")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetScreenshot(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runner.Get(chi.URLParam(r, "auditID"))
	if !ok || result.ScreenshotPath == "" {
		respondError(w, http.StatusNotFound, "screenshot not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, result.ScreenshotPath)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runner.Get(chi.URLParam(r, "auditID"))
	if !ok || result.ReportPath == "" {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, result.ReportPath)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	auditID := chi.URLParam(r, "auditID")
	answer, err := s.runner.Query(r.Context(), auditID, req.Query)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"audit_id": auditID,
		"query":    req.Query,
		"answer":   answer,
	})
}

// handleUploadGuidelines parses an uploaded YAML or JSON rule set, activates
// it for subsequent audits and, when a guidelines dir is configured, keeps a
// copy on disk.
func (s *Server) handleUploadGuidelines(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, uploadLimit))
	if err != nil {
		respondError(w, http.StatusBadRequest, "reading body failed: "+err.Error())
		return
	}

	ext := ".yaml"
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		ext = ".json"
	}
	guidelines, err := audit.ParseGuidelines(raw, ext)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.cfg.GuidelinesDir != "" {
		path := filepath.Join(s.cfg.GuidelinesDir, "uploaded"+ext)
		if err := os.MkdirAll(s.cfg.GuidelinesDir, 0o755); err == nil {
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				s.log.Warn("Persisting uploaded guidelines failed", "path", path, "error", err)
			}
		}
	}

	s.setActiveGuidelines(guidelines)
	s.log.Info("Guidelines activated", "name", guidelines.Name, "version", guidelines.Version)
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "activated",
		"name":    guidelines.Name,
		"version": guidelines.Version,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
