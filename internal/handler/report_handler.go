package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"resultboard/internal/grading"
	"resultboard/internal/presenter"
	"resultboard/internal/service"
)

type ReportService interface {
	Analyze(ctx context.Context, fileName string, data []byte, policyName string) (*service.Analysis, error)
	Get(ctx context.Context, id, policyName string) (*service.Analysis, error)
}

type ReportHandler struct {
	reportService ReportService
	maxUploadMB   int64
}

func NewReportHandler(reportService ReportService, maxUploadMB int64) *ReportHandler {
	return &ReportHandler{reportService: reportService, maxUploadMB: maxUploadMB}
}

// UploadReport analyses the multipart "file" field and stores the result.
func (h *ReportHandler) UploadReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadMB << 20); err != nil {
		http.Error(w, "File too large or bad request", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	analysis, err := h.reportService.Analyze(r.Context(), header.Filename, data, r.FormValue("policy"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, analysis)
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// Dashboard renders the tables page; charts are embedded from the charts route.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		writeError(w, err)
		return
	}
	d.ChartsURL = fmt.Sprintf("/reports/%s/charts", mux.Vars(r)["id"])
	if policy := r.URL.Query().Get("policy"); policy != "" {
		d.ChartsURL += "?policy=" + url.QueryEscape(policy)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := d.RenderHTML(w); err != nil {
		writeError(w, err)
	}
}

func (h *ReportHandler) Charts(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := d.RenderCharts(w); err != nil {
		writeError(w, err)
	}
}

func (h *ReportHandler) load(r *http.Request) (*service.Analysis, error) {
	return h.reportService.Get(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("policy"))
}

func (h *ReportHandler) dashboard(r *http.Request) (presenter.Dashboard, error) {
	analysis, err := h.load(r)
	if err != nil {
		return presenter.Dashboard{}, err
	}
	policy, err := grading.Lookup(analysis.Policy)
	if err != nil {
		return presenter.Dashboard{}, err
	}
	return presenter.New(analysis.FileName, analysis.Table, policy), nil
}
