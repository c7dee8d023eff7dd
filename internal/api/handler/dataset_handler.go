package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go-equipment-analytics/internal/auth"
	"go-equipment-analytics/internal/model"
	"go-equipment-analytics/internal/pipeline"
	"go-equipment-analytics/internal/ports"
	"go-equipment-analytics/internal/report"
	"go-equipment-analytics/internal/storage"
	"go-equipment-analytics/pkg/router"
	"go-equipment-analytics/pkg/utils"
)

// Path segments of /api/v1/datasets/{id}/...
const (
	datasetIDSegment = 3
	chartSegment     = 5
)

// UploadResponse is returned for a processed upload.
type UploadResponse struct {
	Dataset model.Dataset         `json:"dataset"`
	Summary model.AnalyticsResult `json:"summary"`
}

// ListResponse wraps the caller's most recent datasets.
type ListResponse struct {
	Items []model.Dataset `json:"items"`
}

// DatasetResponse wraps a single dataset.
type DatasetResponse struct {
	Dataset model.Dataset `json:"dataset"`
}

// SummaryResponse pairs a dataset with its latest analytics.
type SummaryResponse struct {
	Dataset model.Dataset         `json:"dataset"`
	Summary model.AnalyticsResult `json:"summary"`
}

// PreviewResponse pairs a dataset with its first rows.
type PreviewResponse struct {
	Dataset model.Dataset `json:"dataset"`
	Preview model.Preview `json:"preview"`
}

// UploadDataset ingests a CSV file
// @Summary Upload a dataset
// @Description Store a CSV file, compute its summary analytics and keep only the caller's most recent datasets
// @Tags datasets
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "Missing file or CSV processing failed"
// @Failure 413 {object} ErrorResponse "File too large"
// @Router /datasets/upload [post]
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(maxMemoryMultipart); err != nil {
		if isTooLarge(err) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeDetail(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	res, err := h.ingestor.Ingest(r.Context(), userID, header.Filename, file)
	var ve *pipeline.ValidationError
	var pe *pipeline.ParseError
	switch {
	case errors.As(err, &ve), errors.As(err, &pe):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "CSV processing failed", Error: err.Error()})
		return
	case err != nil:
		h.log.Error("Upload failed", "user_id", userID, "filename", header.Filename, "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{Dataset: res.Dataset, Summary: res.Summary.Analytics})
}

// isTooLarge matches MaxBytesReader failures, which multipart parsing does
// not always wrap.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

// ListDatasets returns the caller's most recent datasets
// @Summary List datasets
// @Description Newest first; limit is clamped to [1, 5]
// @Tags datasets
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of datasets (1-5)" default(5)
// @Success 200 {object} ListResponse
// @Router /datasets [get]
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit = utils.AtoiDefault(raw, defaultListLimit)
	}
	limit = utils.Clamp(limit, 1, pipeline.DefaultMaxKept)

	items, err := h.datasets.ListDatasets(r.Context(), userID, limit)
	if err != nil {
		h.log.Error("Failed to list datasets", "user_id", userID, "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Items: items})
}

// loadDataset resolves the {id} segment for the caller, writing 404 when it
// is absent or owned by someone else.
func (h *Handler) loadDataset(w http.ResponseWriter, r *http.Request) (model.Dataset, bool) {
	userID, _ := auth.UserID(r.Context())
	id := router.PathSegment(r, datasetIDSegment)
	d, err := h.datasets.GetDataset(r.Context(), userID, id)
	if errors.Is(err, ports.ErrNotFound) {
		notFound(w)
		return model.Dataset{}, false
	}
	if err != nil {
		h.log.Error("Failed to load dataset", "dataset_id", id, "error", err)
		internalError(w)
		return model.Dataset{}, false
	}
	return d, true
}

// latestAnalytics returns nil when the dataset has no summary yet.
func (h *Handler) latestAnalytics(r *http.Request, datasetID string) (*model.AnalyticsResult, error) {
	s, err := h.datasets.LatestSummary(r.Context(), datasetID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s.Analytics, nil
}

// GetDataset returns one dataset
// @Summary Get dataset
// @Tags datasets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dataset ID"
// @Success 200 {object} DatasetResponse
// @Failure 404 {object} ErrorResponse
// @Router /datasets/{id} [get]
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDataset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, DatasetResponse{Dataset: d})
}

// DeleteDataset removes a dataset with its summaries and files
// @Summary Delete dataset
// @Tags datasets
// @Security BearerAuth
// @Param id path string true "Dataset ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /datasets/{id} [delete]
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDataset(w, r)
	if !ok {
		return
	}
	err := h.datasets.DeleteDataset(r.Context(), d.UserID, d.ID)
	if errors.Is(err, ports.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		h.log.Error("Failed to delete dataset", "dataset_id", d.ID, "error", err)
		internalError(w)
		return
	}
	pipeline.ReleaseArtifacts(r.Context(), h.files, h.log, d)
	h.log.Info("Dataset deleted", "dataset_id", d.ID, "user_id", d.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary returns the latest analytics of a dataset
// @Summary Get dataset summary
// @Tags datasets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dataset ID"
// @Success 200 {object} SummaryResponse
// @Failure 404 {object} ErrorResponse "Dataset or summary not found"
// @Router /datasets/{id}/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDataset(w, r)
	if !ok {
		return
	}
	analytics, err := h.latestAnalytics(r, d.ID)
	if err != nil {
		h.log.Error("Failed to load summary", "dataset_id", d.ID, "error", err)
		internalError(w)
		return
	}
	if analytics == nil {
		writeDetail(w, http.StatusNotFound, "Summary not found")
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Dataset: d, Summary: *analytics})
}

// GetPreview returns the first rows of a dataset
// @Summary Preview dataset rows
// @Description limit is clamped to [1, 500]; a non-numeric limit falls back to the default
// @Tags datasets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dataset ID"
// @Param limit query int false "Row limit" default(50)
// @Success 200 {object} PreviewResponse
// @Failure 400 {object} ErrorResponse "Stored file cannot be parsed"
// @Failure 404 {object} ErrorResponse
// @Router /datasets/{id}/preview [get]
func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDataset(w, r)
	if !ok {
		return
	}
	limit := h.previewDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit = utils.AtoiDefault(raw, h.previewDefaultLimit)
	}

	t, err := pipeline.LoadTable(r.Context(), h.files, d.FileKey)
	if err != nil {
		h.log.Warn("Preview failed", "dataset_id", d.ID, "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "CSV processing failed", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{Dataset: d, Preview: pipeline.PreviewRows(t, limit)})
}

// GetReportPDF renders the dataset report
// @Summary Download PDF report
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Dataset ID"
// @Success 200 {file} file "PDF report"
// @Failure 404 {object} ErrorResponse
// @Router /datasets/{id}/report.pdf [get]
func (h *Handler) GetReportPDF(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDataset(w, r)
	if !ok {
		return
	}
	analytics, err := h.latestAnalytics(r, d.ID)
	if err != nil {
		h.log.Error("Failed to load summary", "dataset_id", d.ID, "error", err)
		internalError(w)
		return
	}

	var buf bytes.Buffer
	if err := report.RenderPDF(&buf, d, analytics); err != nil {
		h.log.Error("Failed to render report", "dataset_id", d.ID, "error", err)
		internalError(w)
		return
	}
	h.storeReport(r, d, buf.Bytes())

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", storage.ReportFilename(d.ID)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// storeReport keeps the latest rendering as the dataset's report artifact.
// Failures are logged; the caller still gets the document.
func (h *Handler) storeReport(r *http.Request, d model.Dataset, pdf []byte) {
	ctx := r.Context()
	key := storage.ReportKey(h.now().UTC(), d.ID)
	if err := h.files.Put(ctx, key, bytes.NewReader(pdf)); err != nil {
		h.log.Warn("Failed to store report", "dataset_id", d.ID, "key", key, "error", err)
		return
	}
	if err := h.datasets.SetReportKey(ctx, d.ID, key); err != nil {
		h.log.Warn("Failed to record report", "dataset_id", d.ID, "key", key, "error", err)
		_ = h.files.Delete(ctx, key)
		return
	}
	if d.ReportKey != "" && d.ReportKey != key {
		if err := h.files.Delete(ctx, d.ReportKey); err != nil {
			h.log.Warn("Failed to release old report", "dataset_id", d.ID, "key", d.ReportKey, "error", err)
		}
	}
}

// GetChart renders the type distribution as a PNG chart
// @Summary Type distribution chart
// @Tags reports
// @Produce image/png
// @Security BearerAuth
// @Param id path string true "Dataset ID"
// @Param kind path string true "Chart kind" Enums(bar, pie)
// @Success 200 {file} file "PNG image"
// @Failure 404 {object} ErrorResponse
// @Router /datasets/{id}/charts/{kind}.png [get]
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	kind, err := report.ParseChartKind(strings.TrimSuffix(router.PathSegment(r, chartSegment), ".png"))
	if err != nil {
		notFound(w)
		return
	}
	d, ok := h.loadDataset(w, r)
	if !ok {
		return
	}
	analytics, err := h.latestAnalytics(r, d.ID)
	if err != nil {
		h.log.Error("Failed to load summary", "dataset_id", d.ID, "error", err)
		internalError(w)
		return
	}
	var dist map[string]int
	if analytics != nil {
		dist = analytics.TypeDistribution
	}

	var buf bytes.Buffer
	if err := report.RenderChartPNG(&buf, kind, dist); err != nil {
		h.log.Error("Failed to render chart", "dataset_id", d.ID, "kind", kind, "error", err)
		internalError(w)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}
