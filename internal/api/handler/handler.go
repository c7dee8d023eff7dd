package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go-equipment-analytics/internal/auth"
	"go-equipment-analytics/internal/pipeline"
	"go-equipment-analytics/internal/ports"
	"go-equipment-analytics/pkg/logger"
)

const (
	defaultListLimit    = 5
	defaultPreviewLimit = 50
	maxMemoryMultipart  = 8 << 20
)

// Handler serves the dataset API for the authenticated caller.
type Handler struct {
	log                 *logger.Logger
	datasets            ports.DatasetStore
	users               ports.UserStore
	files               ports.FileStore
	ingestor            *pipeline.Ingestor
	tokens              *auth.TokenIssuer
	maxUploadBytes      int64
	previewDefaultLimit int
	now                 func() time.Time
}

// Options carries the collaborators of a Handler.
type Options struct {
	Log                 *logger.Logger
	Datasets            ports.DatasetStore
	Users               ports.UserStore
	Files               ports.FileStore
	Ingestor            *pipeline.Ingestor
	Tokens              *auth.TokenIssuer
	MaxUploadBytes      int64
	PreviewDefaultLimit int
}

func New(opts Options) *Handler {
	h := &Handler{
		log:                 opts.Log.With("component", "api"),
		datasets:            opts.Datasets,
		users:               opts.Users,
		files:               opts.Files,
		ingestor:            opts.Ingestor,
		tokens:              opts.Tokens,
		maxUploadBytes:      opts.MaxUploadBytes,
		previewDefaultLimit: opts.PreviewDefaultLimit,
		now:                 time.Now,
	}
	if h.previewDefaultLimit <= 0 {
		h.previewDefaultLimit = defaultPreviewLimit
	}
	return h
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

func notFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func internalError(w http.ResponseWriter) {
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}
