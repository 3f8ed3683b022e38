package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/facbol/billing-intake/internal/chunkstore"
	"github.com/facbol/billing-intake/internal/common"
	"github.com/facbol/billing-intake/internal/pipeline"
	"github.com/facbol/billing-intake/internal/progress"
	"github.com/facbol/billing-intake/internal/repository"
)

// Server wires the HTTP handlers to the pipeline, chunk store and
// repository.
type Server struct {
	cfg       *common.Config
	processor *pipeline.Processor
	reader    *chunkstore.Reader
	registry  *progress.Registry
	invoices  repository.InvoiceRepository
	logger    *slog.Logger
}

func New(cfg *common.Config, processor *pipeline.Processor, reader *chunkstore.Reader, registry *progress.Registry, invoices repository.InvoiceRepository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		processor: processor,
		reader:    reader,
		registry:  registry,
		invoices:  invoices,
		logger:    logger,
	}
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/extract", s.handleExtract)
	mux.HandleFunc("GET /api/chunk/pagina", s.handleChunkPage)
	mux.HandleFunc("GET /api/chunk/raw", s.handleChunkRaw)
	mux.HandleFunc("GET /api/progress", s.handleProgress)
	mux.HandleFunc("POST /api/facturas/guardar", s.handleInvoiceSave)
	return mux
}

// Handler wraps the routes with request-scoped logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.Routes())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		requestID := uuid.NewString()
		next.ServeHTTP(w, r.WithContext(common.WithRequestID(r.Context(), requestID)))
		s.logger.Info("http.request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(started).Round(time.Millisecond),
		)
	})
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("http.encode.failed", "error", err)
	}
}

// writeError maps the error taxonomy to status codes and the Spanish wire
// messages clients match on.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Error interno del servidor"

	var appErr *common.AppError
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		status = http.StatusNotFound
		message = "Token inválido o expirado"
	case errors.Is(err, common.ErrChunkMissing):
		status = http.StatusNotFound
		message = "Chunk no encontrado"
	case errors.Is(err, common.ErrSheetNotFound):
		status = http.StatusUnprocessableEntity
		message = "No se encontró una hoja de datos en el archivo"
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
	default:
		s.logger.Error("http.request.failed", "error", err)
	}

	s.writeJSON(w, status, errorEnvelope{Success: false, Error: message})
}
