package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
	"github.com/iho/ledgerlens/internal/usecase"
)

// ReportService defines the aggregation behavior needed by ReportHandler.
type ReportService interface {
	Run(ctx context.Context, in usecase.ReportInput) (*domain.AccountTransactionsResult, error)
}

// ReportArchive persists finished runs and serves them back.
type ReportArchive interface {
	SaveRun(ctx context.Context, in usecase.ReportInput, result *domain.AccountTransactionsResult) (string, error)
	GetRun(ctx context.Context, id string) (*domain.ReportRun, error)
}

// ReportHandler exposes the aggregation entry point as a tool endpoint.
type ReportHandler struct {
	aggregateUC ReportService
	archive     ReportArchive // optional, may be nil
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewReportHandler creates a new ReportHandler. archive may be nil, in which
// case runs are not persisted.
func NewReportHandler(aggregateUC ReportService, archive ReportArchive, m *metrics.Metrics, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		aggregateUC: aggregateUC,
		archive:     archive,
		metrics:     m,
		logger:      logger,
	}
}

// Run executes one aggregation call and writes the tool envelope. Top-level
// aggregation failures become an error envelope, not an HTTP error: the
// envelope is the protocol the host runtime consumes.
func (h *ReportHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dto.RunReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report parameters", err.Error())
		return
	}

	start := time.Now()
	result, err := h.aggregateUC.Run(r.Context(), input)
	if err != nil {
		h.logger.Error().Err(err).Msg("aggregation failed")
		h.metrics.ObserveRun(time.Since(start), 0, false)
		writeJSON(w, http.StatusOK, dto.FailureResponse(err.Error()))
		return
	}
	h.metrics.ObserveRun(time.Since(start), len(result.Rows), true)
	h.metrics.ObserveWarnings(len(result.Warnings))

	var runID *string
	if h.archive != nil {
		id, saveErr := h.archive.SaveRun(r.Context(), input, result)
		if saveErr != nil {
			h.logger.Warn().Err(saveErr).Msg("failed to persist report run")
		} else {
			runID = &id
			h.metrics.ObserveArchive()
		}
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse(result, runID))
}

// GetRun retrieves a persisted run by id.
func (h *ReportHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing run ID", "")
		return
	}
	if h.archive == nil {
		writeError(w, http.StatusNotFound, "report persistence disabled", "")
		return
	}

	run, err := h.archive.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get report run", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportRunFromDomain(run))
}
