package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/usecase"
)

type stubReportService struct {
	result *domain.AccountTransactionsResult
	err    error
	gotIn  usecase.ReportInput
}

func (s *stubReportService) Run(ctx context.Context, in usecase.ReportInput) (*domain.AccountTransactionsResult, error) {
	s.gotIn = in
	return s.result, s.err
}

type stubReportArchive struct {
	saveID  string
	saveErr error
	run     *domain.ReportRun
	getErr  error
}

func (s *stubReportArchive) SaveRun(ctx context.Context, in usecase.ReportInput, result *domain.AccountTransactionsResult) (string, error) {
	return s.saveID, s.saveErr
}

func (s *stubReportArchive) GetRun(ctx context.Context, id string) (*domain.ReportRun, error) {
	return s.run, s.getErr
}

func postReport(t *testing.T, h *ReportHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(body))
	h.Run(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) dto.ToolResponse {
	t.Helper()

	var envelope dto.ToolResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return envelope
}

func TestReportHandlerRunSuccess(t *testing.T) {
	svc := &stubReportService{result: &domain.AccountTransactionsResult{
		Rows: []domain.TransactionRow{{Date: "2024-02-01", Source: "Sales Invoice"}},
	}}
	archive := &stubReportArchive{saveID: "01RUN"}
	h := NewReportHandler(svc, archive, nil, zerolog.Nop())

	rec := postReport(t, h, `{"fromDate": "2024-01-01", "toDate": "2024-03-31", "accountCodes": ["200"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.IsError || envelope.Error != nil {
		t.Fatalf("expected success envelope, got %+v", envelope)
	}
	if len(envelope.Result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(envelope.Result.Rows))
	}
	if envelope.Result.RunID == nil || *envelope.Result.RunID != "01RUN" {
		t.Fatalf("expected run id, got %v", envelope.Result.RunID)
	}
	if len(svc.gotIn.AccountCodes) != 1 || svc.gotIn.AccountCodes[0] != "200" {
		t.Fatalf("unexpected input passed to service: %+v", svc.gotIn)
	}
}

func TestReportHandlerRunAggregationFailure(t *testing.T) {
	svc := &stubReportService{err: errors.New("authenticating: no stored token")}
	h := NewReportHandler(svc, nil, nil, zerolog.Nop())

	rec := postReport(t, h, `{"fromDate": "2024-01-01", "toDate": "2024-03-31"}`)

	// Aggregation failures stay HTTP 200: the envelope carries the error.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if !envelope.IsError || envelope.Error == nil {
		t.Fatalf("expected error envelope, got %+v", envelope)
	}
	if envelope.Result != nil {
		t.Fatalf("expected no result on failure, got %+v", envelope.Result)
	}
	if *envelope.Error != "authenticating: no stored token" {
		t.Fatalf("unexpected error message %q", *envelope.Error)
	}
}

func TestReportHandlerRunBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "bad date format", body: `{"fromDate": "01/01/2024", "toDate": "2024-03-31"}`},
		{name: "inverted range", body: `{"fromDate": "2024-03-31", "toDate": "2024-01-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubReportService{}
			h := NewReportHandler(svc, nil, nil, zerolog.Nop())

			rec := postReport(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestReportHandlerRunArchiveFailureIsNonFatal(t *testing.T) {
	svc := &stubReportService{result: &domain.AccountTransactionsResult{}}
	archive := &stubReportArchive{saveErr: errors.New("db down")}
	h := NewReportHandler(svc, archive, nil, zerolog.Nop())

	rec := postReport(t, h, `{"fromDate": "2024-01-01", "toDate": "2024-03-31"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.IsError {
		t.Fatalf("persistence failure must not fail the run: %+v", envelope)
	}
	if envelope.Result.RunID != nil {
		t.Fatalf("expected no run id when save fails, got %v", envelope.Result.RunID)
	}
}

func getRun(t *testing.T, h *ReportHandler, id string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	h.GetRun(rec, req)
	return rec
}

func TestReportHandlerGetRun(t *testing.T) {
	archive := &stubReportArchive{run: &domain.ReportRun{ID: "01RUN", RowCount: 3}}
	h := NewReportHandler(&stubReportService{}, archive, nil, zerolog.Nop())

	rec := getRun(t, h, "01RUN")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ReportRunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "01RUN" || resp.RowCount != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestReportHandlerGetRunNotFound(t *testing.T) {
	archive := &stubReportArchive{getErr: domain.ErrRunNotFound}
	h := NewReportHandler(&stubReportService{}, archive, nil, zerolog.Nop())

	rec := getRun(t, h, "missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestReportHandlerGetRunPersistenceDisabled(t *testing.T) {
	h := NewReportHandler(&stubReportService{}, nil, nil, zerolog.Nop())

	rec := getRun(t, h, "01RUN")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when persistence is disabled, got %d", rec.Code)
	}
}
