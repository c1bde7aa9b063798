package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func TestStatusHandler(t *testing.T) {
	log := logger.NewNopLogger()
	flights := usecase.NewFlightService(usecase.NewFlightStore(clock), nil, nil, nil, "", time.UTC, clock, log)
	processes := usecase.NewProcessService(usecase.NewProcessStore(clock), nil, clock, log)
	payments := usecase.NewPaymentService(usecase.NewPaymentStore(clock), clock, log)
	lostItems := usecase.NewLostItemService(usecase.NewLostItemStore(clock), nil, clock, log)
	ctx := context.Background()

	_, err := flights.Add(ctx, usecase.FlightInput{Code: "AD4518", ETA: now.Add(time.Hour)})
	require.NoError(t, err)
	_, err = processes.Add(ctx, usecase.ProcessInput{Number: "MCZAD17656", Type: entity.ProcessOHD, Bag: "Mala azul"})
	require.NoError(t, err)
	_, err = payments.Add(usecase.PaymentInput{FlightCode: "AD4518", Amount: 90, Method: entity.MethodPIX})
	require.NoError(t, err)

	handler := NewStatusHandler(flights, processes, payments, lostItems, clock, log)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AD4518 — 13:00", resp.NextFlight)
	assert.Equal(t, 1, resp.Flights)
	assert.Equal(t, 1, resp.Processes.Open)
	assert.Equal(t, 0, resp.Processes.Expired)
	assert.Equal(t, 1, resp.Payments)
	assert.Equal(t, 0, resp.LostItems)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type stubMailer struct {
	err  error
	sent []*entity.IncidentReport
}

func (m *stubMailer) SendIncident(_ context.Context, _ string, report *entity.IncidentReport) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, report)
	return "msg-1", nil
}

func newIncidentHandler(mailer *stubMailer, recipient string) *IncidentHandler {
	m := metrics.NewMetricsWithRegistry("test", prometheus.NewRegistry())
	reporter := usecase.NewIncidentReporter(mailer, nil, recipient, clock, logger.NewNopLogger(), m)
	return NewIncidentHandler(reporter, logger.NewNopLogger())
}

func TestIncidentHandler_Accepts(t *testing.T) {
	mailer := &stubMailer{}
	handler := newIncidentHandler(mailer, "seguranca@example.com")

	body := `{"reporter":"João","description":"Calço esquecido","flight":"AD4518",
		"latitude":-9.51,"longitude":-35.79,
		"attachments":[{"filename":"foto.jpg","contentType":"image/jpeg","data":"/9j/"}]}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/incidents", strings.NewReader(body)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"messageId":"msg-1"}`, rec.Body.String())

	require.Len(t, mailer.sent, 1)
	report := mailer.sent[0]
	assert.Equal(t, "João", report.Reporter)
	require.NotNil(t, report.Latitude)
	assert.InDelta(t, -9.51, *report.Latitude, 1e-9)
	require.Len(t, report.Attachments, 1)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, report.Attachments[0].Data)
	assert.Equal(t, now, report.OccurredAt)
}

func TestIncidentHandler_Errors(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		body      string
		recipient string
		sendErr   error
		status    int
	}{
		{name: "wrong method", method: http.MethodGet, recipient: "s@example.com", status: http.StatusMethodNotAllowed},
		{name: "bad json", method: http.MethodPost, body: "{", recipient: "s@example.com", status: http.StatusBadRequest},
		{name: "invalid report", method: http.MethodPost, body: `{"latitude":10}`, recipient: "s@example.com", status: http.StatusUnprocessableEntity},
		{name: "no recipient", method: http.MethodPost, body: `{"description":"x"}`, status: http.StatusServiceUnavailable},
		{name: "mail failure", method: http.MethodPost, body: `{"description":"x"}`, recipient: "s@example.com", sendErr: errors.New("boom"), status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newIncidentHandler(&stubMailer{err: tt.sendErr}, tt.recipient)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/incidents", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestIncidentHandler_ReportsIssues(t *testing.T) {
	handler := newIncidentHandler(&stubMailer{}, "s@example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/incidents", strings.NewReader(`{"description":""}`)))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Issues)
	assert.Equal(t, "descricao", resp.Issues[0].Field)
}
