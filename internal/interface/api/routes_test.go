package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/infrastructure/identity"
	"groundops-service/internal/infrastructure/router"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/metrics"
	"groundops-service/templates"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScheduler struct {
	mu     sync.Mutex
	err    error
	alerts []*entity.Alert
}

func (s *recordingScheduler) Schedule(_ context.Context, alert *entity.Alert) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.alerts = append(s.alerts, alert)
	return "task-9", nil
}

func (s *recordingScheduler) kinds() []entity.AlertKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.AlertKind, 0, len(s.alerts))
	for _, a := range s.alerts {
		out = append(out, a.Kind)
	}
	return out
}

type apiFixture struct {
	mux       *http.ServeMux
	session   *identity.Session
	scheduler *recordingScheduler
	now       time.Time
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := logger.NewNopLogger()
	f := &apiFixture{
		mux:       http.NewServeMux(),
		session:   identity.NewSession(""),
		scheduler: &recordingScheduler{},
		now:       now,
	}
	clock := func() time.Time { return f.now }

	alertRouter := router.NewAlertRouter(log)
	alertRouter.Register(templates.NewFlightLandingTemplate())
	alertRouter.Register(templates.NewProcessDeadlineTemplate())
	alertRouter.Register(templates.NewBoardingTemplate())
	alertRouter.Register(templates.NewRunwayCutoffTemplate())
	alertRouter.Register(templates.NewLostItemDeadlineTemplate())
	m := metrics.NewMetricsWithRegistry("test", prometheus.NewRegistry())
	planner := usecase.NewAlertPlanner(alertRouter, f.scheduler, nil, f.session, time.UTC, clock, log, m)

	flights := usecase.NewFlightService(usecase.NewFlightStore(clock), nil, nil, planner, "", time.UTC, clock, log)
	processes := usecase.NewProcessService(usecase.NewProcessStore(clock), planner, clock, log)
	payments := usecase.NewPaymentService(usecase.NewPaymentStore(clock), clock, log)
	lostItems := usecase.NewLostItemService(usecase.NewLostItemStore(clock), planner, clock, log)

	NewSessionHandler(f.session, log).Register(f.mux)
	NewFlightHandler(flights, time.UTC, clock, log).Register(f.mux)
	NewProcessHandler(processes, log).Register(f.mux)
	NewPaymentHandler(payments, log).Register(f.mux)
	NewLostItemHandler(lostItems, log).Register(f.mux)
	NewTimerHandler(
		usecase.NewBoardingTimer(planner, time.UTC, clock),
		usecase.NewRunwayTimer(planner, time.UTC, clock),
		clock, log,
	).Register(f.mux)
	return f
}

func (f *apiFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func issueFields(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	resp := decodeBody[errorResponse](t, rec)
	fields := make([]string, 0, len(resp.Issues))
	for _, issue := range resp.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

func TestFlightRoutes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/flights", `{"codigo":"ad 4518","rota":"rec/vcp","eta":"13:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	flight := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, "AD4518", flight["codigo"])
	assert.Equal(t, "REC", flight["origem"])
	assert.Equal(t, "VCP", flight["destino"])
	assert.Equal(t, "2026-10-19T13:00:00.000Z", flight["eta"])
	assert.Equal(t, []entity.AlertKind{entity.AlertFlightLanding}, f.scheduler.kinds())

	rec = f.do(t, http.MethodPost, "/flights", `{"codigo":"AD4518","eta":"2026-10-19T13:00:00Z"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "same code and ETA")

	rec = f.do(t, http.MethodPost, "/flights", `{"eta":"25:99"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.ElementsMatch(t, []string{"codigo", "eta"}, issueFields(t, rec))

	rec = f.do(t, http.MethodPost, "/flights", `{"codigo":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/flights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]interface{}](t, rec), 1)

	rec = f.do(t, http.MethodDelete, "/flights/AD4518?eta=yesterday", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodDelete, "/flights/G31234", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/flights/AD4518?eta=2026-10-19T13:00:00.000Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":1}`, rec.Body.String())
}

func TestProcessRoutes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/processes", `{"processNumber":"MCZAD17656","tipo":"OHD","bag":"Mala azul"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	proc := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, "aberto", proc["status"])

	rec = f.do(t, http.MethodPost, "/processes", `{"processNumber":"MCZAD17656","tipo":"OHD","bag":"Mala azul"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/processes", `{"processNumber":"MCZAD17657","tipo":"XYZ"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, issueFields(t, rec), "tipo")

	rec = f.do(t, http.MethodPost, "/processes/MCZAD17656/finalize", "")
	require.Equal(t, http.StatusOK, rec.Code)
	proc = decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, "finalizado", proc["status"])
	assert.Equal(t, "2026-10-19T12:00:00.000Z", proc["finalizadoEm"])

	for transition, status := range map[string]string{
		"reopen":  "aberto",
		"observe": "observação",
		"expire":  "vencido",
	} {
		rec = f.do(t, http.MethodPost, "/processes/MCZAD17656/"+transition, "")
		require.Equal(t, http.StatusOK, rec.Code, transition)
		assert.Equal(t, status, decodeBody[map[string]interface{}](t, rec)["status"], transition)
	}

	rec = f.do(t, http.MethodPost, "/processes/MCZAD17656/archive", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/processes/MCZAD99999/finalize", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/processes/mczad17656", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MCZAD17656", decodeBody[map[string]interface{}](t, rec)["processNumber"])

	rec = f.do(t, http.MethodGet, "/processes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]interface{}](t, rec), 1)
}

func TestPaymentRoutes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/payments", `{"vooCodigo":"AD4518","valor":90,"forma":"PIX"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	payment := decodeBody[map[string]interface{}](t, rec)
	id, _ := payment["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "BRL", payment["moeda"])

	rec = f.do(t, http.MethodPost, "/payments", `{"vooCodigo":"AD4518","valor":90,"forma":"CHEQUE"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"forma"}, issueFields(t, rec))

	rec = f.do(t, http.MethodDelete, "/payments/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/payments/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/payments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLostItemRoutes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/lost-items",
		`{"voo":"AD4518","data":"2026-10-19","local":"Esteira 2","descricao":"Guarda-chuva preto"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "PIN0001", decodeBody[map[string]interface{}](t, rec)["pin"])
	assert.Equal(t, []entity.AlertKind{entity.AlertLostItemDeadline}, f.scheduler.kinds())

	rec = f.do(t, http.MethodPost, "/lost-items", `{"voo":"AD4518","data":"19/10/2026"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.ElementsMatch(t, []string{"data", "local", "descricao"}, issueFields(t, rec))

	rec = f.do(t, http.MethodDelete, "/lost-items/pin0001", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/lost-items/PIN0001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBoardingTimerRoutes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/timers/boarding", `{"departure":"7h"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"departure"}, issueFields(t, rec))

	rec = f.do(t, http.MethodPost, "/timers/boarding", `{"departure":"12:30"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"running":true,"elapsedSeconds":0,"overrun":false}`, rec.Body.String())
	assert.Equal(t, []entity.AlertKind{entity.AlertBoardingWarning, entity.AlertBoardingUrgent}, f.scheduler.kinds())

	f.now = now.Add(35 * time.Minute)
	rec = f.do(t, http.MethodGet, "/timers/boarding", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"running":true,"elapsedSeconds":2100,"overrun":true}`, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/timers/boarding", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"running":false,"elapsedSeconds":2100,"overrun":false}`, rec.Body.String())
}

func TestRunwayTimerRoute(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/timers/runway", `{"flight":"ad4518","takeoff":"12:39"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[runwayResponse](t, rec)
	assert.Equal(t, "AD4518", resp.Flight)
	assert.Equal(t, int64(30*60), resp.RemainingSeconds)
	assert.Equal(t, "2026-10-19T12:30:00.000Z", resp.AlertAt)
	assert.Equal(t, "task-9", resp.TaskID)
	assert.NotEmpty(t, resp.AlertTitle)

	rec = f.do(t, http.MethodPost, "/timers/runway", `{"flight":"AD4518","takeoff":"noon"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"takeoff"}, issueFields(t, rec))

	f.scheduler.err = errors.New("push service down")
	rec = f.do(t, http.MethodPost, "/timers/runway", `{"flight":"AD4518","takeoff":"12:39"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSessionRoutes(t *testing.T) {
	f := newAPIFixture(t)
	var switched []string
	f.session.OnChange(func(uid string) { switched = append(switched, uid) })

	rec := f.do(t, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"signedIn":false}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/session", `{"userId":"users/../x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodPost, "/session", `{"userId":" agent-7 "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"agent-7","signedIn":true}`, rec.Body.String())

	// records planned after sign-in belong to the agent
	rec = f.do(t, http.MethodPost, "/timers/runway", `{"flight":"AD4518","takeoff":"12:39"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, f.scheduler.alerts)
	assert.Equal(t, "agent-7", f.scheduler.alerts[len(f.scheduler.alerts)-1].UserID)

	rec = f.do(t, http.MethodDelete, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"signedIn":false}`, rec.Body.String())

	assert.Equal(t, []string{"agent-7", ""}, switched)
}

func TestRoutes_WrongMethod(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPut, "/flights", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
