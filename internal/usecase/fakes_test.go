package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// brt is the station zone used by the tests, UTC-3 without DST
var brt = time.FixedZone("BRT", -3*60*60)

func testLogger() logger.Logger {
	return logger.NewNopLogger()
}

func testMetrics() *metrics.Metrics {
	return metrics.NewMetricsWithRegistry("test", prometheus.NewRegistry())
}

// fixedClock returns a clock reading *now
func fixedClock(now *time.Time) func() time.Time {
	return func() time.Time { return *now }
}

// MockScheduler
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(ctx context.Context, alert *entity.Alert) (string, error) {
	args := m.Called(ctx, alert)
	return args.String(0), args.Error(1)
}

func (m *MockScheduler) scheduled() []*entity.Alert {
	var alerts []*entity.Alert
	for _, call := range m.Calls {
		if call.Method == "Schedule" {
			alerts = append(alerts, call.Arguments.Get(1).(*entity.Alert))
		}
	}
	return alerts
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendIncident(ctx context.Context, to string, report *entity.IncidentReport) (string, error) {
	args := m.Called(ctx, to, report)
	return args.String(0), args.Error(1)
}

type memoryAlertRepo struct {
	mu     sync.Mutex
	alerts []*entity.Alert
	err    error
}

func (r *memoryAlertRepo) Create(_ context.Context, alert *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	alert.ID = uint(len(r.alerts) + 1)
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *memoryAlertRepo) FindBySubject(_ context.Context, subject string) ([]*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Alert
	for _, a := range r.alerts {
		if a.Subject == subject {
			out = append(out, a)
		}
	}
	return out, nil
}

// stubTemplate renders "<kind>" / "<subject>@<clock>"
type stubTemplate struct {
	kinds []entity.AlertKind
}

func (t stubTemplate) CanHandle(kind entity.AlertKind) bool {
	for _, k := range t.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (t stubTemplate) Render(facts entity.AlertFacts) (string, string) {
	return string(facts.Kind), facts.Subject + "@" + facts.Clock
}

type sliceRouter struct {
	templates []AlertTemplate
}

func (r *sliceRouter) Register(template AlertTemplate) {
	r.templates = append(r.templates, template)
}

func (r *sliceRouter) GetTemplate(kind entity.AlertKind) AlertTemplate {
	for _, t := range r.templates {
		if t.CanHandle(kind) {
			return t
		}
	}
	return nil
}

func allKindsRouter() *sliceRouter {
	r := &sliceRouter{}
	r.Register(stubTemplate{kinds: []entity.AlertKind{
		entity.AlertFlightLanding,
		entity.AlertBoardingWarning,
		entity.AlertBoardingUrgent,
		entity.AlertRunwayCutoff,
		entity.AlertProcessNearDue,
		entity.AlertProcessExpired,
		entity.AlertLostItemDeadline,
	}})
	return r
}

type staticIdentity string

func (s staticIdentity) CurrentUserID() (string, bool) {
	return string(s), s != ""
}

type plannerFixture struct {
	planner   *AlertPlanner
	scheduler *MockScheduler
	repo      *memoryAlertRepo
	metrics   *metrics.Metrics
}

// newPlannerFixture builds a planner whose scheduler accepts every alert
func newPlannerFixture(now *time.Time) *plannerFixture {
	scheduler := &MockScheduler{}
	scheduler.On("Schedule", mock.Anything, mock.Anything).Return("task-1", nil)
	repo := &memoryAlertRepo{}
	m := testMetrics()
	return &plannerFixture{
		planner:   NewAlertPlanner(allKindsRouter(), scheduler, repo, staticIdentity("agent-7"), brt, fixedClock(now), testLogger(), m),
		scheduler: scheduler,
		repo:      repo,
		metrics:   m,
	}
}

type fakeAirlineRepo map[string]string

func (r fakeAirlineRepo) GetByCode(_ context.Context, code string) (*entity.Airline, error) {
	name, ok := r[code]
	if !ok {
		return nil, errors.New("airline not found")
	}
	return &entity.Airline{Code: code, Name: name}, nil
}

type fakeTimezoneRepo map[string]string

func (r fakeTimezoneRepo) GetByAirportCode(_ context.Context, code string) (*entity.Timezone, error) {
	tz, ok := r[code]
	if !ok {
		return nil, errors.New("timezone not found")
	}
	return &entity.Timezone{AirportCode: code, TzName: tz}, nil
}

type memoryIncidentLogRepo struct {
	logs []*entity.IncidentLog
}

func (r *memoryIncidentLogRepo) Save(_ context.Context, log *entity.IncidentLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *memoryIncidentLogRepo) FindRecent(_ context.Context, limit int) ([]*entity.IncidentLog, error) {
	if limit > len(r.logs) {
		limit = len(r.logs)
	}
	return r.logs[:limit], nil
}
