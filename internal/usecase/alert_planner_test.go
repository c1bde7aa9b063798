package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/pkg/utils"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAlertPlanner_Plan_RendersAndSchedules(t *testing.T) {
	now := testNow
	f := newPlannerFixture(&now)

	alert, err := f.planner.Plan(context.Background(), AlertRequest{
		Kind:    entity.AlertFlightLanding,
		Subject: "AD4518",
		EventAt: now.Add(75 * time.Minute),
		FireAt:  now.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, "flight_landing", alert.Title)
	// 13:15 UTC is 10:15 at the station
	assert.Equal(t, "AD4518@10:15", alert.Body)
	assert.Equal(t, now.Add(time.Hour), alert.FireAt)
	assert.Equal(t, "agent-7", alert.UserID)
	assert.Equal(t, "task-1", alert.TaskID)
	assert.Equal(t, entity.AlertStatusScheduled, alert.Status)

	f.scheduler.AssertNumberOfCalls(t, "Schedule", 1)
	require.Len(t, f.repo.alerts, 1)
	assert.Same(t, alert, f.repo.alerts[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AlertsScheduled.WithLabelValues("flight_landing")))
}

func TestAlertPlanner_Plan_EventDefaultsToTrigger(t *testing.T) {
	now := testNow
	f := newPlannerFixture(&now)

	alert, err := f.planner.Plan(context.Background(), AlertRequest{
		Kind:    entity.AlertRunwayCutoff,
		Subject: "G31234",
		FireAt:  now.Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, "G31234@09:30", alert.Body)
}

func TestAlertPlanner_Plan_ClampsPastTriggers(t *testing.T) {
	now := testNow
	f := newPlannerFixture(&now)

	for _, fireAt := range []time.Time{
		now.Add(-2 * time.Hour),
		now,
		now.Add(300 * time.Millisecond),
	} {
		alert, err := f.planner.Plan(context.Background(), AlertRequest{
			Kind:    entity.AlertProcessExpired,
			Subject: "MCZAD17656",
			FireAt:  fireAt,
		})
		require.NoError(t, err)
		assert.Equal(t, now.Add(utils.MinFutureDelay), alert.FireAt, "fireAt %s", fireAt)
	}
}

func TestAlertPlanner_Plan_PublicScopeWithoutIdentity(t *testing.T) {
	now := testNow
	scheduler := &MockScheduler{}
	scheduler.On("Schedule", mock.Anything, mock.Anything).Return("task-9", nil)
	planner := NewAlertPlanner(allKindsRouter(), scheduler, nil, staticIdentity(""), brt, fixedClock(&now), testLogger(), testMetrics())

	alert, err := planner.Plan(context.Background(), AlertRequest{
		Kind:    entity.AlertLostItemDeadline,
		Subject: "PIN0001",
		FireAt:  now.Add(240 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "public", alert.UserID)
}

func TestAlertPlanner_Plan_SchedulerFailureIsStillLogged(t *testing.T) {
	now := testNow
	scheduler := &MockScheduler{}
	scheduler.On("Schedule", mock.Anything, mock.Anything).Return("", errors.New("503 unavailable"))
	repo := &memoryAlertRepo{}
	m := testMetrics()
	planner := NewAlertPlanner(allKindsRouter(), scheduler, repo, nil, brt, fixedClock(&now), testLogger(), m)

	alert, err := planner.Plan(context.Background(), AlertRequest{
		Kind:    entity.AlertBoardingUrgent,
		Subject: "AD4518",
		FireAt:  now.Add(time.Hour),
	})
	require.Error(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, entity.AlertStatusFailed, alert.Status)
	require.Len(t, repo.alerts, 1)
	assert.Equal(t, entity.AlertStatusFailed, repo.alerts[0].Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsCount.WithLabelValues("alert_schedule")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.AlertsScheduled.WithLabelValues("boarding_urgent")))
}

func TestAlertPlanner_Plan_RepositoryFailureDoesNotFail(t *testing.T) {
	now := testNow
	f := newPlannerFixture(&now)
	f.repo.err = errors.New("connection reset")

	_, err := f.planner.Plan(context.Background(), AlertRequest{
		Kind:    entity.AlertFlightLanding,
		Subject: "AD4518",
		FireAt:  now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ErrorsCount.WithLabelValues("alert_save")))
}

func TestAlertPlanner_Plan_NoTemplate(t *testing.T) {
	now := testNow
	scheduler := &MockScheduler{}
	planner := NewAlertPlanner(&sliceRouter{}, scheduler, nil, nil, brt, fixedClock(&now), testLogger(), testMetrics())

	_, err := planner.Plan(context.Background(), AlertRequest{
		Kind:   entity.AlertFlightLanding,
		FireAt: now.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrNoTemplate)
	scheduler.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything)
}

func TestAlertPlanner_History(t *testing.T) {
	now := testNow
	f := newPlannerFixture(&now)
	ctx := context.Background()

	_, err := f.planner.Plan(ctx, AlertRequest{Kind: entity.AlertProcessNearDue, Subject: "MCZAD17656", FireAt: now.Add(96 * time.Hour)})
	require.NoError(t, err)
	_, err = f.planner.Plan(ctx, AlertRequest{Kind: entity.AlertFlightLanding, Subject: "AD4518", FireAt: now.Add(time.Hour)})
	require.NoError(t, err)

	history, err := f.planner.History(ctx, "MCZAD17656")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.AlertProcessNearDue, history[0].Kind)

	noRepo := NewAlertPlanner(allKindsRouter(), nil, nil, nil, nil, nil, testLogger(), testMetrics())
	history, err = noRepo.History(ctx, "MCZAD17656")
	assert.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, time.UTC, noRepo.Location())
}

func TestAlertPlanner_NilPlannerIsSilent(t *testing.T) {
	var planner *AlertPlanner
	assert.NotPanics(t, func() {
		planner.planAndLog(context.Background(), AlertRequest{Kind: entity.AlertFlightLanding})
	})
}
