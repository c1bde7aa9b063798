package usecase

import (
	"context"
	"sync"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/pkg/utils"
)

// Boarding and runway lead times
const (
	BoardingWarningLead = 20 * time.Minute
	BoardingUrgentLead  = 10 * time.Minute
	RunwayCutoffLead    = 9 * time.Minute
)

// BoardingTimer measures a boarding against the scheduled departure
type BoardingTimer struct {
	mu        sync.Mutex
	planner   *AlertPlanner
	location  *time.Location
	clock     func() time.Time
	departure time.Time
	startedAt time.Time
	stoppedAt time.Time
	running   bool
}

// NewBoardingTimer creates a stopped timer. HH:MM inputs are read in location.
func NewBoardingTimer(planner *AlertPlanner, location *time.Location, clock func() time.Time) *BoardingTimer {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &BoardingTimer{planner: planner, location: location, clock: clock}
}

// Start begins timing a boarding for departure "HH:MM" today and plans the
// T-20 and T-10 alerts. Starting a running timer does nothing.
func (t *BoardingTimer) Start(ctx context.Context, departure string) error {
	now := t.clock()
	target, err := utils.DateTodayAt(departure, now, t.location)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil
	}
	t.departure = target
	t.startedAt = now
	t.stoppedAt = time.Time{}
	t.running = true
	t.mu.Unlock()

	t.planner.planAndLog(ctx, AlertRequest{
		Kind:    entity.AlertBoardingWarning,
		EventAt: target,
		FireAt:  target.Add(-BoardingWarningLead),
	})
	t.planner.planAndLog(ctx, AlertRequest{
		Kind:    entity.AlertBoardingUrgent,
		EventAt: target,
		FireAt:  target.Add(-BoardingUrgentLead),
	})
	return nil
}

// Stop freezes the elapsed time
func (t *BoardingTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	t.stoppedAt = t.clock()
}

// Running reports whether a boarding is being timed
func (t *BoardingTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Elapsed is the time since Start, frozen at Stop
func (t *BoardingTimer) Elapsed(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.startedAt.IsZero():
		return 0
	case t.running:
		return now.Sub(t.startedAt)
	default:
		return t.stoppedAt.Sub(t.startedAt)
	}
}

// Overrun reports whether a running boarding went past the departure
func (t *BoardingTimer) Overrun(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running && now.After(t.departure)
}

// RunwayTimer counts down to the T-9 cutoff before take-off
type RunwayTimer struct {
	planner  *AlertPlanner
	location *time.Location
	clock    func() time.Time
}

// NewRunwayTimer creates a runway timer. HH:MM inputs are read in location.
func NewRunwayTimer(planner *AlertPlanner, location *time.Location, clock func() time.Time) *RunwayTimer {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &RunwayTimer{planner: planner, location: location, clock: clock}
}

// RunwayRemaining is the time from now to T-9 before takeoff, floored at zero
func RunwayRemaining(takeoff, now time.Time) time.Duration {
	remaining := takeoff.Add(-RunwayCutoffLead).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Remaining returns the countdown for takeoff "HH:MM" today
func (r *RunwayTimer) Remaining(takeoff string, now time.Time) (time.Duration, error) {
	target, err := utils.DateTodayAt(takeoff, now, r.location)
	if err != nil {
		return 0, err
	}
	return RunwayRemaining(target, now), nil
}

// Plan schedules the T-9 alert for flight taking off at "HH:MM" today
func (r *RunwayTimer) Plan(ctx context.Context, flight, takeoff string) (*entity.Alert, error) {
	target, err := utils.DateTodayAt(takeoff, r.clock(), r.location)
	if err != nil {
		return nil, err
	}
	cutoff := target.Add(-RunwayCutoffLead)
	return r.planner.Plan(ctx, AlertRequest{
		Kind:    entity.AlertRunwayCutoff,
		Subject: utils.ToUpperAlnum(flight),
		EventAt: cutoff,
		FireAt:  cutoff,
	})
}
