package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/domain/repository"
	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/metrics"
	"groundops-service/pkg/utils"
)

// ErrNoTemplate is returned when no template renders an alert kind
var ErrNoTemplate = errors.New("no template for alert kind")

// AlertPlanner turns domain deadlines into scheduled one-shot alerts
type AlertPlanner struct {
	router    TemplateRouter
	scheduler repository.AlertScheduler
	alertRepo repository.AlertRepository
	identity  repository.IdentityProvider
	location  *time.Location
	clock     func() time.Time
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// NewAlertPlanner creates a new alert planner. alertRepo may be nil when no
// database is configured.
func NewAlertPlanner(
	router TemplateRouter,
	scheduler repository.AlertScheduler,
	alertRepo repository.AlertRepository,
	identity repository.IdentityProvider,
	location *time.Location,
	clock func() time.Time,
	logger logger.Logger,
	m *metrics.Metrics,
) *AlertPlanner {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &AlertPlanner{
		router:    router,
		scheduler: scheduler,
		alertRepo: alertRepo,
		identity:  identity,
		location:  location,
		clock:     clock,
		logger:    logger,
		metrics:   m,
	}
}

// Location returns the station time zone used to render clock times
func (p *AlertPlanner) Location() *time.Location {
	return p.location
}

// AlertRequest describes one alert to plan
type AlertRequest struct {
	Kind    entity.AlertKind
	Subject string
	// EventAt is the instant the message talks about; defaults to FireAt
	EventAt time.Time
	FireAt  time.Time
}

// Plan renders and schedules an alert. A trigger in the past, or less than
// a second away, is moved to one second from now. The alert is logged even
// when the scheduler fails.
func (p *AlertPlanner) Plan(ctx context.Context, req AlertRequest) (*entity.Alert, error) {
	kind, subject, fireAt := req.Kind, req.Subject, req.FireAt
	eventAt := req.EventAt
	if eventAt.IsZero() {
		eventAt = fireAt
	}

	template := p.router.GetTemplate(kind)
	if template == nil {
		return nil, fmt.Errorf("%s: %w", kind, ErrNoTemplate)
	}

	now := p.clock()
	facts := entity.AlertFacts{
		Kind:    kind,
		Subject: subject,
		Clock:   utils.FormatClock(eventAt, p.location),
	}
	title, body := template.Render(facts)

	userID := mirror.PublicScope
	if p.identity != nil {
		if id, ok := p.identity.CurrentUserID(); ok {
			userID = id
		}
	}

	alert := &entity.Alert{
		Kind:    kind,
		Subject: subject,
		UserID:  userID,
		Title:   title,
		Body:    body,
		FireAt:  utils.ClampFuture(fireAt, now),
		Status:  entity.AlertStatusScheduled,
	}

	var scheduleErr error
	if p.scheduler != nil {
		taskID, err := p.scheduler.Schedule(ctx, alert)
		if err != nil {
			scheduleErr = fmt.Errorf("failed to schedule %s alert for %s: %w", kind, subject, err)
			alert.Status = entity.AlertStatusFailed
			p.metrics.ErrorsCount.WithLabelValues("alert_schedule").Inc()
		}
		alert.TaskID = taskID
	}

	if p.alertRepo != nil {
		if err := p.alertRepo.Create(ctx, alert); err != nil {
			p.logger.Error("Failed to save alert", "kind", kind, "subject", subject, "error", err)
			p.metrics.ErrorsCount.WithLabelValues("alert_save").Inc()
		}
	}

	if scheduleErr != nil {
		return alert, scheduleErr
	}

	p.metrics.AlertsScheduled.WithLabelValues(string(kind)).Inc()
	p.logger.Debug("Alert planned",
		"kind", kind,
		"subject", subject,
		"fireAt", alert.FireAt.Format(time.RFC3339))
	return alert, nil
}

// History returns the alerts planned for subject, earliest first
func (p *AlertPlanner) History(ctx context.Context, subject string) ([]*entity.Alert, error) {
	if p.alertRepo == nil {
		return nil, nil
	}
	return p.alertRepo.FindBySubject(ctx, subject)
}

// planAndLog plans an alert and logs failures; alerts never fail a mutation
func (p *AlertPlanner) planAndLog(ctx context.Context, req AlertRequest) {
	if p == nil {
		return
	}
	if _, err := p.Plan(ctx, req); err != nil {
		p.logger.Warn("Alert not scheduled", "kind", req.Kind, "subject", req.Subject, "error", err)
	}
}
