package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/domain/repository"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/metrics"
)

// ErrNoRecipient is returned when no safety mailbox is configured
var ErrNoRecipient = errors.New("incident recipient not configured")

// MaxAttachmentBytes bounds the total size of the photos sent with a report
const MaxAttachmentBytes = 20 << 20

// IncidentReporter sends ramp safety reports (AQD) to the safety mailbox
type IncidentReporter struct {
	mailer    repository.Mailer
	logRepo   repository.IncidentLogRepository
	recipient string
	clock     func() time.Time
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// NewIncidentReporter creates a new incident reporter. logRepo may be nil.
func NewIncidentReporter(
	mailer repository.Mailer,
	logRepo repository.IncidentLogRepository,
	recipient string,
	clock func() time.Time,
	logger logger.Logger,
	m *metrics.Metrics,
) *IncidentReporter {
	if clock == nil {
		clock = time.Now
	}
	return &IncidentReporter{
		mailer:    mailer,
		logRepo:   logRepo,
		recipient: recipient,
		clock:     clock,
		logger:    logger,
		metrics:   m,
	}
}

// ValidateIncident checks a report before it is sent
func ValidateIncident(report *entity.IncidentReport) error {
	verr := &entity.ValidationError{Entity: "incident"}
	if strings.TrimSpace(report.Description) == "" {
		verr.Add("descricao", "description is required")
	}
	if (report.Latitude == nil) != (report.Longitude == nil) {
		verr.Add("gps", "latitude and longitude go together")
	}
	if report.Latitude != nil && (*report.Latitude < -90 || *report.Latitude > 90) {
		verr.Add("gps", "latitude out of range")
	}
	if report.Longitude != nil && (*report.Longitude < -180 || *report.Longitude > 180) {
		verr.Add("gps", "longitude out of range")
	}

	total := 0
	for _, a := range report.Attachments {
		total += len(a.Data)
		if a.Filename == "" {
			verr.Add("anexos", "attachment without a file name")
		}
	}
	if total > MaxAttachmentBytes {
		verr.Add("anexos", fmt.Sprintf("attachments exceed %d bytes", MaxAttachmentBytes))
	}
	return verr.OrNil()
}

// Report validates and mails the report, returning the message id
func (r *IncidentReporter) Report(ctx context.Context, report *entity.IncidentReport) (string, error) {
	if r.recipient == "" {
		return "", ErrNoRecipient
	}
	if err := ValidateIncident(report); err != nil {
		return "", err
	}
	if report.Title == "" {
		report.Title = "AQD - Reporte de Segurança"
	}
	if report.OccurredAt.IsZero() {
		report.OccurredAt = r.clock()
	}

	messageID, sendErr := r.mailer.SendIncident(ctx, r.recipient, report)
	r.saveLog(ctx, report, messageID, sendErr)

	if sendErr != nil {
		r.metrics.ErrorsCount.WithLabelValues("incident_send").Inc()
		return "", fmt.Errorf("failed to send incident report: %w", sendErr)
	}

	r.logger.Info("Incident report sent",
		"messageId", messageID,
		"reporter", report.Reporter,
		"attachments", len(report.Attachments))
	return messageID, nil
}

func (r *IncidentReporter) saveLog(ctx context.Context, report *entity.IncidentReport, messageID string, sendErr error) {
	if r.logRepo == nil {
		return
	}
	log := &entity.IncidentLog{
		MessageID: messageID,
		Reporter:  report.Reporter,
		Title:     report.Title,
		Flight:    report.Flight,
		Recipient: r.recipient,
		Status:    entity.IncidentStatusSent,
		SentAt:    r.clock(),
	}
	if sendErr != nil {
		log.Status = entity.IncidentStatusFailed
		log.ErrorDetail = sendErr.Error()
	}
	if err := r.logRepo.Save(ctx, log); err != nil {
		r.logger.Error("Failed to save incident log", "error", err)
	}
}
