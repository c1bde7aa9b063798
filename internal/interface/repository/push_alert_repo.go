package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/domain/repository"
	"groundops-service/pkg/logger"
)

// ErrSchedulerDisabled is returned when no notification endpoint is configured
var ErrSchedulerDisabled = errors.New("alert scheduler not configured")

// PushAlertRepository schedules one-shot alerts on the notification service
type PushAlertRepository struct {
	logger      logger.Logger
	baseURL     string
	bearerToken string
	client      *http.Client
}

// NewPushAlertRepository creates a new push alert repository
func NewPushAlertRepository(baseURL, bearerToken string, logger logger.Logger) repository.AlertScheduler {
	return &PushAlertRepository{
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type scheduleAlertRequest struct {
	UserID     string `json:"userId"`
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	ScheduleAt string `json:"scheduleAt"`
}

// Schedule sends the alert and returns the task id assigned by the service
func (r *PushAlertRepository) Schedule(ctx context.Context, alert *entity.Alert) (string, error) {
	if r.baseURL == "" {
		return "", ErrSchedulerDisabled
	}

	scheduleAtUTC := alert.FireAt.UTC().Format(time.RFC3339)
	msg := scheduleAlertRequest{
		UserID:     alert.UserID,
		Kind:       string(alert.Kind),
		Title:      alert.Title,
		Body:       alert.Body,
		ScheduleAt: scheduleAtUTC,
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal alert: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/alerts/schedule", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("notification service returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			TaskID     string `json:"taskId"`
			Status     string `json:"status"`
			ScheduleAt string `json:"scheduleAt"`
		} `json:"data"`
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if !response.Success {
		return "", fmt.Errorf("failed to schedule alert: %s (code: %s)", response.Error.Message, response.Error.Code)
	}

	r.logger.Info("Alert scheduled",
		"taskId", response.Data.TaskID,
		"kind", alert.Kind,
		"subject", alert.Subject,
		"scheduleAt", scheduleAtUTC)

	return response.Data.TaskID, nil
}
