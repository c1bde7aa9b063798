package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
)

// maxIncidentBody bounds the request, attachments included, after base64
const maxIncidentBody = usecase.MaxAttachmentBytes*4/3 + 1<<20

type incidentRequest struct {
	Reporter    string     `json:"reporter"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Flight      string     `json:"flight"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	OccurredAt  *time.Time `json:"occurredAt"`
	Attachments []struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
		Data        []byte `json:"data"` // base64
	} `json:"attachments"`
}

// IncidentHandler accepts safety incident reports
type IncidentHandler struct {
	reporter *usecase.IncidentReporter
	logger   logger.Logger
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(reporter *usecase.IncidentReporter, logger logger.Logger) *IncidentHandler {
	return &IncidentHandler{reporter: reporter, logger: logger}
}

func (h *IncidentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req incidentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIncidentBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"}, h.logger)
		return
	}

	report := &entity.IncidentReport{
		Reporter:    req.Reporter,
		Title:       req.Title,
		Description: req.Description,
		Flight:      req.Flight,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if req.OccurredAt != nil {
		report.OccurredAt = *req.OccurredAt
	}
	for _, a := range req.Attachments {
		report.Attachments = append(report.Attachments, entity.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Data:        a.Data,
		})
	}

	messageID, err := h.reporter.Report(r.Context(), report)
	if err != nil {
		var verr *entity.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid incident", Issues: verr.Issues}, h.logger)
		case errors.Is(err, usecase.ErrNoRecipient):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()}, h.logger)
		default:
			h.logger.Error("Failed to report incident", "error", err)
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to send report"}, h.logger)
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"messageId": messageID}, h.logger)
}
