package api

import (
	"net/http"
	"time"

	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/utils"
)

type boardingRequest struct {
	Departure string `json:"departure"` // HH:MM
}

type boardingResponse struct {
	Running        bool  `json:"running"`
	ElapsedSeconds int64 `json:"elapsedSeconds"`
	Overrun        bool  `json:"overrun"`
}

type runwayRequest struct {
	Flight  string `json:"flight"`
	Takeoff string `json:"takeoff"` // HH:MM
}

type runwayResponse struct {
	Flight           string `json:"flight"`
	RemainingSeconds int64  `json:"remainingSeconds"`
	AlertAt          string `json:"alertAt"`
	AlertTitle       string `json:"alertTitle"`
	TaskID           string `json:"taskId,omitempty"`
}

// TimerHandler drives the boarding stopwatch and the runway countdown
type TimerHandler struct {
	boarding *usecase.BoardingTimer
	runway   *usecase.RunwayTimer
	clock    func() time.Time
	logger   logger.Logger
}

// NewTimerHandler creates a new timer handler
func NewTimerHandler(boarding *usecase.BoardingTimer, runway *usecase.RunwayTimer, clock func() time.Time, logger logger.Logger) *TimerHandler {
	if clock == nil {
		clock = time.Now
	}
	return &TimerHandler{boarding: boarding, runway: runway, clock: clock, logger: logger}
}

// Register mounts the timer routes on mux
func (h *TimerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /timers/boarding", h.boardingState)
	mux.HandleFunc("POST /timers/boarding", h.startBoarding)
	mux.HandleFunc("DELETE /timers/boarding", h.stopBoarding)
	mux.HandleFunc("POST /timers/runway", h.planRunway)
}

func (h *TimerHandler) boardingState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.boardingStatus(), h.logger)
}

func (h *TimerHandler) startBoarding(w http.ResponseWriter, r *http.Request) {
	var req boardingRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if _, _, err := utils.ParseClock(req.Departure); err != nil {
		writeError(w, validationError("boarding", "departure", err.Error()), h.logger)
		return
	}

	if err := h.boarding.Start(r.Context(), req.Departure); err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.boardingStatus(), h.logger)
}

func (h *TimerHandler) stopBoarding(w http.ResponseWriter, r *http.Request) {
	h.boarding.Stop()
	writeJSON(w, http.StatusOK, h.boardingStatus(), h.logger)
}

func (h *TimerHandler) boardingStatus() boardingResponse {
	now := h.clock()
	return boardingResponse{
		Running:        h.boarding.Running(),
		ElapsedSeconds: int64(h.boarding.Elapsed(now) / time.Second),
		Overrun:        h.boarding.Overrun(now),
	}
}

// planRunway schedules the cutoff alert and returns the countdown
func (h *TimerHandler) planRunway(w http.ResponseWriter, r *http.Request) {
	var req runwayRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	remaining, err := h.runway.Remaining(req.Takeoff, h.clock())
	if err != nil {
		writeError(w, validationError("runway", "takeoff", err.Error()), h.logger)
		return
	}

	alert, err := h.runway.Plan(r.Context(), req.Flight, req.Takeoff)
	if err != nil {
		h.logger.Error("Failed to plan runway alert", "flight", req.Flight, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to schedule alert"}, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, runwayResponse{
		Flight:           alert.Subject,
		RemainingSeconds: int64(remaining / time.Second),
		AlertAt:          mirror.FormatTime(alert.FireAt),
		AlertTitle:       alert.Title,
		TaskID:           alert.TaskID,
	}, h.logger)
}
