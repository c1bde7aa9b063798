package api

import (
	"encoding/json"
	"net/http"
	"time"

	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
)

// StatusResponse is the operational dashboard of the station
type StatusResponse struct {
	NextFlight string `json:"nextFlight,omitempty"`
	Flights    int    `json:"flights"`
	Processes  struct {
		Open    int `json:"open"`
		Expired int `json:"expired"`
	} `json:"processes"`
	Payments  int `json:"payments"`
	LostItems int `json:"lostItems"`
}

// StatusHandler serves the dashboard counters
type StatusHandler struct {
	flights   *usecase.FlightService
	processes *usecase.ProcessService
	payments  *usecase.PaymentService
	lostItems *usecase.LostItemService
	clock     func() time.Time
	logger    logger.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(
	flights *usecase.FlightService,
	processes *usecase.ProcessService,
	payments *usecase.PaymentService,
	lostItems *usecase.LostItemService,
	clock func() time.Time,
	logger logger.Logger,
) *StatusHandler {
	if clock == nil {
		clock = time.Now
	}
	return &StatusHandler{
		flights:   flights,
		processes: processes,
		payments:  payments,
		lostItems: lostItems,
		clock:     clock,
		logger:    logger,
	}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var resp StatusResponse
	if label, ok := h.flights.NextFlightLabel(r.Context(), h.clock()); ok {
		resp.NextFlight = label
	}
	resp.Flights = len(h.flights.List())
	summary := h.processes.Summary()
	resp.Processes.Open = summary.Open
	resp.Processes.Expired = summary.Expired
	resp.Payments = len(h.payments.List())
	resp.LostItems = len(h.lostItems.List())

	writeJSON(w, http.StatusOK, resp, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}, logger logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to write response", "error", err)
	}
}
