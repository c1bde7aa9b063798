package api

import (
	"net/http"
	"strings"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/utils"
)

type flightRequest struct {
	Code  string `json:"codigo"`
	Route string `json:"rota"`
	// ETA is RFC 3339, or HH:MM today in the station zone
	ETA string `json:"eta"`
}

// FlightHandler serves the tracked arrivals
type FlightHandler struct {
	flights  *usecase.FlightService
	codec    mirror.Codec[entity.Flight]
	location *time.Location
	clock    func() time.Time
	logger   logger.Logger
}

// NewFlightHandler creates a new flight handler. HH:MM arrival times are
// read in location.
func NewFlightHandler(flights *usecase.FlightService, location *time.Location, clock func() time.Time, logger logger.Logger) *FlightHandler {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &FlightHandler{
		flights:  flights,
		codec:    mirror.FlightCodec(),
		location: location,
		clock:    clock,
		logger:   logger,
	}
}

// Register mounts the flight routes on mux
func (h *FlightHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /flights", h.list)
	mux.HandleFunc("POST /flights", h.add)
	mux.HandleFunc("DELETE /flights/{code}", h.remove)
}

func (h *FlightHandler) list(w http.ResponseWriter, r *http.Request) {
	writeRecords(w, http.StatusOK, h.codec, h.flights.List(), h.logger)
}

func (h *FlightHandler) add(w http.ResponseWriter, r *http.Request) {
	var req flightRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	flight, err := h.flights.Add(r.Context(), usecase.FlightInput{
		Code:  req.Code,
		Route: req.Route,
		ETA:   h.parseETA(req.ETA),
	})
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeRecord(w, http.StatusCreated, h.codec, flight, h.logger)
}

// remove deletes every flight with the code, or the one at ?eta= when given
func (h *FlightHandler) remove(w http.ResponseWriter, r *http.Request) {
	var eta *time.Time
	if raw := r.URL.Query().Get("eta"); raw != "" {
		t, ok := mirror.ParseTime(raw)
		if !ok {
			writeError(w, validationError("flight", "eta", "eta must be RFC 3339"), h.logger)
			return
		}
		eta = &t
	}

	removed, err := h.flights.Remove(r.PathValue("code"), eta)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed}, h.logger)
}

// parseETA returns the zero time for anything unreadable, which the service
// reports as a missing arrival time
func (h *FlightHandler) parseETA(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if t, ok := mirror.ParseTime(raw); ok {
		return t
	}
	t, err := utils.DateTodayAt(raw, h.clock(), h.location)
	if err != nil {
		return time.Time{}
	}
	return t
}
