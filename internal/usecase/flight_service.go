package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/domain/repository"
	"groundops-service/internal/store"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/utils"
)

// LandingLead is how long before the ETA the landing alert fires
const LandingLead = 15 * time.Minute

// FlightInput is what an agent types to start tracking a flight
type FlightInput struct {
	Code  string
	Route string // "REC/VCP", "REC" or empty
	ETA   time.Time
}

// FlightService tracks arrivals for the ramp team
type FlightService struct {
	flights        *store.Collection[entity.Flight]
	airlineRepo    repository.AirlineRepository
	timezoneRepo   repository.TimezoneRepository
	planner        *AlertPlanner
	stationAirport string
	fallbackLoc    *time.Location
	clock          func() time.Time
	logger         logger.Logger
}

// NewFlightService creates a new flight service. The repositories and the
// planner are optional.
func NewFlightService(
	flights *store.Collection[entity.Flight],
	airlineRepo repository.AirlineRepository,
	timezoneRepo repository.TimezoneRepository,
	planner *AlertPlanner,
	stationAirport string,
	fallbackLoc *time.Location,
	clock func() time.Time,
	logger logger.Logger,
) *FlightService {
	if clock == nil {
		clock = time.Now
	}
	if fallbackLoc == nil {
		fallbackLoc = time.UTC
	}
	return &FlightService{
		flights:        flights,
		airlineRepo:    airlineRepo,
		timezoneRepo:   timezoneRepo,
		planner:        planner,
		stationAirport: stationAirport,
		fallbackLoc:    fallbackLoc,
		clock:          clock,
		logger:         logger,
	}
}

// Store exposes the underlying collection
func (s *FlightService) Store() *store.Collection[entity.Flight] {
	return s.flights
}

// ParseRoute splits "ORIG/DEST" into upper-cased airport codes
func ParseRoute(route string) (origin, destination string) {
	route = strings.TrimSpace(route)
	if route == "" {
		return "", ""
	}
	if o, d, ok := strings.Cut(route, "/"); ok {
		return strings.ToUpper(strings.TrimSpace(o)), strings.ToUpper(strings.TrimSpace(d))
	}
	return strings.ToUpper(route), ""
}

// Add validates and stores a flight, then plans its landing alert
func (s *FlightService) Add(ctx context.Context, in FlightInput) (entity.Flight, error) {
	verr := &entity.ValidationError{Entity: "flight"}
	code := utils.ToUpperAlnum(in.Code)
	if code == "" {
		verr.Add("codigo", "flight code is required")
	}
	if in.ETA.IsZero() {
		verr.Add("eta", "arrival time is required")
	}
	if err := verr.OrNil(); err != nil {
		return entity.Flight{}, err
	}

	origin, destination := ParseRoute(in.Route)
	flight := entity.Flight{
		Code:        code,
		Origin:      origin,
		Destination: destination,
		ETA:         in.ETA,
		Airline:     s.airlineName(ctx, code),
		CreatedAt:   s.clock(),
	}

	if err := s.flights.Add(flight); err != nil {
		return entity.Flight{}, err
	}
	s.logger.Info("Flight added", "code", flight.Code, "eta", flight.ETA.Format(time.RFC3339))

	s.planner.planAndLog(ctx, AlertRequest{
		Kind:    entity.AlertFlightLanding,
		Subject: flight.Code,
		EventAt: flight.ETA,
		FireAt:  flight.ETA.Add(-LandingLead),
	})
	return flight, nil
}

// List returns the tracked flights in insertion order
func (s *FlightService) List() []entity.Flight {
	return s.flights.List()
}

// Remove deletes every flight with code, narrowed to one ETA when eta is set
func (s *FlightService) Remove(code string, eta *time.Time) (int, error) {
	code = utils.ToUpperAlnum(code)
	return s.flights.RemoveWhere(func(f entity.Flight) bool {
		if f.Code != code {
			return false
		}
		return eta == nil || f.ETA.UnixMilli() == eta.UnixMilli()
	})
}

// NextFlightLabel returns "CODE — HH:MM" of the nearest flight landing at or
// after now, or of the earliest flight when all are in the past. ok is
// false when no flight is tracked.
func (s *FlightService) NextFlightLabel(ctx context.Context, now time.Time) (string, bool) {
	flights := s.flights.List()
	if len(flights) == 0 {
		return "", false
	}

	sort.SliceStable(flights, func(i, j int) bool { return flights[i].ETA.Before(flights[j].ETA) })

	chosen := flights[0]
	for _, f := range flights {
		if !f.ETA.Before(now) {
			chosen = f
			break
		}
	}

	return chosen.Code + " — " + utils.FormatClock(chosen.ETA, s.stationLocation(ctx)), true
}

func (s *FlightService) airlineName(ctx context.Context, code string) string {
	if s.airlineRepo == nil || len(code) < 2 {
		return ""
	}
	airline, err := s.airlineRepo.GetByCode(ctx, code[:2])
	if err != nil {
		s.logger.Debug("Airline not found", "designator", code[:2], "error", err)
		return ""
	}
	return airline.Name
}

func (s *FlightService) stationLocation(ctx context.Context) *time.Location {
	if s.timezoneRepo == nil || s.stationAirport == "" {
		return s.fallbackLoc
	}
	tz, err := s.timezoneRepo.GetByAirportCode(ctx, s.stationAirport)
	if err != nil {
		s.logger.Debug("Station timezone not found", "airport", s.stationAirport, "error", err)
		return s.fallbackLoc
	}
	loc, err := tz.Location()
	if err != nil {
		return s.fallbackLoc
	}
	return loc
}
