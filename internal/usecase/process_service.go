package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/store"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/utils"
)

// Process number bounds after sanitation
const (
	ProcessNumberMinLen = 5
	ProcessNumberMaxLen = 20
)

// ProcessInput is the claim form filled by the agent
type ProcessInput struct {
	Number   string
	Type     entity.ProcessType
	Customer string
	PNR      string
	Bag      string
	Damage   string
	Solution entity.Solution
}

// ProcessService manages baggage claims
type ProcessService struct {
	processes *store.Collection[entity.Process]
	planner   *AlertPlanner
	clock     func() time.Time
	logger    logger.Logger
}

// NewProcessService creates a new process service
func NewProcessService(processes *store.Collection[entity.Process], planner *AlertPlanner, clock func() time.Time, logger logger.Logger) *ProcessService {
	if clock == nil {
		clock = time.Now
	}
	return &ProcessService{
		processes: processes,
		planner:   planner,
		clock:     clock,
		logger:    logger,
	}
}

// Store exposes the underlying collection
func (s *ProcessService) Store() *store.Collection[entity.Process] {
	return s.processes
}

// ValidateProcess checks the form and returns the sanitized process number
func ValidateProcess(in ProcessInput) (string, error) {
	verr := &entity.ValidationError{Entity: "process"}

	number := utils.ToUpperAlnum(in.Number)
	switch {
	case len(number) < ProcessNumberMinLen:
		verr.Add("processNumber", "number too short")
	case len(number) > ProcessNumberMaxLen:
		verr.Add("processNumber", "number too long")
	case !utils.IsUpperAlnum(number):
		verr.Add("processNumber", "use only upper-case letters and digits")
	}

	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	switch in.Type {
	case entity.ProcessAHL:
		if blank(in.Customer) {
			verr.Add("cliente", "customer is required for AHL")
		}
		if blank(in.PNR) {
			verr.Add("pnr", "PNR is required for AHL")
		}
		if blank(in.Bag) {
			verr.Add("bag", "bag description is required for AHL")
		}
	case entity.ProcessDPR:
		if blank(in.Damage) {
			verr.Add("dano", "damage description is required for DPR")
		}
		if in.Solution == "" {
			verr.Add("solucao", "solution is required for DPR")
		}
	case entity.ProcessOHD:
		if blank(in.Bag) {
			verr.Add("bag", "bag description is required for OHD")
		}
	default:
		verr.Add("tipo", "type must be AHL, DPR or OHD")
	}

	if in.Solution != "" && !entity.ValidSolution(in.Solution) {
		verr.Add("solucao", "unknown solution")
	}

	return number, verr.OrNil()
}

// Add validates and opens a claim, then plans its deadline alerts
func (s *ProcessService) Add(ctx context.Context, in ProcessInput) (entity.Process, error) {
	number, err := ValidateProcess(in)
	if err != nil {
		return entity.Process{}, err
	}

	proc := entity.Process{
		Number:    number,
		Type:      in.Type,
		Status:    entity.StatusOpen,
		Customer:  strings.TrimSpace(in.Customer),
		PNR:       strings.ToUpper(strings.TrimSpace(in.PNR)),
		Bag:       strings.TrimSpace(in.Bag),
		Damage:    strings.TrimSpace(in.Damage),
		Solution:  in.Solution,
		CreatedAt: s.clock(),
	}

	if err := s.processes.Add(proc); err != nil {
		return entity.Process{}, err
	}
	s.logger.Info("Process opened", "processNumber", proc.Number, "type", proc.Type)

	s.planner.planAndLog(ctx, AlertRequest{
		Kind:    entity.AlertProcessNearDue,
		Subject: proc.Number,
		FireAt:  proc.CreatedAt.Add(entity.ProcessWarning),
	})
	s.planner.planAndLog(ctx, AlertRequest{
		Kind:    entity.AlertProcessExpired,
		Subject: proc.Number,
		FireAt:  proc.CreatedAt.Add(entity.ProcessExpiry),
	})
	return proc, nil
}

// List returns the claims in insertion order
func (s *ProcessService) List() []entity.Process {
	return s.processes.List()
}

// Get returns one claim
func (s *ProcessService) Get(number string) (entity.Process, error) {
	return s.processes.Get(utils.ToUpperAlnum(number))
}

// Finalize closes the claim and stamps FinalizedAt
func (s *ProcessService) Finalize(number string) error {
	return s.transition(TransitionFinalize, number)
}

// Observe puts the claim under observation
func (s *ProcessService) Observe(number string) error {
	return s.transition(TransitionObserve, number)
}

// Reopen moves the claim back to open
func (s *ProcessService) Reopen(number string) error {
	return s.transition(TransitionReopen, number)
}

// Expire marks the claim as overdue
func (s *ProcessService) Expire(number string) error {
	return s.transition(TransitionExpire, number)
}

func (s *ProcessService) transition(name, number string) error {
	number = utils.ToUpperAlnum(number)
	if err := s.processes.Apply(name, number); err != nil {
		return err
	}
	s.logger.Info("Process updated", "processNumber", number, "transition", name)
	return nil
}

// Summary counts active and expired claims
func (s *ProcessService) Summary() entity.ProcessSummary {
	var sum entity.ProcessSummary
	for _, p := range s.processes.List() {
		switch {
		case p.IsActive():
			sum.Open++
		case p.Status == entity.StatusExpired:
			sum.Expired++
		}
	}
	return sum
}

// ExpireOverdue expires every active claim older than the expiry window and
// returns how many changed.
func (s *ProcessService) ExpireOverdue(now time.Time) (int, error) {
	expired := 0
	for _, p := range s.processes.List() {
		if !p.IsActive() || now.Sub(p.CreatedAt) < entity.ProcessExpiry {
			continue
		}
		if err := s.processes.Apply(TransitionExpire, p.Number); err != nil {
			// removed by a remote update since the snapshot was taken
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return expired, err
		}
		expired++
	}
	if expired > 0 {
		s.logger.Info("Expired overdue processes", "count", expired)
	}
	return expired, nil
}
