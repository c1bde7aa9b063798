package usecase

import (
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/internal/store"
)

// Process transitions
const (
	TransitionFinalize = "finalize"
	TransitionObserve  = "observe"
	TransitionReopen   = "reopen"
	TransitionExpire   = "expire"
)

// NewFlightStore builds the flight collection, keyed by code and ETA
func NewFlightStore(clock func() time.Time) *store.Collection[entity.Flight] {
	return store.New(store.Config[entity.Flight]{
		Name:  mirror.CollectionFlights,
		Key:   entity.Flight.Key,
		Clock: clock,
	})
}

// NewProcessStore builds the process collection with its status transitions
func NewProcessStore(clock func() time.Time) *store.Collection[entity.Process] {
	return store.New(store.Config[entity.Process]{
		Name:  mirror.CollectionProcesses,
		Key:   func(p entity.Process) string { return p.Number },
		Clone: entity.Process.Clone,
		Transitions: map[string]store.Transition[entity.Process]{
			TransitionFinalize: func(p *entity.Process, now time.Time) error {
				p.Status = entity.StatusFinalized
				p.FinalizedAt = &now
				return nil
			},
			TransitionObserve: func(p *entity.Process, _ time.Time) error {
				p.Status = entity.StatusUnderObservation
				return nil
			},
			TransitionReopen: func(p *entity.Process, _ time.Time) error {
				p.Status = entity.StatusOpen
				p.FinalizedAt = nil
				return nil
			},
			TransitionExpire: func(p *entity.Process, _ time.Time) error {
				p.Status = entity.StatusExpired
				return nil
			},
		},
		Clock: clock,
	})
}

// NewPaymentStore builds the payment collection, keyed by id
func NewPaymentStore(clock func() time.Time) *store.Collection[entity.Payment] {
	return store.New(store.Config[entity.Payment]{
		Name:  mirror.CollectionPayments,
		Key:   func(p entity.Payment) string { return p.ID },
		Clock: clock,
	})
}

// NewLostItemStore builds the lost-and-found collection, keyed by id
func NewLostItemStore(clock func() time.Time) *store.Collection[entity.LostItem] {
	return store.New(store.Config[entity.LostItem]{
		Name:  mirror.CollectionLostItems,
		Key:   func(i entity.LostItem) string { return i.ID },
		Clock: clock,
	})
}
