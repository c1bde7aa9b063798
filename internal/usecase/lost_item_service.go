package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/store"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/utils"

	"github.com/google/uuid"
)

// LostItemInput is a found property registered by the agent
type LostItemInput struct {
	Flight      string
	FoundOn     string // YYYY-MM-DD
	Location    string
	Description string
}

// LostItemService keeps the lost-and-found register
type LostItemService struct {
	mu      sync.Mutex
	items   *store.Collection[entity.LostItem]
	planner *AlertPlanner
	clock   func() time.Time
	logger  logger.Logger
}

// NewLostItemService creates a new lost item service
func NewLostItemService(items *store.Collection[entity.LostItem], planner *AlertPlanner, clock func() time.Time, logger logger.Logger) *LostItemService {
	if clock == nil {
		clock = time.Now
	}
	return &LostItemService{
		items:   items,
		planner: planner,
		clock:   clock,
		logger:  logger,
	}
}

// Store exposes the underlying collection
func (s *LostItemService) Store() *store.Collection[entity.LostItem] {
	return s.items
}

// Add registers an item under the next PIN and plans its retention alert
func (s *LostItemService) Add(ctx context.Context, in LostItemInput) (entity.LostItem, error) {
	verr := &entity.ValidationError{Entity: "lost item"}
	if strings.TrimSpace(in.Flight) == "" {
		verr.Add("voo", "flight is required")
	}
	if _, err := time.Parse(utils.DATE_LAYOUT, strings.TrimSpace(in.FoundOn)); err != nil {
		verr.Add("data", "date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(in.Location) == "" {
		verr.Add("local", "location is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		verr.Add("descricao", "description is required")
	}
	if err := verr.OrNil(); err != nil {
		return entity.LostItem{}, err
	}

	s.mu.Lock()
	item := entity.LostItem{
		ID:          uuid.NewString(),
		PIN:         entity.FormatPIN(s.nextSequence()),
		Flight:      utils.ToUpperAlnum(in.Flight),
		FoundOn:     strings.TrimSpace(in.FoundOn),
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.clock(),
	}

	err := s.items.Add(item)
	s.mu.Unlock()
	if err != nil {
		return entity.LostItem{}, err
	}
	s.logger.Info("Lost item registered", "pin", item.PIN, "flight", item.Flight)

	s.planner.planAndLog(ctx, AlertRequest{
		Kind:    entity.AlertLostItemDeadline,
		Subject: item.PIN,
		FireAt:  item.CreatedAt.Add(entity.LostItemRetention),
	})
	return item, nil
}

// List returns the register in insertion order
func (s *LostItemService) List() []entity.LostItem {
	return s.items.List()
}

// Remove deletes the item with the given PIN
func (s *LostItemService) Remove(pin string) error {
	pin = strings.ToUpper(strings.TrimSpace(pin))
	_, err := s.items.RemoveWhere(func(i entity.LostItem) bool { return i.PIN == pin })
	return err
}

// nextSequence continues after the highest PIN in the register, so PINs
// stay unique after removals and remote reloads
func (s *LostItemService) nextSequence() int {
	highest := 0
	for _, item := range s.items.List() {
		if !strings.HasPrefix(item.PIN, "PIN") {
			continue
		}
		if n := utils.ParseInt(strings.TrimPrefix(item.PIN, "PIN")); n > highest {
			highest = n
		}
	}
	return highest + 1
}
