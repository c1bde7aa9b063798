package usecase

import (
	"strings"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/store"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/utils"

	"github.com/google/uuid"
)

// PaymentInput is a fee charged at the counter
type PaymentInput struct {
	FlightCode    string
	ProcessNumber string
	Amount        float64
	Method        entity.PaymentMethod
	CardBrand     string
	Installments  int
}

// PaymentService records fees linked to flights or claims
type PaymentService struct {
	payments *store.Collection[entity.Payment]
	clock    func() time.Time
	newID    func() string
	logger   logger.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(payments *store.Collection[entity.Payment], clock func() time.Time, logger logger.Logger) *PaymentService {
	if clock == nil {
		clock = time.Now
	}
	return &PaymentService{
		payments: payments,
		clock:    clock,
		newID:    uuid.NewString,
		logger:   logger,
	}
}

// Store exposes the underlying collection
func (s *PaymentService) Store() *store.Collection[entity.Payment] {
	return s.payments
}

// ValidatePayment checks the fee before it is stored
func ValidatePayment(in PaymentInput) error {
	verr := &entity.ValidationError{Entity: "payment"}

	if strings.TrimSpace(in.FlightCode) == "" && strings.TrimSpace(in.ProcessNumber) == "" {
		verr.Add("vooCodigo", "a flight or a process is required")
	}
	if in.Amount <= 0 {
		verr.Add("valor", "amount must be positive")
	}
	if !entity.ValidPaymentMethod(in.Method) {
		verr.Add("forma", "method must be CREDITO, DEBITO or PIX")
	}
	if in.Method == entity.MethodPIX && in.CardBrand != "" {
		verr.Add("bandeira", "card brand only applies to card payments")
	}
	if in.Installments != 0 && in.Method != entity.MethodCredit {
		verr.Add("parcelas", "installments only apply to credit")
	}
	if in.Installments < 0 {
		verr.Add("parcelas", "installments must be at least 1")
	}

	return verr.OrNil()
}

// Add validates and records a payment under a fresh id
func (s *PaymentService) Add(in PaymentInput) (entity.Payment, error) {
	if err := ValidatePayment(in); err != nil {
		return entity.Payment{}, err
	}

	payment := entity.Payment{
		ID:            s.newID(),
		FlightCode:    utils.ToUpperAlnum(in.FlightCode),
		ProcessNumber: utils.ToUpperAlnum(in.ProcessNumber),
		Amount:        in.Amount,
		Currency:      entity.CurrencyBRL,
		Method:        in.Method,
		CardBrand:     strings.TrimSpace(in.CardBrand),
		Installments:  in.Installments,
		CreatedAt:     s.clock(),
	}
	if payment.Method == entity.MethodCredit && payment.Installments == 0 {
		payment.Installments = 1
	}

	if err := s.payments.Add(payment); err != nil {
		return entity.Payment{}, err
	}
	s.logger.Info("Payment recorded", "id", payment.ID, "amount", payment.Amount, "method", payment.Method)
	return payment, nil
}

// List returns the payments in insertion order
func (s *PaymentService) List() []entity.Payment {
	return s.payments.List()
}

// Remove deletes the payment with id
func (s *PaymentService) Remove(id string) error {
	_, err := s.payments.RemoveWhere(func(p entity.Payment) bool { return p.ID == id })
	return err
}
