package entity

import "time"

// PaymentMethod is how a fee was paid
type PaymentMethod string

const (
	MethodCredit PaymentMethod = "CREDITO"
	MethodDebit  PaymentMethod = "DEBITO"
	MethodPIX    PaymentMethod = "PIX"
)

// CurrencyBRL is the only accepted currency
const CurrencyBRL = "BRL"

// Payment is a fee charged at the counter, linked to a flight or a claim
type Payment struct {
	ID            string
	FlightCode    string
	ProcessNumber string
	Amount        float64
	Currency      string
	Method        PaymentMethod
	CardBrand     string
	Installments  int
	CreatedAt     time.Time
}

// ValidPaymentMethod reports whether m is a known method
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCredit, MethodDebit, MethodPIX:
		return true
	}
	return false
}
