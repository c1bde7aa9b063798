package api

import (
	"net/http"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
)

type paymentRequest struct {
	FlightCode    string  `json:"vooCodigo"`
	ProcessNumber string  `json:"processoNumero"`
	Amount        float64 `json:"valor"`
	Method        string  `json:"forma"`
	CardBrand     string  `json:"bandeira"`
	Installments  int     `json:"parcelas"`
}

// PaymentHandler serves the counter fees
type PaymentHandler struct {
	payments *usecase.PaymentService
	codec    mirror.Codec[entity.Payment]
	logger   logger.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *usecase.PaymentService, logger logger.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, codec: mirror.PaymentCodec(), logger: logger}
}

// Register mounts the payment routes on mux
func (h *PaymentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /payments", h.list)
	mux.HandleFunc("POST /payments", h.add)
	mux.HandleFunc("DELETE /payments/{id}", h.remove)
}

func (h *PaymentHandler) list(w http.ResponseWriter, r *http.Request) {
	writeRecords(w, http.StatusOK, h.codec, h.payments.List(), h.logger)
}

func (h *PaymentHandler) add(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	payment, err := h.payments.Add(usecase.PaymentInput{
		FlightCode:    req.FlightCode,
		ProcessNumber: req.ProcessNumber,
		Amount:        req.Amount,
		Method:        entity.PaymentMethod(req.Method),
		CardBrand:     req.CardBrand,
		Installments:  req.Installments,
	})
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeRecord(w, http.StatusCreated, h.codec, payment, h.logger)
}

func (h *PaymentHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.Remove(r.PathValue("id")); err != nil {
		writeError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
