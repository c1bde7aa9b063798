package api

import (
	"net/http"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
)

type processRequest struct {
	Number   string `json:"processNumber"`
	Type     string `json:"tipo"`
	Customer string `json:"cliente"`
	PNR      string `json:"pnr"`
	Bag      string `json:"bag"`
	Damage   string `json:"dano"`
	Solution string `json:"solucao"`
}

// ProcessHandler serves the baggage claims and their status changes
type ProcessHandler struct {
	processes   *usecase.ProcessService
	codec       mirror.Codec[entity.Process]
	transitions map[string]func(string) error
	logger      logger.Logger
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(processes *usecase.ProcessService, logger logger.Logger) *ProcessHandler {
	return &ProcessHandler{
		processes: processes,
		codec:     mirror.ProcessCodec(),
		transitions: map[string]func(string) error{
			usecase.TransitionFinalize: processes.Finalize,
			usecase.TransitionObserve:  processes.Observe,
			usecase.TransitionReopen:   processes.Reopen,
			usecase.TransitionExpire:   processes.Expire,
		},
		logger: logger,
	}
}

// Register mounts the process routes on mux
func (h *ProcessHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /processes", h.list)
	mux.HandleFunc("POST /processes", h.add)
	mux.HandleFunc("GET /processes/{number}", h.get)
	mux.HandleFunc("POST /processes/{number}/{transition}", h.transition)
}

func (h *ProcessHandler) list(w http.ResponseWriter, r *http.Request) {
	writeRecords(w, http.StatusOK, h.codec, h.processes.List(), h.logger)
}

func (h *ProcessHandler) get(w http.ResponseWriter, r *http.Request) {
	proc, err := h.processes.Get(r.PathValue("number"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeRecord(w, http.StatusOK, h.codec, proc, h.logger)
}

func (h *ProcessHandler) add(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	proc, err := h.processes.Add(r.Context(), usecase.ProcessInput{
		Number:   req.Number,
		Type:     entity.ProcessType(req.Type),
		Customer: req.Customer,
		PNR:      req.PNR,
		Bag:      req.Bag,
		Damage:   req.Damage,
		Solution: entity.Solution(req.Solution),
	})
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeRecord(w, http.StatusCreated, h.codec, proc, h.logger)
}

// transition runs finalize, observe, reopen or expire and returns the claim
func (h *ProcessHandler) transition(w http.ResponseWriter, r *http.Request) {
	apply, ok := h.transitions[r.PathValue("transition")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown transition " + r.PathValue("transition")}, h.logger)
		return
	}

	number := r.PathValue("number")
	if err := apply(number); err != nil {
		writeError(w, err, h.logger)
		return
	}
	proc, err := h.processes.Get(number)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeRecord(w, http.StatusOK, h.codec, proc, h.logger)
}
