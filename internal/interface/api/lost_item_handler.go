package api

import (
	"net/http"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
)

type lostItemRequest struct {
	Flight      string `json:"voo"`
	FoundOn     string `json:"data"`
	Location    string `json:"local"`
	Description string `json:"descricao"`
}

// LostItemHandler serves the lost-and-found register
type LostItemHandler struct {
	items  *usecase.LostItemService
	codec  mirror.Codec[entity.LostItem]
	logger logger.Logger
}

// NewLostItemHandler creates a new lost item handler
func NewLostItemHandler(items *usecase.LostItemService, logger logger.Logger) *LostItemHandler {
	return &LostItemHandler{items: items, codec: mirror.LostItemCodec(), logger: logger}
}

// Register mounts the lost item routes on mux
func (h *LostItemHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /lost-items", h.list)
	mux.HandleFunc("POST /lost-items", h.add)
	mux.HandleFunc("DELETE /lost-items/{pin}", h.remove)
}

func (h *LostItemHandler) list(w http.ResponseWriter, r *http.Request) {
	writeRecords(w, http.StatusOK, h.codec, h.items.List(), h.logger)
}

func (h *LostItemHandler) add(w http.ResponseWriter, r *http.Request) {
	var req lostItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	item, err := h.items.Add(r.Context(), usecase.LostItemInput{
		Flight:      req.Flight,
		FoundOn:     req.FoundOn,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeRecord(w, http.StatusCreated, h.codec, item, h.logger)
}

func (h *LostItemHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Remove(r.PathValue("pin")); err != nil {
		writeError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
