package api

import (
	"net/http"
	"strings"

	"groundops-service/pkg/logger"
)

// SessionManager switches the agent whose records are mirrored
type SessionManager interface {
	CurrentUserID() (string, bool)
	SignIn(userID string)
	SignOut()
}

type sessionRequest struct {
	UserID string `json:"userId"`
}

type sessionResponse struct {
	UserID   string `json:"userId,omitempty"`
	SignedIn bool   `json:"signedIn"`
}

// SessionHandler signs the station agent in and out
type SessionHandler struct {
	session SessionManager
	logger  logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session SessionManager, logger logger.Logger) *SessionHandler {
	return &SessionHandler{session: session, logger: logger}
}

// Register mounts the session routes on mux
func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /session", h.current)
	mux.HandleFunc("POST /session", h.signIn)
	mux.HandleFunc("DELETE /session", h.signOut)
}

func (h *SessionHandler) current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state(), h.logger)
}

func (h *SessionHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, validationError("session", "userId", "user id is required and cannot contain '/'"), h.logger)
		return
	}

	h.session.SignIn(userID)
	h.logger.Info("Agent signed in", "user_id", userID)
	writeJSON(w, http.StatusOK, h.state(), h.logger)
}

func (h *SessionHandler) signOut(w http.ResponseWriter, r *http.Request) {
	h.session.SignOut()
	h.logger.Info("Agent signed out")
	writeJSON(w, http.StatusOK, h.state(), h.logger)
}

func (h *SessionHandler) state() sessionResponse {
	userID, ok := h.session.CurrentUserID()
	return sessionResponse{UserID: userID, SignedIn: ok}
}
