package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/store"
	"groundops-service/pkg/logger"
)

// maxFormBody bounds the JSON body of the record endpoints
const maxFormBody = 64 << 10

type errorResponse struct {
	Error  string              `json:"error"`
	Issues []entity.FieldIssue `json:"issues,omitempty"`
}

// decodeJSON reads the body into v. It writes the 400 itself and reports
// whether the handler may go on.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, logger logger.Logger) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBody)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"}, logger)
		return false
	}
	return true
}

// writeError maps a store or validation error to its status code
func writeError(w http.ResponseWriter, err error, logger logger.Logger) {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid " + verr.Entity, Issues: verr.Issues}, logger)
	case errors.Is(err, store.ErrDuplicateKey):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()}, logger)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrUnknownTransition):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()}, logger)
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"}, logger)
	}
}

func validationError(entityName, field, message string) error {
	verr := &entity.ValidationError{Entity: entityName}
	verr.Add(field, message)
	return verr
}
