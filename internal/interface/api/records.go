package api

import (
	"encoding/json"
	"net/http"

	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/pkg/logger"
)

// Records are served in their mirror document format, so API clients and
// mobile clients read the same field names.

func writeRecords[T any](w http.ResponseWriter, status int, codec mirror.Codec[T], records []T, logger logger.Logger) {
	data, err := codec.Encode(records)
	if err != nil {
		logger.Error("Failed to encode records", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"}, logger)
		return
	}
	writeJSON(w, status, json.RawMessage(data), logger)
}

func writeRecord[T any](w http.ResponseWriter, status int, codec mirror.Codec[T], rec T, logger logger.Logger) {
	data, err := codec.Encode([]T{rec})
	if err == nil {
		var docs []json.RawMessage
		if err = json.Unmarshal(data, &docs); err == nil && len(docs) == 1 {
			writeJSON(w, status, docs[0], logger)
			return
		}
	}
	logger.Error("Failed to encode record", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"}, logger)
}
