package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	} else {
		logger.Error(ctx, "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(ctx, w, status, ErrorResponse{Error: msg})
}

func RespondJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(ctx, "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(ctx context.Context, w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(ctx, "❌  Failed to write JSON payload: %v", err)
	}
}

// respondValidationErrors writes the failed fields of a validator error as a 400.
func respondValidationErrors(ctx context.Context, w http.ResponseWriter, errsJSON string) {
	RespondRawJSON(ctx, w, http.StatusBadRequest, []byte(errsJSON))
	logger.Errorf(ctx, "❌  Validation failed: %s", errsJSON)
}
