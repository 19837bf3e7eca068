package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/media"
	"github.com/fhuszti/videos-ms-go/internal/validation"
)

type ValidateStoryRequest struct {
	Path string `json:"path" validate:"required"`
}

type ValidateStoryResponse struct {
	Valid   bool    `json:"valid"`
	Seconds float64 `json:"seconds"`
}

// ValidateStoryHandler probes an uploaded file and tells whether it fits
// the story duration limit. It answers 200 either way.
func ValidateStoryHandler(svc port.StoryValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req ValidateStoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(ctx, w, http.StatusBadRequest, "invalid request payload", err)
			return
		}
		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(ctx, w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			respondValidationErrors(ctx, w, errsJSON)
			return
		}

		ok, seconds, err := svc.ValidateStoryVideo(ctx, req.Path)
		if err != nil {
			switch {
			case errors.Is(err, media.ErrSourceOutsideTemp):
				WriteError(ctx, w, http.StatusBadRequest, "path is outside the upload directory", err)
			case errors.Is(err, media.ErrSourceNotFound):
				WriteError(ctx, w, http.StatusNotFound, "File not found", err)
			case errors.Is(err, media.ErrProbeFailed),
				errors.Is(err, media.ErrProbeOutputMalformed):
				WriteError(ctx, w, http.StatusUnprocessableEntity, "could not read video duration", err)
			case errors.Is(err, media.ErrProbeTimeout):
				WriteError(ctx, w, http.StatusGatewayTimeout, "reading video duration timed out", err)
			default:
				WriteError(ctx, w, http.StatusInternalServerError, "could not validate story video", err)
			}
			return
		}

		RespondJSON(ctx, w, http.StatusOK, ValidateStoryResponse{Valid: ok, Seconds: seconds})
		logger.Infof(ctx, "✅  Story video %q lasts %.2fs (valid: %t)", req.Path, seconds, ok)
	}
}
