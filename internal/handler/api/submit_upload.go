package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/media"
	"github.com/fhuszti/videos-ms-go/internal/validation"
)

type SubmitUploadItemRequest struct {
	MediaID    string `json:"media_id" validate:"required"`
	SourcePath string `json:"source_path" validate:"required"`
	Kind       string `json:"kind" validate:"required,oneof=image video"`
}

type SubmitUploadRequest struct {
	ContentKind string                    `json:"content_kind" validate:"required,oneof=post story"`
	ContentID   string                    `json:"content_id" validate:"required,pathsegment"`
	OwnerID     string                    `json:"owner_id" validate:"required,pathsegment"`
	Items       []SubmitUploadItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SubmitUploadHandler accepts the files of a freshly written upload and
// answers 202 with the ids of the dispatched jobs.
func SubmitUploadHandler(svc port.UploadSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req SubmitUploadRequest
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

		in := port.SubmitUploadInput{
			ContentKind: model.ContentKind(req.ContentKind),
			ContentID:   req.ContentID,
			OwnerID:     req.OwnerID,
			Items:       make([]port.SubmitUploadItem, 0, len(req.Items)),
		}
		for _, it := range req.Items {
			in.Items = append(in.Items, port.SubmitUploadItem{
				MediaID:    it.MediaID,
				SourcePath: it.SourcePath,
				Kind:       model.MediaKind(it.Kind),
			})
		}

		out, err := svc.SubmitUpload(ctx, in)
		if err != nil {
			switch {
			case errors.Is(err, media.ErrSourceOutsideTemp),
				errors.Is(err, media.ErrInvalidPathSegment),
				errors.Is(err, media.ErrInvalidUpload):
				WriteError(ctx, w, http.StatusBadRequest, err.Error(), nil)
			default:
				WriteError(ctx, w, http.StatusInternalServerError, fmt.Sprintf("could not submit upload of %s #%s", in.ContentKind, in.ContentID), err)
			}
			return
		}

		RespondJSON(ctx, w, http.StatusAccepted, out)
		logger.Infof(ctx, "✅  Successfully submitted %d job(s) for %s #%s", len(out.Jobs), in.ContentKind, in.ContentID)
	}
}
