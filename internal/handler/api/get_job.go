package api

import (
	"fmt"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

func GetJobHandler(jobs port.JobStatusStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.JobIDFromContext(ctx)
		if !ok {
			WriteError(ctx, w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		job, err := jobs.Get(ctx, id)
		if err != nil {
			WriteError(ctx, w, http.StatusInternalServerError, fmt.Sprintf("could not read job #%s", id), err)
			return
		}
		if job == nil {
			WriteError(ctx, w, http.StatusNotFound, "Job not found", nil)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(ctx, w, http.StatusOK, job)
		logger.Debugf(ctx, "returned status %q for job #%s", job.Status, id)
	}
}
