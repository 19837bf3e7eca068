package middleware

import (
	"fmt"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/handler/api"
	msuuid "github.com/fhuszti/videos-ms-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

// WithJobID reads the {id} route parameter, checks it is a job id and puts it in the context.
func WithJobID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "" {
				api.WriteError(r.Context(), w, http.StatusBadRequest, "ID is required", nil)
				return
			}
			if !msuuid.IsValid(id) {
				api.WriteError(r.Context(), w, http.StatusBadRequest, fmt.Sprintf("ID %q is not a valid job id", id), nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(api_context.WithJobID(r.Context(), id)))
		})
	}
}
