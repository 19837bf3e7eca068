package api

import (
	"fmt"
	"net/http"
)

func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(r.Context(), w, http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("no route for %s", r.URL.Path)})
	}
}

func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(r.Context(), w, http.StatusMethodNotAllowed, ErrorResponse{Error: fmt.Sprintf("method %s is not allowed here", r.Method)})
	}
}
