package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFallbackHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFoundHandler()(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("not found status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	MethodNotAllowedHandler()(rec, httptest.NewRequest(http.MethodDelete, "/uploads", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("method not allowed status = %d", rec.Code)
	}
}
