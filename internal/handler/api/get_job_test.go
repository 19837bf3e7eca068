package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/model"
)

func TestGetJobHandler(t *testing.T) {
	const id = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	tests := []struct {
		name       string
		ctxID      bool
		jobs       *mock.MockJobStore
		wantStatus int
	}{
		{"missing id", false, &mock.MockJobStore{}, http.StatusBadRequest},
		{"store error", true, &mock.MockJobStore{GetErr: errors.New("redis down")}, http.StatusInternalServerError},
		{"unknown job", true, &mock.MockJobStore{}, http.StatusNotFound},
		{"found", true, &mock.MockJobStore{Jobs: map[string]model.Job{
			id: {ID: id, Type: model.JobTypeTranscode, Status: model.JobStatusFailed, Stage: model.StageDirectoryReady, Error: "transcode: timed out"},
		}}, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/jobs/"+id, nil)
			if tc.ctxID {
				req = req.WithContext(api_context.WithJobID(context.Background(), id))
			}
			rec := httptest.NewRecorder()
			GetJobHandler(tc.jobs)(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}
			var job model.Job
			if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if job.Status != model.JobStatusFailed || job.Stage != model.StageDirectoryReady || job.Error == "" {
				t.Errorf("job = %+v", job)
			}
		})
	}
}
