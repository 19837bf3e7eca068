package model

import "time"

type JobType string

const (
	JobTypeTranscode JobType = "video:transcode"
	JobTypeClassify  JobType = "video:classify"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// JobStage is the last state reached by a job before it returned.
type JobStage string

const (
	StageCreated        JobStage = "created"
	StageDirectoryReady JobStage = "directory_ready"
	StageTranscoded     JobStage = "transcoded"
	StageRecordUpdated  JobStage = "record_updated"
	StageCleaned        JobStage = "cleaned"

	StageProbed     JobStage = "probed"
	StageClassified JobStage = "classified"
)

type Job struct {
	ID          string      `json:"id"`
	Type        JobType     `json:"type"`
	ContentKind ContentKind `json:"content_kind"`
	ContentID   string      `json:"content_id"`
	MediaID     string      `json:"media_id"`
	Status      JobStatus   `json:"status"`
	Stage       JobStage    `json:"stage,omitempty"`
	Error       string      `json:"error,omitempty"`
	EnqueuedAt  time.Time   `json:"enqueued_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty"`
}

func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusSucceeded || j.Status == JobStatusFailed
}
