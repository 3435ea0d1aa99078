package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oneee-playground/crackdash/internal/job"
)

// JobEvent announces that a job reached a terminal status.
type JobEvent struct {
	ID            uuid.UUID  `json:"id"`
	JobID         string     `json:"jobID"`
	Name          string     `json:"name"`
	Status        job.Status `json:"status"`
	Owner         string     `json:"owner"`
	ToolID        string     `json:"toolID"`
	CrackedHashes int64      `json:"crackedHashes"`
	TotalHashes   int64      `json:"totalHashes"`
	At            time.Time  `json:"at"`
}

func NewJobEvent(j job.Job, at time.Time) JobEvent {
	return JobEvent{
		ID:            uuid.New(),
		JobID:         j.ID,
		Name:          j.Name,
		Status:        j.Status,
		Owner:         j.Owner,
		ToolID:        j.ToolID,
		CrackedHashes: j.CrackedHashes,
		TotalHashes:   j.TotalHashes,
		At:            at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e JobEvent) error
}

// NopPublisher drops every event. Used when no queue is configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, JobEvent) error { return nil }
