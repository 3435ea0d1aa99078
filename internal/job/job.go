package job

import "time"

type Status string

const (
	StatusCreated Status = "created"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusQuit    Status = "quit"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Terminal reports whether no further progress is expected for the status.
func (s Status) Terminal() bool {
	switch s {
	case StatusQuit, StatusDone, StatusFailed:
		return true
	}
	return false
}

type Action string

const (
	ActionPause  Action = "pause"
	ActionStop   Action = "stop"
	ActionResume Action = "resume"
)

type Job struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Status        Status            `json:"status"`
	ResourceID    string            `json:"resourceid,omitempty"`
	Owner         string            `json:"owner"`
	StartTime     time.Time         `json:"starttime"`
	CrackedHashes int64             `json:"crackedhashes"`
	TotalHashes   int64             `json:"totalhashes"`
	Progress      float64           `json:"progress"`
	ToolID        string            `json:"toolid"`
	Params        map[string]string `json:"params,omitempty"`

	// Client-only view state.
	Expanded      bool   `json:"-"`
	ResourceColor string `json:"-"`
}

type Detail struct {
	Job

	PerformanceTitle string            `json:"performancetitle"`
	PerformanceData  map[string]string `json:"performancedata"`
	OutputTitles     []string          `json:"outputtitles"`
	OutputData       map[string]string `json:"outputdata"`
}
