package resource

import "encoding/json"

type Status string

const (
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

type ToolRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Resource is one compute node connected to the queue.
type Resource struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Address string             `json:"address"`
	Manager string             `json:"manager,omitempty"`
	Status  Status             `json:"status"`
	Tools   map[string]ToolRef `json:"tools,omitempty"`

	// Utilization fractions keyed by unix timestamp.
	CPUUsage map[int64]float64 `json:"cpuusage,omitempty"`
	GPUUsage map[int64]float64 `json:"gpuusage,omitempty"`

	Color Color `json:"-"`
}

// Manager describes a resource manager able to connect new resources.
type Manager struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Form        json.RawMessage `json:"form,omitempty"`
	Schema      json.RawMessage `json:"schema,omitempty"`
}
