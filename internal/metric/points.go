package metric

import (
	"sort"
	"sync"
	"time"

	"github.com/influxdata/influxdb-client-go/api/write"
	"github.com/oneee-playground/crackdash/internal/job"
	"github.com/oneee-playground/crackdash/internal/resource"
)

const (
	jobMeasurement      = "job-progress"
	resourceMeasurement = "resource-usage"
)

func JobPoint(j job.Job, at time.Time) *write.Point {
	tags := map[string]string{
		"job-id": j.ID,
		"status": string(j.Status),
	}
	if j.ToolID != "" {
		tags["tool-id"] = j.ToolID
	}
	if j.ResourceID != "" {
		tags["resource-id"] = j.ResourceID
	}

	fields := map[string]interface{}{
		"progress":       j.Progress,
		"cracked-hashes": j.CrackedHashes,
		"total-hashes":   j.TotalHashes,
	}

	return write.NewPoint(jobMeasurement, tags, fields, at)
}

// Recorder turns board and registry snapshots into points. Resource
// usage samples are written once each.
type Recorder struct {
	writer PointWriter

	mu sync.Mutex
	// latest sample time written per resource and kind.
	latest map[string]int64
}

func NewRecorder(writer PointWriter) *Recorder {
	return &Recorder{
		writer: writer,
		latest: make(map[string]int64),
	}
}

// RecordJobs writes a point per job that is still making progress.
func (r *Recorder) RecordJobs(jobs []job.Job, at time.Time) int {
	written := 0
	for _, j := range jobs {
		if j.Status != job.StatusRunning {
			continue
		}
		r.writer.Write(JobPoint(j, at))
		written++
	}
	return written
}

// RecordResources writes utilization samples not written before.
func (r *Recorder) RecordResources(resources []resource.Resource) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	written := 0
	for _, res := range resources {
		written += r.recordUsage(res, "cpu", res.CPUUsage)
		written += r.recordUsage(res, "gpu", res.GPUUsage)
	}
	return written
}

func (r *Recorder) recordUsage(res resource.Resource, kind string, usage map[int64]float64) int {
	key := res.ID + "/" + kind
	last := r.latest[key]

	stamps := make([]int64, 0, len(usage))
	for ts := range usage {
		if ts > last {
			stamps = append(stamps, ts)
		}
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	tags := map[string]string{
		"resource-id": res.ID,
		"name":        res.Name,
		"kind":        kind,
	}

	for _, ts := range stamps {
		fields := map[string]interface{}{"usage": usage[ts]}
		r.writer.Write(write.NewPoint(resourceMeasurement, tags, fields, time.Unix(ts, 0)))
	}

	if len(stamps) > 0 {
		r.latest[key] = stamps[len(stamps)-1]
	}
	return len(stamps)
}
