package job

import (
	"sort"
	"strconv"
	"time"
)

const (
	seriesWindow     = 240
	seriesDenseAbove = 60
)

type Sample struct {
	At    time.Time
	Value string
}

// PerformanceSeries returns the newest performance samples in time order.
// At most 240 samples are considered, and beyond 60 only every third
// one is kept. Keys that are not unix seconds are skipped.
func (d Detail) PerformanceSeries() []Sample {
	stamps := make([]int64, 0, len(d.PerformanceData))
	byStamp := make(map[int64]string, len(d.PerformanceData))
	for key, value := range d.PerformanceData {
		ts, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		stamps = append(stamps, ts)
		byStamp[ts] = value
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	last := len(stamps) - 1
	first := max(0, last-seriesWindow)
	step := 1
	if last > seriesDenseAbove {
		step = 3
	}

	var samples []Sample
	for i := first; i <= last; i += step {
		samples = append(samples, Sample{At: time.Unix(stamps[i], 0), Value: byStamp[stamps[i]]})
	}
	return samples
}
