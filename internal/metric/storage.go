package metric

import (
	"context"
	"sync/atomic"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/influxdata/influxdb-client-go/api/write"
	"go.uber.org/zap"
)

type PointWriter interface {
	Write(point *write.Point)
}

// InfluxSink writes points to one influx bucket without blocking.
// Write failures surface through Run.
type InfluxSink struct {
	log    *zap.Logger
	writer api.WriteAPI

	written atomic.Int64
	failed  atomic.Int64
}

var _ PointWriter = (*InfluxSink)(nil)

func NewInfluxSink(log *zap.Logger, client influxdb2.Client, org, bucket string) *InfluxSink {
	return newInfluxSink(log, client.WriteAPI(org, bucket))
}

func newInfluxSink(log *zap.Logger, writer api.WriteAPI) *InfluxSink {
	return &InfluxSink{
		log:    log.With(zap.String("sink", "influx")),
		writer: writer,
	}
}

func (s *InfluxSink) Write(point *write.Point) {
	s.writer.WritePoint(point)
	s.written.Add(1)
}

// Run logs write failures until ctx is done or the writer closes.
func (s *InfluxSink) Run(ctx context.Context) error {
	errs := s.writer.Errors()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			s.failed.Add(1)
			s.log.Warn("failed to write points", zap.Error(err))
		}
	}
}

// Counts reports points handed to the writer and failed batches.
func (s *InfluxSink) Counts() (written, failed int64) {
	return s.written.Load(), s.failed.Load()
}

// Close flushes pending points.
func (s *InfluxSink) Close() {
	s.writer.Flush()
	s.writer.Close()

	written, failed := s.Counts()
	s.log.Debug("influx sink closed", zap.Int64("written", written), zap.Int64("failed", failed))
}

// Discard is a PointWriter for runs without an influx server.
type Discard struct{}

func (Discard) Write(*write.Point) {}
