package database

import (
	"context"
	"sync"
	"time"

	"github.com/aashari/go-eduverse-backend/internal/agentflow"
	"github.com/aashari/go-eduverse-backend/internal/logger"
)

type traceWriter interface {
	InsertTrace(ctx context.Context, doc *TraceDocument) error
}

// TraceSink writes agent flow traces in the background. Writes that would
// exceed the in-flight limit are dropped and logged.
type TraceSink struct {
	writer      traceWriter
	service     string
	environment string
	timeout     time.Duration
	slots       chan struct{}
	wg          sync.WaitGroup
}

// NewTraceSink creates a sink over the given repository
func NewTraceSink(writer traceWriter, service, environment string, timeout time.Duration) *TraceSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TraceSink{
		writer:      writer,
		service:     service,
		environment: environment,
		timeout:     timeout,
		slots:       make(chan struct{}, 32),
	}
}

var _ agentflow.TraceSink = (*TraceSink)(nil)

// Record implements agentflow.TraceSink
func (s *TraceSink) Record(ctx context.Context, trace *agentflow.Trace) {
	ctx = logger.WithComponent(ctx, logger.ComponentNames.Database)

	select {
	case s.slots <- struct{}{}:
	default:
		logger.Warn(ctx, "Trace sink saturated, dropping trace", "trace_id", trace.ID)
		return
	}

	doc := &TraceDocument{
		Trace:       *trace,
		Service:     s.service,
		Environment: s.environment,
		CreatedAt:   time.Now().UTC(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { <-s.slots }()

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if err := s.writer.InsertTrace(writeCtx, doc); err != nil {
			logger.Error(ctx, "Failed to store agent flow trace", err, "trace_id", doc.ID)
		}
	}()
}

// Close waits for pending writes or for ctx to expire
func (s *TraceSink) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
