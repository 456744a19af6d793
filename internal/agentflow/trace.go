package agentflow

import (
	"context"
	"time"
)

// Branch is the path taken after classification
type Branch string

const (
	BranchAnswer  Branch = "answer"
	BranchApology Branch = "apology"
)

// StageTiming records how long one stage took
type StageTiming struct {
	Stage      string `json:"stage" bson:"stage"`
	Provider   string `json:"provider,omitempty" bson:"provider,omitempty"`
	DurationMS int64  `json:"duration_ms" bson:"duration_ms"`
}

// Trace is the diagnostic record of one pipeline run
type Trace struct {
	ID         string        `json:"id" bson:"_id"`
	RequestID  string        `json:"request_id,omitempty" bson:"request_id,omitempty"`
	StartedAt  time.Time     `json:"started_at" bson:"started_at"`
	DurationMS int64         `json:"duration_ms" bson:"duration_ms"`
	Stages     []StageTiming `json:"stages" bson:"stages"`
	Transcript string        `json:"transcript,omitempty" bson:"transcript,omitempty"`
	Cleaned    string        `json:"cleaned,omitempty" bson:"cleaned,omitempty"`
	Branch     Branch        `json:"branch,omitempty" bson:"branch,omitempty"`
	Answer     string        `json:"answer,omitempty" bson:"answer,omitempty"`
	FailedAt   string        `json:"failed_stage,omitempty" bson:"failed_stage,omitempty"`
	Error      string        `json:"error,omitempty" bson:"error,omitempty"`
}

// TraceSink receives finished traces. Implementations must not block the caller.
type TraceSink interface {
	Record(ctx context.Context, trace *Trace)
}

func (t *Trace) stage(name, provider string, started time.Time) {
	t.Stages = append(t.Stages, StageTiming{
		Stage:      name,
		Provider:   provider,
		DurationMS: time.Since(started).Milliseconds(),
	})
}
