// Package agentflow chains transcription, classification, image question
// answering and speech synthesis into one spoken answer.
package agentflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/providers"
)

// ErrMissingInput is matched by errors.Is for any MissingInputError
var ErrMissingInput = errors.New("missing input")

// MissingInputError names the absent upload
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s file is required", e.Field)
}

func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// StageError records which stage failed
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("agent flow %s stage failed: %v", strings.ToLower(e.Stage), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Config holds the pipeline's provider choices and limits
type Config struct {
	TranscriptionProvider providers.Name
	ChatProvider          providers.Name
	VoiceID               string
	Streaming             bool
	Timeout               time.Duration
}

// Dependencies are the capabilities the pipeline calls
type Dependencies struct {
	Transcriber providers.Transcriber
	Chat        providers.ChatCompleter
	Images      providers.ImageDescriber
	Speech      providers.SpeechSynthesizer
}

// FromAdapter uses one adapter for every capability
func FromAdapter(adapter providers.Adapter) Dependencies {
	return Dependencies{
		Transcriber: adapter,
		Chat:        adapter,
		Images:      adapter,
		Speech:      adapter,
	}
}

// Input is the ingested request payload
type Input struct {
	Image providers.Image
	Audio providers.Audio
}

// State is the request-scoped data flowing through the stages
type State struct {
	Input      Input
	Transcript string
	Cleaned    string
	Valid      bool
	Answer     string
	Spoken     string
	Output     *providers.Speech
}

// Result is a successful run. Speech.Body must be closed by the caller;
// closing it also releases the run's timeout.
type Result struct {
	Speech *providers.Speech
	State  *State
	Trace  *Trace
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithTraceSink sends finished traces to sink
func WithTraceSink(sink TraceSink) Option {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

// Pipeline runs the five-stage agent flow. It holds no per-request state.
type Pipeline struct {
	deps Dependencies
	cfg  Config
	sink TraceSink
}

// NewPipeline creates a pipeline
func NewPipeline(deps Dependencies, cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{deps: deps, cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes ingest, transcribe, classify, branch and synthesize in order.
// Any stage failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	ctx = logger.WithComponent(ctx, logger.ComponentNames.AgentFlow)

	cancel := context.CancelFunc(func() {})
	if p.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
	}

	trace := &Trace{
		ID:        uuid.NewString(),
		RequestID: logger.RequestIDFrom(ctx),
		StartedAt: time.Now(),
	}
	state := &State{Input: in}

	err := p.execute(ctx, state, trace)
	trace.DurationMS = time.Since(trace.StartedAt).Milliseconds()

	if err != nil {
		cancel()
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			trace.FailedAt = stageErr.Stage
		}
		trace.Error = err.Error()
		logger.Error(logger.WithStage(ctx, trace.FailedAt), "Agent flow failed", err,
			"trace_id", trace.ID,
			"duration_ms", trace.DurationMS)
		p.record(ctx, trace)
		return nil, err
	}

	state.Output.Body = &cancelOnClose{ReadCloser: state.Output.Body, cancel: cancel}

	logger.Info(ctx, "Agent flow completed",
		"trace_id", trace.ID,
		"branch", string(trace.Branch),
		"duration_ms", trace.DurationMS,
		"transcript", trace.Transcript,
		"cleaned", trace.Cleaned,
		"answer", trace.Answer)
	p.record(ctx, trace)

	return &Result{Speech: state.Output, State: state, Trace: trace}, nil
}

func (p *Pipeline) execute(ctx context.Context, state *State, trace *Trace) error {
	if err := ingest(state.Input); err != nil {
		return &StageError{Stage: logger.LogStages.Ingest, Err: err}
	}

	started := time.Now()
	transcript, err := p.deps.Transcriber.Transcribe(ctx, state.Input.Audio, p.cfg.TranscriptionProvider)
	if err != nil {
		return &StageError{Stage: logger.LogStages.Transcribe, Err: err}
	}
	state.Transcript = transcript
	trace.Transcript = transcript
	trace.stage(logger.LogStages.Transcribe, string(p.cfg.TranscriptionProvider), started)
	logger.Debug(logger.WithStage(ctx, logger.LogStages.Transcribe), "Audio transcribed",
		"transcript", transcript)

	started = time.Now()
	cleaned, err := p.deps.Chat.CompleteChat(ctx, ClassifyPrompt(transcript), p.cfg.ChatProvider, providers.GenerationParams{})
	if err != nil {
		return &StageError{Stage: logger.LogStages.Classify, Err: err}
	}
	state.Cleaned = cleaned
	state.Valid = !IsInvalid(cleaned)
	trace.Cleaned = cleaned
	trace.stage(logger.LogStages.Classify, string(p.cfg.ChatProvider), started)

	if state.Valid {
		trace.Branch = BranchAnswer
		started = time.Now()
		answer, err := p.deps.Images.DescribeImage(ctx, state.Input.Image, GroundingPrompt(cleaned), providers.GenerationParams{})
		if err != nil {
			return &StageError{Stage: logger.LogStages.Answer, Err: err}
		}
		state.Answer = answer
		state.Spoken = answer
		trace.Answer = answer
		trace.stage(logger.LogStages.Answer, string(providers.OpenAI), started)
	} else {
		trace.Branch = BranchApology
		state.Spoken = ApologyText
	}
	logger.Debug(logger.WithStage(ctx, logger.LogStages.Branch), "Branch selected",
		"branch", string(trace.Branch),
		"cleaned", cleaned)

	started = time.Now()
	speech, err := p.deps.Speech.SynthesizeSpeech(ctx, state.Spoken, p.cfg.VoiceID, p.cfg.Streaming)
	if err != nil {
		return &StageError{Stage: logger.LogStages.Synthesize, Err: err}
	}
	if speech == nil || speech.Body == nil {
		return &StageError{Stage: logger.LogStages.Synthesize, Err: errors.New("speech synthesizer returned no audio")}
	}
	state.Output = speech
	trace.stage(logger.LogStages.Synthesize, "", started)

	return nil
}

func ingest(in Input) error {
	if len(in.Image.Data) == 0 {
		return &MissingInputError{Field: "image"}
	}
	if len(in.Audio.Data) == 0 {
		return &MissingInputError{Field: "audio"}
	}
	return nil
}

func (p *Pipeline) record(ctx context.Context, trace *Trace) {
	if p.sink == nil {
		return
	}
	p.sink.Record(context.WithoutCancel(ctx), trace)
}

// cancelOnClose releases the run's timeout once the audio has been consumed
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
