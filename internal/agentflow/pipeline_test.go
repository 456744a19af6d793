package agentflow

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/providers"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.Config{Level: logger.LevelError, Format: "json", Output: "stderr"})
	os.Exit(m.Run())
}

type fakeTranscriber struct {
	text      string
	err       error
	calls     int
	providers []providers.Name
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ providers.Audio, provider providers.Name) (string, error) {
	f.calls++
	f.providers = append(f.providers, provider)
	return f.text, f.err
}

type fakeChat struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeChat) CompleteChat(_ context.Context, prompt string, _ providers.Name, _ providers.GenerationParams) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeImages struct {
	answer  string
	err     error
	calls   int
	prompts []string
	images  []providers.Image
}

func (f *fakeImages) DescribeImage(_ context.Context, img providers.Image, prompt string, _ providers.GenerationParams) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.images = append(f.images, img)
	return f.answer, f.err
}

type fakeSpeech struct {
	err    error
	calls  int
	texts  []string
	voices []string
	ctx    context.Context
}

func (f *fakeSpeech) SynthesizeSpeech(ctx context.Context, text, voiceID string, _ bool) (*providers.Speech, error) {
	f.calls++
	f.texts = append(f.texts, text)
	f.voices = append(f.voices, voiceID)
	f.ctx = ctx
	if f.err != nil {
		return nil, f.err
	}
	return &providers.Speech{Body: io.NopCloser(strings.NewReader("mp3:" + text)), ContentType: "audio/mpeg"}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	traces []*Trace
}

func (s *recordingSink) Record(_ context.Context, trace *Trace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traces = append(s.traces, trace)
}

type doubles struct {
	transcriber *fakeTranscriber
	chat        *fakeChat
	images      *fakeImages
	speech      *fakeSpeech
}

func newDoubles(transcript, cleaned, answer string) doubles {
	return doubles{
		transcriber: &fakeTranscriber{text: transcript},
		chat:        &fakeChat{reply: cleaned},
		images:      &fakeImages{answer: answer},
		speech:      &fakeSpeech{},
	}
}

func (d doubles) pipeline(opts ...Option) *Pipeline {
	return NewPipeline(Dependencies{
		Transcriber: d.transcriber,
		Chat:        d.chat,
		Images:      d.images,
		Speech:      d.speech,
	}, Config{
		TranscriptionProvider: providers.Groq,
		ChatProvider:          providers.OpenAI,
		VoiceID:               "voice-1",
		Streaming:             true,
		Timeout:               time.Minute,
	}, opts...)
}

func solidJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func validInput(t *testing.T) Input {
	return Input{
		Image: providers.Image{Data: solidJPEG(t), ContentType: "image/jpeg"},
		Audio: providers.Audio{Data: []byte("fake-audio"), Filename: "question.webm"},
	}
}

func readAll(t *testing.T, speech *providers.Speech) string {
	t.Helper()
	defer speech.Body.Close()
	data, err := io.ReadAll(speech.Body)
	require.NoError(t, err)
	return string(data)
}

func TestRun_AnswersQuestionAboutImage(t *testing.T) {
	d := newDoubles("What color is this?", "What color is this?", "It is red.")
	in := validInput(t)

	result, err := d.pipeline().Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "mp3:It is red.", readAll(t, result.Speech))
	assert.Equal(t, []string{"It is red."}, d.speech.texts)
	assert.Equal(t, []string{"voice-1"}, d.speech.voices)

	require.Equal(t, 1, d.images.calls)
	assert.Contains(t, d.images.prompts[0], "What color is this?")
	assert.Equal(t, in.Image.Data, d.images.images[0].Data)

	assert.Equal(t, BranchAnswer, result.Trace.Branch)
	assert.True(t, result.State.Valid)
	assert.Equal(t, "It is red.", result.State.Answer)
}

func TestRun_InvalidTranscriptSpeaksApology(t *testing.T) {
	d := newDoubles("shhhh krrk mmm", "INVALID", "should never be used")

	result, err := d.pipeline().Run(context.Background(), validInput(t))
	require.NoError(t, err)

	assert.Equal(t, 0, d.images.calls)
	assert.Equal(t, []string{ApologyText}, d.speech.texts)
	assert.Equal(t, "mp3:"+ApologyText, readAll(t, result.Speech))
	assert.Equal(t, BranchApology, result.Trace.Branch)
	assert.False(t, result.State.Valid)
}

func TestRun_SentinelMatching(t *testing.T) {
	tests := []struct {
		name         string
		cleaned      string
		wantApology  bool
		wantImageHit int
	}{
		{"exact sentinel", "INVALID", true, 0},
		{"sentinel inside text", "Result: INVALID.", true, 0},
		{"lowercase is not the sentinel", "invalid", false, 1},
		{"genuine question", "What is photosynthesis?", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDoubles("raw", tt.cleaned, "answer")

			result, err := d.pipeline().Run(context.Background(), validInput(t))
			require.NoError(t, err)
			result.Speech.Body.Close()

			assert.Equal(t, tt.wantImageHit, d.images.calls)
			if tt.wantApology {
				assert.Equal(t, []string{ApologyText}, d.speech.texts)
			} else {
				assert.Equal(t, []string{"answer"}, d.speech.texts)
				assert.Contains(t, d.images.prompts[0], tt.cleaned)
			}
		})
	}
}

func TestRun_TranscriptReachesClassifierUnmodified(t *testing.T) {
	transcript := "  um, what's   the *capital* of France?? \n"
	d := newDoubles(transcript, "What is the capital of France?", "Paris.")

	result, err := d.pipeline().Run(context.Background(), validInput(t))
	require.NoError(t, err)
	result.Speech.Body.Close()

	require.Len(t, d.chat.prompts, 1)
	assert.Contains(t, d.chat.prompts[0], transcript)
	assert.Equal(t, []providers.Name{providers.Groq}, d.transcriber.providers)
}

func TestRun_MissingInput(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		field string
	}{
		{"no image", Input{Audio: providers.Audio{Data: []byte("a")}}, "image"},
		{"no audio", Input{Image: providers.Image{Data: []byte("i")}}, "audio"},
		{"nothing", Input{}, "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDoubles("x", "x", "x")

			_, err := d.pipeline().Run(context.Background(), tt.input)

			require.ErrorIs(t, err, ErrMissingInput)
			var missing *MissingInputError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
			assert.Equal(t, 0, d.transcriber.calls)
			assert.Equal(t, 0, d.speech.calls)
		})
	}
}

func TestRun_StageFailuresAbort(t *testing.T) {
	upstream := &providers.UpstreamError{Provider: "groq", Operation: "transcription", Message: "quota exceeded", StatusCode: 429}

	tests := []struct {
		name      string
		configure func(d doubles)
		stage     string
		chatCalls int
		speechHit int
	}{
		{"transcribe", func(d doubles) { d.transcriber.err = upstream }, logger.LogStages.Transcribe, 0, 0},
		{"classify", func(d doubles) { d.chat.err = upstream }, logger.LogStages.Classify, 1, 0},
		{"answer", func(d doubles) { d.images.err = upstream }, logger.LogStages.Answer, 1, 0},
		{"synthesize", func(d doubles) { d.speech.err = upstream }, logger.LogStages.Synthesize, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDoubles("q", "q", "a")
			tt.configure(d)
			sink := &recordingSink{}

			_, err := d.pipeline(WithTraceSink(sink)).Run(context.Background(), validInput(t))

			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tt.stage, stageErr.Stage)

			var got *providers.UpstreamError
			require.ErrorAs(t, err, &got)
			assert.Equal(t, "quota exceeded", got.Message)

			assert.Equal(t, tt.chatCalls, d.chat.calls)
			assert.Equal(t, tt.speechHit, d.speech.calls)

			require.Len(t, sink.traces, 1)
			assert.Equal(t, tt.stage, sink.traces[0].FailedAt)
			assert.NotEmpty(t, sink.traces[0].Error)
		})
	}
}

func TestRun_RecordsTrace(t *testing.T) {
	d := newDoubles("What color is this?", "What color is this?", "It is red.")
	sink := &recordingSink{}
	ctx := logger.WithRequestID(context.Background(), "req-42")

	result, err := d.pipeline(WithTraceSink(sink)).Run(ctx, validInput(t))
	require.NoError(t, err)
	result.Speech.Body.Close()

	require.Len(t, sink.traces, 1)
	trace := sink.traces[0]
	assert.NotEmpty(t, trace.ID)
	assert.Equal(t, "req-42", trace.RequestID)
	assert.Equal(t, "What color is this?", trace.Transcript)
	assert.Equal(t, "It is red.", trace.Answer)

	stages := make([]string, 0, len(trace.Stages))
	for _, s := range trace.Stages {
		stages = append(stages, s.Stage)
	}
	assert.Equal(t, []string{"Transcribe", "Classify", "Answer", "Synthesize"}, stages)
	assert.Equal(t, "groq", trace.Stages[0].Provider)
}

func TestRun_TimeoutStaysActiveUntilBodyClosed(t *testing.T) {
	d := newDoubles("q", "q", "a")

	result, err := d.pipeline().Run(context.Background(), validInput(t))
	require.NoError(t, err)

	require.NotNil(t, d.speech.ctx)
	assert.NoError(t, d.speech.ctx.Err())

	require.NoError(t, result.Speech.Body.Close())
	assert.ErrorIs(t, d.speech.ctx.Err(), context.Canceled)
}

func TestRun_CancelledContext(t *testing.T) {
	d := newDoubles("q", "q", "a")
	d.transcriber.err = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.pipeline().Run(ctx, validInput(t))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPrompts(t *testing.T) {
	assert.Contains(t, ClassifyPrompt("hello"), "Transcript: hello")
	assert.Contains(t, ClassifyPrompt("hello"), InvalidSentinel)
	assert.Contains(t, GroundingPrompt("Why is the sky blue?"), "Question: Why is the sky blue?")
	assert.True(t, IsInvalid("INVALID"))
	assert.False(t, IsInvalid("Invalid"))
}
