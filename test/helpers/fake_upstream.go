package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// UpstreamCall is one request received by the fake providers
type UpstreamCall struct {
	Provider  string
	Operation string
	Model     string
	Prompt    string
	HasImage  bool
	VoiceID   string
}

// FakeUpstream emulates the OpenAI, Groq and ElevenLabs HTTP APIs
type FakeUpstream struct {
	server *httptest.Server

	mu    sync.Mutex
	calls []UpstreamCall

	// ChatReply answers a chat or vision request
	ChatReply func(call UpstreamCall) string
	// Transcript is returned by every transcription
	Transcript string
	// Audio is returned by every speech request
	Audio []byte
	// FailSpeech makes speech requests fail with a 401
	FailSpeech bool
}

// NewFakeUpstream starts the fake provider server
func NewFakeUpstream() *FakeUpstream {
	f := &FakeUpstream{
		ChatReply:  func(UpstreamCall) string { return "ok" },
		Transcript: "hello",
		Audio:      []byte("ID3-fake-mp3"),
	}

	mux := http.NewServeMux()
	for _, provider := range []string{"openai", "groq"} {
		mux.HandleFunc("POST /"+provider+"/v1/chat/completions", f.chatHandler(provider))
		mux.HandleFunc("POST /"+provider+"/v1/audio/transcriptions", f.transcriptionHandler(provider))
	}
	mux.HandleFunc("POST /elevenlabs/v1/text-to-speech/{voice}/stream", f.speechHandler)
	mux.HandleFunc("POST /elevenlabs/v1/text-to-speech/{voice}", f.speechHandler)

	f.server = httptest.NewServer(mux)
	return f
}

// BaseURL returns the root of a fake provider, e.g. BaseURL("groq")
func (f *FakeUpstream) BaseURL(provider string) string {
	if provider == "elevenlabs" {
		return f.server.URL + "/elevenlabs"
	}
	return f.server.URL + "/" + provider + "/v1"
}

// Close stops the fake server
func (f *FakeUpstream) Close() {
	f.server.Close()
}

// Calls returns the recorded calls in order
func (f *FakeUpstream) Calls() []UpstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]UpstreamCall(nil), f.calls...)
}

// CallsFor filters the recorded calls by operation
func (f *FakeUpstream) CallsFor(operation string) []UpstreamCall {
	var out []UpstreamCall
	for _, call := range f.Calls() {
		if call.Operation == operation {
			out = append(out, call)
		}
	}
	return out
}

func (f *FakeUpstream) record(call UpstreamCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

type chatMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (f *FakeUpstream) chatHandler(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string        `json:"model"`
			Messages []chatMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeOpenAIError(w, http.StatusBadRequest, err.Error())
			return
		}

		call := UpstreamCall{Provider: provider, Operation: "chat", Model: req.Model}
		for _, msg := range req.Messages {
			if msg.Role != "user" {
				continue
			}
			var text string
			if err := json.Unmarshal(msg.Content, &text); err == nil {
				call.Prompt = text
				continue
			}
			var parts []contentPart
			_ = json.Unmarshal(msg.Content, &parts)
			for _, part := range parts {
				switch part.Type {
				case "text":
					call.Prompt = part.Text
				case "image_url":
					call.HasImage = true
					call.Operation = "vision"
				}
			}
		}
		f.record(call)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   req.Model,
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": f.ChatReply(call)},
				"finish_reason": "stop",
			}},
		})
	}
}

func (f *FakeUpstream) transcriptionHandler(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeOpenAIError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			writeOpenAIError(w, http.StatusBadRequest, "file is required")
			return
		}
		f.record(UpstreamCall{Provider: provider, Operation: "transcription", Model: r.FormValue("model")})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": f.Transcript})
	}
}

func (f *FakeUpstream) speechHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.record(UpstreamCall{Provider: "elevenlabs", Operation: "speech", Prompt: req.Text, VoiceID: r.PathValue("voice")})

	if f.FailSpeech {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`))
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	_, _ = w.Write(f.Audio)
}

func writeOpenAIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"error":{"message":%q,"type":"invalid_request_error"}}`, message)
}

// PromptContains reports whether any recorded call's prompt contains s
func PromptContains(calls []UpstreamCall, s string) bool {
	for _, call := range calls {
		if strings.Contains(call.Prompt, s) {
			return true
		}
	}
	return false
}
