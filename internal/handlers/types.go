package handlers

// ChatRequest is the /chat request body
type ChatRequest struct {
	LLM         string   `json:"llm" example:"openai"`
	Prompt      string   `json:"prompt" validate:"required" example:"What is photosynthesis?"`
	MaxTokens   *int     `json:"max_tokens,omitempty" validate:"omitempty,gt=0" example:"256"`
	Temperature *float32 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2" example:"0.7"`
	TopP        *float32 `json:"top_p,omitempty" validate:"omitempty,gte=0,lte=1" example:"1"`
}

// ChatResponse carries a completion's text
type ChatResponse struct {
	Response string `json:"response" example:"Photosynthesis is how plants turn light into energy."`
}

// TranscriptionResponse carries a transcript
type TranscriptionResponse struct {
	Transcript string `json:"transcript" example:"What is shown in this picture?"`
}

// SpeechRequest is the /generate_speech request body
type SpeechRequest struct {
	Input   string `json:"input" validate:"required" example:"Hello class"`
	Stream  bool   `json:"stream" example:"true"`
	VoiceID string `json:"voice_id" example:"21m00Tcm4TlvDq8ikWAM"`
}

// ErrorResponse documents the error envelope for swagger
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type" example:"validation_error"`
		Message string `json:"message" example:"Field 'prompt' is required"`
		Code    string `json:"code,omitempty" example:"missing_input"`
		Details string `json:"details,omitempty"`
	} `json:"error"`
}
