package agentflow

import (
	"fmt"
	"strings"
)

const (
	// InvalidSentinel is what the classify stage answers for unusable transcripts
	InvalidSentinel = "INVALID"

	// ApologyText is spoken when the transcript was classified as unusable
	ApologyText = "I'm sorry, I didn't quite catch that. Could you please ask your question again?"
)

const classifyTemplate = `You receive the raw transcript of something a student said while looking at a lesson slide.
If the transcript contains a genuine question or comment, reply with a cleaned-up version of it: fix obvious transcription mistakes and drop filler words, but keep the meaning.
If the transcript is empty, background noise, gibberish, or otherwise not something that can be answered, reply with exactly the single word ` + InvalidSentinel + `.
Reply with nothing else.

Transcript: %s`

const groundingTemplate = `Look at the image and answer the student's question about it. Keep the answer short and conversational, since it will be read aloud.

Question: %s`

// ClassifyPrompt embeds the transcript verbatim in the classify-and-clean instruction
func ClassifyPrompt(transcript string) string {
	return fmt.Sprintf(classifyTemplate, transcript)
}

// GroundingPrompt embeds the cleaned question verbatim in the image question prompt
func GroundingPrompt(cleaned string) string {
	return fmt.Sprintf(groundingTemplate, cleaned)
}

// IsInvalid reports whether the classify output carries the sentinel.
// Matching is a case-sensitive substring test.
func IsInvalid(cleaned string) bool {
	return strings.Contains(cleaned, InvalidSentinel)
}
