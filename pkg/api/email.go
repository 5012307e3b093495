package api

import "time"

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneFormal       Tone = "formal"
	ToneEmpathetic   Tone = "empathetic"
	ToneDirect       Tone = "direct"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneFriendly, ToneFormal, ToneEmpathetic, ToneDirect:
		return true
	}
	return false
}

type EmailRequest struct {
	CustomerMessage string            `json:"customer_message"`
	Tone            Tone              `json:"tone,omitempty"`
	Context         map[string]string `json:"context,omitempty"`
	MaxLength       int               `json:"max_length,omitempty"`
}

type GenerationSettings struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
}

// ToneDetection reports how a tone was chosen when the request did not
// specify one.
type ToneDetection struct {
	DetectedTone Tone               `json:"detected_tone"`
	Confidence   float64            `json:"confidence"`
	Factors      map[string]float64 `json:"factors"`
}

type EmailResponseMetadata struct {
	ToneUsed           Tone               `json:"tone_used"`
	ContextLength      int                `json:"context_length"`
	GenerationSettings GenerationSettings `json:"generation_settings"`
	ToneDetection      *ToneDetection     `json:"tone_detection,omitempty"`
	Timestamp          time.Time          `json:"timestamp"`
}

type EmailResponse struct {
	Message         string                `json:"message"`
	StatusCode      int                   `json:"status_code"`
	ExecutionTimeMs float64               `json:"execution_time_ms"`
	Metadata        EmailResponseMetadata `json:"metadata"`
}
