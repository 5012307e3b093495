package prompt

import (
	"regexp"
	"strings"

	"comm-agent/pkg/api"
)

var (
	urgencyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:URGENT|ASAP|EMERGENCY|CRITICAL|IMMEDIATE)\b`),
		regexp.MustCompile(`(?i)urgent|emergency|asap|right away|immediately|right now`),
		regexp.MustCompile(`!{2,}`),
	}

	complaintPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)disappointed|frustrated|angry|upset|terrible|worst`),
		regexp.MustCompile(`(?i)not acceptable|unacceptable|poor|bad experience`),
		regexp.MustCompile(`(?i)third time|again|still not|yet to|never`),
		regexp.MustCompile(`(?i)complaint|issue|problem|error|bug|failed|failure`),
	}

	formalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)dear|sincerely|regards|pursuant|accordingly`),
		regexp.MustCompile(`(?i)request|inquire|regarding|concerning|matter`),
		regexp.MustCompile(`(?i)documentation|legal|compliance|policy|regulation`),
	}

	positivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)thank|appreciate|great|good|excellent|wonderful`),
		regexp.MustCompile(`(?i)love|enjoy|pleased|happy|satisfied|helpful`),
		regexp.MustCompile(`(?i)feature request|suggestion|idea|feedback`),
	}
)

const toneThreshold = 0.3

// DetectTone picks a response tone from the customer message when the
// request does not specify one. Each pattern group is scored as the fraction
// of its patterns that match; a critical priority in the context forces the
// direct tone.
func DetectTone(message string, context map[string]string) (api.Tone, api.ToneDetection) {
	factors := map[string]float64{
		"urgency":    patternScore(message, urgencyPatterns),
		"complaint":  patternScore(message, complaintPatterns),
		"formality":  patternScore(message, formalPatterns),
		"positivity": patternScore(message, positivePatterns),
	}

	priority := strings.ToLower(context["priority"])

	var tone api.Tone
	var confidence float64

	switch {
	case factors["urgency"] > toneThreshold || priority == "critical":
		tone = api.ToneDirect
		confidence = factors["urgency"]
	case factors["complaint"] > toneThreshold:
		tone = api.ToneEmpathetic
		confidence = factors["complaint"]
	case factors["formality"] > toneThreshold:
		tone = api.ToneFormal
		confidence = factors["formality"]
	case factors["positivity"] > toneThreshold:
		tone = api.ToneFriendly
		confidence = factors["positivity"]
	default:
		tone = api.ToneProfessional
		confidence = meanNonZero(factors)
	}

	return tone, api.ToneDetection{DetectedTone: tone, Confidence: confidence, Factors: factors}
}

func patternScore(text string, patterns []*regexp.Regexp) float64 {
	matches := 0
	for _, p := range patterns {
		if p.MatchString(text) {
			matches++
		}
	}
	score := float64(matches) / float64(len(patterns))
	if score > 1 {
		return 1
	}
	return score
}

func meanNonZero(factors map[string]float64) float64 {
	sum, n := 0.0, 0
	for _, score := range factors {
		if score > 0 {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}
