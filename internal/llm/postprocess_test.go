package llm

import (
	"strings"
	"testing"
)

func TestClean_RemovesArtifacts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"No artifacts",
			"Dear Customer,\n\nThank you for reaching out.",
			"Dear Customer,\n\nThank you for reaching out.",
		},
		{
			"Reasoning block",
			"<think>Let me figure out the tone.</think>Dear Customer,\n\nWe are on it.",
			"Dear Customer,\n\nWe are on it.",
		},
		{
			"Multiline reasoning block",
			"<think>\nstep 1\nstep 2\n</think>\n\nDear Customer,",
			"Dear Customer,",
		},
		{
			"Stray close tag",
			"some leaked reasoning</think>Dear Customer,",
			"some leaked reasoningDear Customer,",
		},
		{
			"Stray open tag",
			"Dear Customer,<think>",
			"Dear Customer,",
		},
		{
			"Redundant blank lines",
			"Dear Customer,\n\n\n\nThank you.\n\n\nRegards",
			"Dear Customer,\n\nThank you.\n\nRegards",
		},
		{
			"Trailing spaces and CRLF",
			"Dear Customer,   \r\nThank you.  \r\n",
			"Dear Customer,\nThank you.",
		},
		{
			"Surrounding whitespace",
			"  \n\nDear Customer\n\n  ",
			"Dear Customer",
		},
	}

	for _, tt := range tests {
		if got := Clean(tt.raw); got != tt.want {
			t.Errorf("Clean test %q: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"<think>reasoning</think>reply",
		"<<think>think>nested-ish",
		"a\n\n\n\nb   \nc",
		strings.Repeat("<think>x</think>\n\n\n", 10) + "done",
	}

	for _, raw := range inputs {
		once := Clean(raw)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}

func TestClean_PreservesSurroundingText(t *testing.T) {
	raw := "Dear Ms. Lopez,\n<think>internal</think>\nYour case reference is CA-1042."
	got := Clean(raw)

	if strings.Contains(got, "think") {
		t.Errorf("artifact marker survived cleaning: %q", got)
	}
	if !strings.Contains(got, "Dear Ms. Lopez,") || !strings.Contains(got, "Your case reference is CA-1042.") {
		t.Errorf("surrounding text not preserved: %q", got)
	}
}
