package llm

import (
	"regexp"
	"strings"
)

var (
	thinkBlockRegex = regexp.MustCompile(`(?s)<think>.*?</think>`)
	thinkTagRegex   = regexp.MustCompile(`</?think>`)
	trailingWsRegex = regexp.MustCompile(`[ \t]+\n`)
	blankRunRegex   = regexp.MustCompile(`\n{3,}`)
)

// Clean strips model artifacts from raw completion output: leaked reasoning
// blocks, stray think tags, trailing whitespace, and runs of blank lines.
// It is pure and idempotent: cleaning runs to a fixpoint so removing one
// artifact can never expose another.
func Clean(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	for {
		next := cleanPass(text)
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
}

func cleanPass(text string) string {
	text = thinkBlockRegex.ReplaceAllString(text, "")
	// A completion may leak an unmatched open or close tag.
	text = thinkTagRegex.ReplaceAllString(text, "")
	text = trailingWsRegex.ReplaceAllString(text, "\n")
	return blankRunRegex.ReplaceAllString(text, "\n\n")
}
