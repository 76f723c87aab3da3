// Package metrics measures reconstructed document text.
package metrics

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	wordPattern       = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	punctuationSplit  = regexp.MustCompile(`[.!?]+`)
	terminatorPattern = regexp.MustCompile(`[.!?]+(\s|$)`)
)

// Counts holds the size of a text
type Counts struct {
	Words      int `json:"words" yaml:"words"`
	Sentences  int `json:"sentences" yaml:"sentences"`
	Paragraphs int `json:"paragraphs" yaml:"paragraphs"`
}

// Sub returns c - other field by field
func (c Counts) Sub(other Counts) Counts {
	return Counts{
		Words:      c.Words - other.Words,
		Sentences:  c.Sentences - other.Sentences,
		Paragraphs: c.Paragraphs - other.Paragraphs,
	}
}

// SentenceStrategy selects how sentences are counted
type SentenceStrategy int

const (
	// SentencePunctuation splits on every run of . ! ? and counts the
	// non-blank pieces
	SentencePunctuation SentenceStrategy = iota
	// SentenceTerminator counts runs of . ! ? followed by whitespace or the
	// end of text, plus an unterminated trailing sentence
	SentenceTerminator
)

// ParseSentenceStrategy parses "punctuation" or "terminator"
func ParseSentenceStrategy(s string) (SentenceStrategy, error) {
	switch s {
	case "", "punctuation":
		return SentencePunctuation, nil
	case "terminator":
		return SentenceTerminator, nil
	default:
		return 0, fmt.Errorf("unknown sentence strategy %q", s)
	}
}

func (s SentenceStrategy) String() string {
	if s == SentenceTerminator {
		return "terminator"
	}
	return "punctuation"
}

// Counter computes Counts with a fixed sentence strategy
type Counter struct {
	strategy SentenceStrategy
}

// NewCounter creates a counter
func NewCounter(strategy SentenceStrategy) *Counter {
	return &Counter{strategy: strategy}
}

// Count measures text
func (c *Counter) Count(text string) Counts {
	if text == "" {
		return Counts{}
	}
	return Counts{
		Words:      len(Words(text)),
		Sentences:  c.sentences(text),
		Paragraphs: paragraphs(text),
	}
}

// Words returns the words of text in order
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

func (c *Counter) sentences(text string) int {
	if c.strategy == SentenceTerminator {
		locs := terminatorPattern.FindAllStringIndex(text, -1)
		count := len(locs)
		tail := text
		if count > 0 {
			tail = text[locs[count-1][1]:]
		}
		if strings.TrimSpace(tail) != "" {
			count++
		}
		return count
	}

	count := 0
	for _, piece := range punctuationSplit.Split(text, -1) {
		if strings.TrimSpace(piece) != "" {
			count++
		}
	}
	return count
}

func paragraphs(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
