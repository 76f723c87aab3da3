package metrics

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// SimilarityStrategy selects how two texts are compared
type SimilarityStrategy int

const (
	// SimilarityJaccard compares the sets of lower-cased words
	SimilarityJaccard SimilarityStrategy = iota
	// SimilarityEdit compares character edit distance
	SimilarityEdit
)

// ParseSimilarityStrategy parses "jaccard" or "edit"
func ParseSimilarityStrategy(s string) (SimilarityStrategy, error) {
	switch s {
	case "", "jaccard":
		return SimilarityJaccard, nil
	case "edit":
		return SimilarityEdit, nil
	default:
		return 0, fmt.Errorf("unknown similarity strategy %q", s)
	}
}

func (s SimilarityStrategy) String() string {
	if s == SimilarityEdit {
		return "edit"
	}
	return "jaccard"
}

// Similarity returns how alike a and b are, as a percentage rounded to one
// decimal place. Two empty texts are identical.
func Similarity(strategy SimilarityStrategy, a, b string) float64 {
	if strategy == SimilarityEdit {
		return editSimilarity(a, b)
	}
	return jaccardSimilarity(a, b)
}

func jaccardSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 100
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	return round1(float64(intersection) / float64(union) * 100)
}

func editSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 100
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)

	score := (1 - float64(distance)/float64(longest)) * 100
	return round1(math.Max(0, score))
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range Words(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
