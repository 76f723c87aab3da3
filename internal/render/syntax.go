package render

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	diffLexer    = "diff"
	defaultTheme = "monokai"
)

// SyntaxRenderer highlights unified diffs with chroma
type SyntaxRenderer struct {
	theme   string
	enabled bool
}

// NewSyntaxRenderer creates a highlighter using the named chroma style.
// Unknown styles fall back to monokai.
func NewSyntaxRenderer(theme string, enabled bool) *SyntaxRenderer {
	if theme == "" || styles.Get(theme) == styles.Fallback {
		theme = defaultTheme
	}
	return &SyntaxRenderer{theme: theme, enabled: enabled}
}

// Highlight returns text highlighted as a diff. Disabled or failed
// highlighting returns text unchanged.
func (r *SyntaxRenderer) Highlight(text string) string {
	if !r.enabled || text == "" {
		return text
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, text, diffLexer, "terminal256", r.theme); err != nil {
		return text
	}
	return buf.String()
}
