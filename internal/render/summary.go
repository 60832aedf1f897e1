package render

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/debemdeboas/insights/internal/config"
	"github.com/debemdeboas/insights/internal/model"
)

// NoSummary is shown when a post has neither a summary nor content.
const NoSummary = "No summary available."

const ellipsis = "..."

// Summary returns the post's summary, deriving one from its content when
// the source record has none.
func Summary(p *model.Post) string {
	if p.Summary != "" {
		return p.Summary
	}
	if p.Content == "" {
		return NoSummary
	}

	text := StripMarkup(p.Content)
	if strings.TrimSpace(text) == "" {
		return NoSummary
	}
	return Truncate(text, config.SummaryLength)
}

// StripMarkup returns the text content of an HTML fragment with entities
// decoded. Script and style bodies are dropped.
func StripMarkup(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))

	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				renderLogger.Debug().Err(z.Err()).Msg("Stopped stripping malformed markup")
			}
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawText(z) && skip > 0 {
				skip--
			}
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch atom.Lookup(name) {
	case atom.Script, atom.Style:
		return true
	}
	return false
}

// Truncate keeps the first n characters of s and appends "..." when
// anything was cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + ellipsis
		}
		i++
	}
	return s
}
