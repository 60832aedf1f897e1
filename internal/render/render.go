// Package render projects posts into HTML fragments and converts Markdown
// post bodies to HTML.
package render

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rs/zerolog"
)

var renderLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

//go:embed fragments.html
var fragmentsSource string

var fragments = template.Must(template.New("fragments").Parse(fragmentsSource))

func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		renderLogger.Error().Err(err).Str("fragment", name).Msg("Failed to render fragment")
		return ""
	}
	return template.HTML(buf.String())
}
