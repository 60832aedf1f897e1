package config

import "regexp"

const (
	MarkdownRenderer = "mmark"

	// SummaryLength is the number of characters kept when a summary is
	// derived from post content.
	SummaryLength = 150
)

// RegexCallout matches a code callout such as "// <<1>>" in highlighted,
// already escaped, output.
var RegexCallout = regexp.MustCompile(`//\s*&lt;&lt;(\d+)&gt;&gt;`)
