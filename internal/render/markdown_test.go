package render

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		contains []string
	}{
		{
			name:     "heading and paragraph",
			markdown: "# Test Header\n\nSome content with `code`",
			contains: []string{"Test Header</h1>", "<code>code</code>"},
		},
		{
			name:     "code block with syntax highlighting",
			markdown: "```go\nfunc main() {\n    fmt.Println(\"Hello\")\n}\n```",
			contains: []string{`<div class="highlight">`, "chroma"},
		},
		{
			name:     "mixed line endings",
			markdown: "# Title\r\n\r\nContent\r\nMore content\n\nEnd",
			contains: []string{"Title</h1>", "End"},
		},
		{
			name:     "unicode content",
			markdown: "# 测试 🚀\n\nContent with emoji 😀 and unicode ñáéíóú",
			contains: []string{"测试 🚀", "ñáéíóú"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, _ := RenderMarkdown([]byte(tt.markdown), "github")
			for _, want := range tt.contains {
				if !strings.Contains(string(html), want) {
					t.Errorf("Expected %q in output:\n%s", want, html)
				}
			}
		})
	}
}

func TestRenderMarkdownMmark_TitleBlock(t *testing.T) {
	md := "%%%\ntitle = \"From Front Matter\"\n%%%\n\nBody text.\n"
	html, info := RenderMarkdownMmark([]byte(md), "github")
	if info == nil || info.Title != "From Front Matter" {
		t.Fatalf("Expected title from front matter, got %+v", info)
	}
	if !strings.Contains(string(html), "Body text.") {
		t.Errorf("Expected body in output:\n%s", html)
	}

	_, info = RenderMarkdownMmark([]byte("No title block here."), "github")
	if info == nil || info.Title != "Untitled Post" {
		t.Errorf("Expected placeholder title, got %+v", info)
	}
}

func TestHighlightCode_UnknownLanguageAndTheme(t *testing.T) {
	got := HighlightCode("plain <text>", "no-such-language", "no-such-theme")
	if got == "" {
		t.Fatal("Expected highlighted output")
	}
	if strings.Contains(got, "<text>") {
		t.Errorf("Code should stay escaped: %s", got)
	}
}

func BenchmarkRenderMarkdown(b *testing.B) {
	markdown := []byte(`# Performance Test

This is a test document with some **bold text** and *italic text*.

` + "```go" + `
func main() {
    for i := 0; i < 10; i++ {
        fmt.Printf("Count: %d\n", i)
    }
}
` + "```" + `
`)

	for i := 0; i < b.N; i++ {
		RenderMarkdown(markdown, "github")
	}
}
