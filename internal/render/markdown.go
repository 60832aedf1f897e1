package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mmarkdown/mmark/v2/lang"
	"github.com/mmarkdown/mmark/v2/mast"
	"github.com/mmarkdown/mmark/v2/mparser"
	"github.com/mmarkdown/mmark/v2/render/mhtml"

	"github.com/debemdeboas/insights/internal/config"
	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/theme"
)

func HighlightCode(code, language, highlightTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	style := styles.Get(highlightTheme)
	if style == nil {
		style = styles.Fallback
	}

	var buf strings.Builder
	if err := theme.GetFormatter().Format(&buf, style, iterator); err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Failed to highlight code block")
		return html.EscapeString(code)
	}

	res := config.RegexCallout.ReplaceAllString(buf.String(), "<span class=\"callout\">$1</span>")
	return res
}

// RenderMarkdown converts a post body to HTML with the configured renderer.
// The mmark renderer also returns the document's title block, if any.
func RenderMarkdown(md []byte, highlightTheme string) ([]byte, *mast.TitleData) {
	switch config.MarkdownRenderer {
	case "mmark":
		return RenderMarkdownMmark(md, highlightTheme)
	default:
		return RenderMarkdownClassic(md, highlightTheme), nil
	}
}

func codeBlockHook(highlightTheme string) func(w io.Writer, node ast.Node, entering bool) bool {
	return func(w io.Writer, node ast.Node, entering bool) bool {
		code, ok := node.(*ast.CodeBlock)
		if !ok || !entering {
			return false
		}
		var lang string
		if info := code.Info; info != nil {
			lang = string(info)
		}
		fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", HighlightCode(string(code.Literal), lang, highlightTheme))
		return true
	}
}

func RenderMarkdownClassic(md []byte, highlightTheme string) []byte {
	highlight := codeBlockHook(highlightTheme)
	opts := md_html.RendererOptions{
		Flags:    md_html.CommonFlags | md_html.HrefTargetBlank | md_html.FootnoteReturnLinks,
		Comments: [][]byte{[]byte("//"), []byte("#")},
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if highlight(w, node, entering) {
				return ast.GoToNext, true
			}

			if callout, ok := node.(*ast.Callout); ok && entering {
				fmt.Fprintf(w, "<span class=\"callout\">%s</span>", callout.ID)
				return ast.GoToNext, true
			}

			return ast.GoToNext, false
		},
	}

	doc := parser.NewWithExtensions(
		parser.Tables | parser.FencedCode | parser.Autolink | parser.Strikethrough | parser.SpaceHeadings |
			parser.HeadingIDs | parser.BackslashLineBreak | parser.SuperSubscript | parser.DefinitionLists | parser.MathJax |
			parser.AutoHeadingIDs | parser.Footnotes | parser.OrderedListStart | parser.Attributes |
			parser.NonBlockingSpace,
	).Parse(md)

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

func RenderMarkdownMmark(md []byte, highlightTheme string) ([]byte, *mast.TitleData) {
	md = markdown.NormalizeNewlines(md)

	p := parser.NewWithExtensions(mparser.Extensions | parser.NoIntraEmphasis)

	init := mparser.NewInitial("")
	var info *mast.TitleData

	p.Opts = parser.Options{
		ParserHook: func(data []byte) (ast.Node, []byte, int) {
			node, data, consumed := mparser.Hook(data)
			if t, ok := node.(*mast.Title); ok {
				info = t.TitleData
			}
			return node, data, consumed
		},
		ReadIncludeFn: init.ReadInclude,
		Flags:         parser.FlagsNone,
	}

	doc := markdown.Parse(md, p)

	mparser.AddIndex(doc)

	// Documents without a title block still need a language for mhtml
	language := "en"
	if info != nil && info.Language != "" {
		language = info.Language
	}

	mhtmlOpts := mhtml.RendererOptions{
		Language: lang.New(language),
	}

	highlight := codeBlockHook(highlightTheme)
	opts := md_html.RendererOptions{
		Comments: [][]byte{[]byte("//"), []byte("#")},
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if highlight(w, node, entering) {
				return ast.GoToNext, true
			}
			return mhtmlOpts.RenderHook(w, node, entering)
		},
		Flags: md_html.CommonFlags | md_html.FootnoteNoHRTag | md_html.FootnoteReturnLinks,
	}

	out := markdown.Render(doc, md_html.NewRenderer(opts))

	if info == nil {
		info = &mast.TitleData{Title: model.UntitledPost, Language: language}
	}
	return out, info
}
