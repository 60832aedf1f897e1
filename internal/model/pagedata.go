package model

import (
	"html/template"
	"net/http"

	"github.com/debemdeboas/insights/internal/config"
	"github.com/debemdeboas/insights/internal/theme"
)

type PageData struct {
	SiteName string
	Tagline  string

	PageURL string

	Theme string

	SyntaxCSS   template.CSS
	SyntaxTheme string

	AllowThemeSwitching bool
}

func NewPageData(r *http.Request) *PageData {
	syntaxTheme := theme.GetSyntaxThemeFromRequest(r)
	return &PageData{
		SiteName:            config.AppConfig.Site.Name,
		Tagline:             config.AppConfig.Site.Tagline,
		PageURL:             r.URL.String(),
		Theme:               theme.GetThemeFromRequest(r),
		SyntaxCSS:           theme.GenerateSyntaxCSS(syntaxTheme),
		SyntaxTheme:         syntaxTheme,
		AllowThemeSwitching: config.AppConfig.Theme.AllowSwitching,
	}
}
