// Package routes defines HTTP route constants for the application.
package routes

import "net/url"

const (
	// Static and assets
	RobotsPath     = "/robots.txt"
	ThemeToggle    = "/theme/toggle"
	SyntaxThemeGet = "/syntax-theme/{theme}"
	SyntaxThemeSet = "/syntax-theme/set"

	// Pages
	BlogPath     = "/"
	ArticlesPath = "/articles"
	PostPath     = "/post"

	// Partials
	PartialsArticles = "/partials/articles"

	// Page view lifecycle
	ViewPath = "/views/{view}"
)

// ViewLink returns the lifecycle URL of a page view.
func ViewLink(view string) string {
	return "/views/" + url.PathEscape(view)
}

// PostLink returns the detail page link for a post id.
func PostLink(id string) string {
	return PostPath + "?id=" + url.QueryEscape(id)
}
