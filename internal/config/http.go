package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HHxRequest    = "Hx-Request"

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html; charset=utf-8"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieTheme       = "theme"
	CookieSyntaxTheme = "syntax-theme"
)

const (
	QueryPostID    = "id"
	QueryView      = "view"
	QueryCriterion = "sort-by"
)
