package config

const (
	// Load errors shown inline in the page
	ErrArticlesLoadFmt = "Sorry, something went wrong while loading the articles: %s. Please try again later."
	ErrLatestLoad      = "Could not load recent posts. Please try again later."
	ErrPostLoad        = "Failed to load the post."

	// Page wiring errors
	ErrMissingContainer = "Posts container not found, nothing will be rendered"
	ErrMissingSelector  = "Sort selector not found, rendering posts in fetched order"
	ErrSortingDisabled  = "Sorting functionality is unavailable. Loading posts with default order..."

	// Startup errors
	ErrLoadConfigFmt  = "Failed to load config: %v"
	ErrOpenSourceFmt  = "Failed to open posts source: %v"
	ErrParseTemplates = "Failed to parse templates"
	ErrUnknownViewFmt = "Unknown or expired page view %q"

	// Partial request errors
	ErrViewExpired = "This page has expired. Reload it to change the sort order."
)
