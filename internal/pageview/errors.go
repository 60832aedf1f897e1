package pageview

import "errors"

// ErrUnknownView is returned for ids that were never opened, were closed,
// or expired.
var ErrUnknownView = errors.New("unknown page view")
