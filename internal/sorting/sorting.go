// Package sorting orders post collections by a reader-selected criterion.
package sorting

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/postdate"
)

var sortLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	sortLogger = l
}

// Sort returns a new slice holding posts ordered by c. The input is never
// modified and ties keep their input order. Posts whose date does not parse
// are placed after every dated post for both date directions.
// An unrecognized criterion returns the posts in their current order.
func Sort(posts []model.Post, c model.Criterion) []model.Post {
	out := slices.Clone(posts)
	if out == nil {
		out = []model.Post{}
	}

	switch c {
	case model.NewestFirst:
		slices.SortStableFunc(out, byDate(true))
	case model.OldestFirst:
		slices.SortStableFunc(out, byDate(false))
	case model.TitleAscending:
		slices.SortStableFunc(out, byTitle(false))
	case model.TitleDescending:
		slices.SortStableFunc(out, byTitle(true))
	default:
		sortLogger.Warn().Str("criterion", string(c)).Msg("Unknown sort criterion, keeping current order")
	}

	return out
}

// Latest returns at most n posts, newest first.
func Latest(posts []model.Post, n int) []model.Post {
	sorted := Sort(posts, model.NewestFirst)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func byDate(descending bool) func(a, b model.Post) int {
	return func(a, b model.Post) int {
		cmp, aOK, bOK := postdate.Compare(a.Date, b.Date)
		switch {
		case !aOK && !bOK:
			return 0
		case !aOK:
			return 1
		case !bOK:
			return -1
		case descending:
			return -cmp
		default:
			return cmp
		}
	}
}

func byTitle(descending bool) func(a, b model.Post) int {
	// A Collator keeps scratch buffers and is not safe for concurrent use.
	col := collate.New(language.English)
	return func(a, b model.Post) int {
		ta := strings.ToLower(a.SortTitle())
		tb := strings.ToLower(b.SortTitle())
		if descending {
			return col.CompareString(tb, ta)
		}
		return col.CompareString(ta, tb)
	}
}
