package model

// Criterion is the sort key selected by the reader. The values match the
// option values of the #sort-by selector.
type Criterion string

const (
	NewestFirst     Criterion = "date-desc"
	OldestFirst     Criterion = "date-asc"
	TitleAscending  Criterion = "title-asc"
	TitleDescending Criterion = "title-desc"

	DefaultCriterion = NewestFirst
)

// Criteria lists the recognized criteria in selector order.
var Criteria = []Criterion{NewestFirst, OldestFirst, TitleAscending, TitleDescending}

var criterionLabels = map[Criterion]string{
	NewestFirst:     "Newest first",
	OldestFirst:     "Oldest first",
	TitleAscending:  "Title (A-Z)",
	TitleDescending: "Title (Z-A)",
}

// Known reports whether c is one of the recognized criteria.
func (c Criterion) Known() bool {
	_, ok := criterionLabels[c]
	return ok
}

func (c Criterion) Label() string {
	if l, ok := criterionLabels[c]; ok {
		return l
	}
	return string(c)
}
