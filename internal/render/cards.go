package render

import (
	"html/template"

	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/postdate"
	"github.com/debemdeboas/insights/internal/routes"
)

// Profile selects which fields a post card shows.
type Profile int

const (
	// ProfileListing renders title, summary and link.
	ProfileListing Profile = iota
	// ProfileChronological also renders the formatted date.
	ProfileChronological
)

const (
	EmptyListing       = "No articles found matching your criteria."
	EmptyChronological = "No recent posts found."

	NotFoundTitle = "Post Not Found"
	NotFoundBody  = "The post you are looking for does not exist."
)

// EmptyText is the fragment text shown when there is nothing to list.
func (p Profile) EmptyText() string {
	if p == ProfileChronological {
		return EmptyChronological
	}
	return EmptyListing
}

type card struct {
	Title    string
	ShowDate bool
	Date     string
	Summary  string
	Link     string
}

type listData struct {
	Cards []card
	Empty string
}

// List renders one card per post in the given order. Nil or empty input
// renders the profile's empty state.
func List(posts []model.Post, profile Profile) template.HTML {
	return ListWithEmpty(posts, profile, profile.EmptyText())
}

// ListWithEmpty is List with a caller-chosen empty state text.
func ListWithEmpty(posts []model.Post, profile Profile, empty string) template.HTML {
	data := listData{Empty: empty}
	for i := range posts {
		p := &posts[i]
		c := card{
			Title:   p.DisplayTitle(),
			Summary: Summary(p),
			Link:    routes.PostLink(string(p.ID)),
		}
		if profile == ProfileChronological {
			c.ShowDate = true
			c.Date = postdate.Format(p.Date)
		}
		data.Cards = append(data.Cards, c)
	}
	return execute("list", data)
}

// SinglePost is the title and body pair of the post detail view.
type SinglePost struct {
	Found bool
	Title string
	Date  string
	Body  template.HTML
}

// Single renders a post for the detail view, or the not-found view when p
// is nil. Content is trusted HTML produced by the posts builder.
func Single(p *model.Post) SinglePost {
	if p == nil {
		return SinglePost{
			Title: NotFoundTitle,
			Body:  execute("notice", NotFoundBody),
		}
	}
	return SinglePost{
		Found: true,
		Title: p.DisplayTitle(),
		Date:  postdate.Format(p.Date),
		Body:  template.HTML(p.Content),
	}
}

// Error renders an inline failure message.
func Error(msg string) template.HTML {
	return execute("error", msg)
}

// Notice renders an inline informational message.
func Notice(msg string) template.HTML {
	return execute("notice", msg)
}

// Target receives rendered fragments.
type Target interface {
	Replace(fragment template.HTML)
}

// Container is a Target that keeps only the latest fragment. It is not safe
// for concurrent use; callers serialize access.
type Container struct {
	id      string
	content template.HTML
}

func NewContainer(id string) *Container {
	return &Container{id: id}
}

func (c *Container) ID() string {
	return c.id
}

// Replace discards the previous contents.
func (c *Container) Replace(fragment template.HTML) {
	c.content = fragment
}

func (c *Container) HTML() template.HTML {
	return c.content
}
