package model

import "fmt"

// Collection is an insertion-ordered sequence of posts as returned by a load.
type Collection []Post

// Len returns the number of posts; a nil collection is empty.
func (c Collection) Len() int {
	return len(c)
}

// Find returns the first post with the given id. Lookups are a linear scan;
// no identity map is kept.
func (c Collection) Find(id PostID) (*Post, error) {
	if id == "" {
		return nil, fmt.Errorf("empty id: %w", ErrNotFound)
	}
	for i := range c {
		if c[i].ID == id {
			return &c[i], nil
		}
	}
	return nil, fmt.Errorf("id %q: %w", id, ErrNotFound)
}
