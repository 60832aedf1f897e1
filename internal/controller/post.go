package controller

import (
	"context"

	"github.com/debemdeboas/insights/internal/config"
	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/render"
)

// PostView renders the detail view of a single post.
type PostView struct {
	loader Loader
}

func NewPostView(loader Loader) *PostView {
	return &PostView{loader: loader}
}

// Show loads the collection once and looks id up with a linear scan. A
// missing post renders the not-found view and returns an error wrapping
// model.ErrNotFound. A load failure renders an inline error.
func (v *PostView) Show(ctx context.Context, id model.PostID) (render.SinglePost, error) {
	posts, err := v.loader.Load(ctx)
	if err != nil {
		controllerLogger.Error().Err(err).Str("id", string(id)).Msg("Failed to load post")
		return render.SinglePost{Body: render.Error(config.ErrPostLoad)}, err
	}

	post, err := posts.Find(id)
	if err != nil {
		controllerLogger.Info().Str("id", string(id)).Msg("Post not found")
		return render.Single(nil), err
	}

	return render.Single(post), nil
}
