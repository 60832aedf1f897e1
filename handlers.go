package main

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/debemdeboas/insights/internal/cache"
	"github.com/debemdeboas/insights/internal/config"
	"github.com/debemdeboas/insights/internal/controller"
	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/pageview"
	"github.com/debemdeboas/insights/internal/render"
	"github.com/debemdeboas/insights/internal/routes"
	"github.com/debemdeboas/insights/internal/theme"
	"github.com/debemdeboas/insights/internal/util"
)

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	mux.Handle("GET "+config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(a.static))))

	mux.HandleFunc("GET "+routes.BlogPath+"{$}", a.serveBlog)
	mux.HandleFunc("GET "+routes.ArticlesPath, a.serveArticles)
	mux.HandleFunc("GET "+routes.PostPath, a.servePost)
	mux.HandleFunc("GET "+routes.PartialsArticles, a.servePartialArticles)
	mux.HandleFunc("DELETE "+routes.ViewPath, a.serveCloseView)

	mux.HandleFunc("POST "+routes.ThemeToggle, serveThemeToggle)
	mux.HandleFunc("POST "+routes.SyntaxThemeSet, serveSyntaxThemeSet)
	mux.HandleFunc("GET "+routes.SyntaxThemeGet, serveSyntaxThemeGet)

	securedMux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == routes.RobotsPath {
			mux.ServeHTTP(w, r)
		} else {
			secureHeaders(mux.ServeHTTP)(w, r)
		}
	})

	return cacheIt(securedMux)
}

func (a *app) execute(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(status)
	if err := a.pages[page].ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		mainLogger.Error().Err(err).Str("page", page).Msg("Failed to execute template")
	}
}

// serveBlog renders the summary tile with the latest posts.
func (a *app) serveBlog(w http.ResponseWriter, r *http.Request) {
	list := render.NewContainer("post-container")
	ctrl := controller.New(a.tile, controller.Anchors{List: list}, controller.Options{
		Profile:          render.ProfileChronological,
		DefaultCriterion: model.NewestFirst,
		Limit:            a.cfg.Pages.LatestCount,
		ErrorText:        func(error) string { return config.ErrLatestLoad },
	})
	defer ctrl.Teardown()

	status := http.StatusOK
	if err := ctrl.Init(r.Context()); err != nil {
		status = http.StatusBadGateway
	}

	data := struct {
		*model.PageData
		Posts template.HTML
	}{
		PageData: model.NewPageData(r),
		Posts:    list.HTML(),
	}

	a.execute(w, status, config.TemplateBlog, data)
}

// serveArticles opens a sortable page view over the full collection.
func (a *app) serveArticles(w http.ResponseWriter, r *http.Request) {
	selected := model.Criterion(r.URL.Query().Get(config.QueryCriterion))
	if !selected.Known() {
		selected = model.Criterion(a.cfg.Pages.DefaultCriterion)
	}

	list := render.NewContainer("all-posts-container")
	selector := &controller.Selector{ID: "sort-by", Selected: selected}
	ctrl := controller.New(a.listing, controller.Anchors{List: list, Selector: selector}, controller.Options{
		Profile:          render.ProfileListing,
		Sortable:         true,
		DefaultCriterion: selected,
	})

	data := struct {
		*model.PageData
		ViewID   pageview.ViewID
		ViewURL  string
		Criteria []model.Criterion
		Selected model.Criterion
		Posts    template.HTML
	}{
		PageData: model.NewPageData(r),
		Criteria: model.Criteria,
		Selected: selected,
	}

	status := http.StatusOK
	if err := ctrl.Init(r.Context()); err != nil {
		// Failed views are terminal, there is nothing to keep.
		ctrl.Teardown()
		status = http.StatusBadGateway
	} else {
		data.ViewID = a.views.Open(ctrl)
		data.ViewURL = routes.ViewLink(string(data.ViewID))
	}
	data.Posts = list.HTML()

	w.Header().Set(config.HCacheControl, "no-store")
	a.execute(w, status, config.TemplateArticles, data)
}

// servePartialArticles re-sorts an open page view and answers with the new
// list fragment.
func (a *app) servePartialArticles(w http.ResponseWriter, r *http.Request) {
	id := pageview.ViewID(r.URL.Query().Get(config.QueryView))
	criterion := model.Criterion(r.URL.Query().Get(config.QueryCriterion))

	ctrl, err := a.views.Get(id)
	if err != nil {
		mainLogger.Info().Msgf(config.ErrUnknownViewFmt, id)
		writeFragment(w, http.StatusGone, render.Notice(config.ErrViewExpired))
		return
	}

	if err := ctrl.SelectCriterion(criterion); err != nil {
		status := http.StatusConflict
		if errors.Is(err, controller.ErrClosed) {
			status = http.StatusGone
		}
		writeFragment(w, status, render.Notice(config.ErrViewExpired))
		return
	}

	writeFragment(w, http.StatusOK, ctrl.Fragment())
}

func (a *app) serveCloseView(w http.ResponseWriter, r *http.Request) {
	a.views.Close(pageview.ViewID(r.PathValue("view")))
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) servePost(w http.ResponseWriter, r *http.Request) {
	id := model.PostID(r.URL.Query().Get(config.QueryPostID))

	post, err := controller.NewPostView(a.listing).Show(r.Context(), id)
	status := http.StatusOK
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case err != nil:
		status = http.StatusBadGateway
		post.Title = "Error"
	}

	data := struct {
		*model.PageData
		Post render.SinglePost
	}{
		PageData: model.NewPageData(r),
		Post:     post,
	}

	a.execute(w, status, config.TemplatePost, data)
}

func writeFragment(w http.ResponseWriter, status int, fragment template.HTML) {
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.Header().Set(config.HCacheControl, "no-store")
	w.WriteHeader(status)
	w.Write([]byte(fragment))
}

func cacheIt(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			if r.Header.Get("If-None-Match") == hash {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		h(w, r)
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")

		h(w, r)
	}
}

func serveThemeToggle(w http.ResponseWriter, r *http.Request) {
	newTheme := theme.Opposite(theme.GetThemeFromRequest(r))

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    newTheme,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	syntaxTheme := theme.GetDefaultSyntaxTheme(newTheme)
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil && cookie.Value != "" {
		syntaxTheme = cookie.Value
	}

	w.Header().Set("Hx-Trigger", fmt.Sprintf(`{"themeChanged":{"value":%q,"syntaxTheme":%q}}`, newTheme, syntaxTheme))
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}

func serveSyntaxThemeSet(w http.ResponseWriter, r *http.Request) {
	currTheme := r.FormValue("syntax-theme-select")
	if !theme.IsSyntaxTheme(currTheme) {
		http.Error(w, "unknown syntax theme", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSyntaxTheme,
		Value:    currTheme,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeCSS(w, []byte(theme.GenerateSyntaxCSS(currTheme)))
}

func serveSyntaxThemeGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("theme")
	if !theme.IsSyntaxTheme(name) {
		http.NotFound(w, r)
		return
	}
	writeCSS(w, []byte(theme.GenerateSyntaxCSS(name)))
}

func writeCSS(w http.ResponseWriter, css []byte) {
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ContentHash(css))
	w.WriteHeader(http.StatusOK)
	w.Write(css)
}
