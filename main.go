package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/debemdeboas/insights/internal/cache"
	"github.com/debemdeboas/insights/internal/config"
	"github.com/debemdeboas/insights/internal/controller"
	"github.com/debemdeboas/insights/internal/db"
	"github.com/debemdeboas/insights/internal/logger"
	"github.com/debemdeboas/insights/internal/pageview"
	"github.com/debemdeboas/insights/internal/render"
	"github.com/debemdeboas/insights/internal/repository"
	"github.com/debemdeboas/insights/internal/sorting"
	"github.com/debemdeboas/insights/internal/theme"
	"github.com/debemdeboas/insights/internal/util"
)

//go:embed static/* templates/*
var content embed.FS

// EnvConfigPath overrides the location of the YAML configuration.
const EnvConfigPath = "INSIGHTS_CONFIG"

var mainLogger = zerolog.Nop()

func main() {
	bootLogger := logger.New("info")

	if err := godotenv.Load(); err != nil {
		bootLogger.Debug().Err(err).Msg("No .env file loaded")
	}

	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		configPath = "config.yaml"
	}

	config.SetLogger(logger.Component(bootLogger, "config"))
	if err := config.LoadConfig(configPath); err != nil {
		bootLogger.Fatal().Msgf(config.ErrLoadConfigFmt, err)
	}
	cfg := config.AppConfig

	setLoggers(logger.New(cfg.Logging.Level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := repository.OpenSource(ctx, cfg.Source.URL, repository.SourceOptions{
		Timeout:    cfg.Source.Timeout,
		S3Region:   cfg.Source.S3.Region,
		S3Endpoint: cfg.Source.S3.Endpoint,
	})
	if err != nil {
		mainLogger.Fatal().Msgf(config.ErrOpenSourceFmt, err)
	}

	a, err := newApp(source, cfg)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg(config.ErrParseTemplates)
	}
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.views.Run(gCtx, cfg.Views.SweepInterval)
		return nil
	})

	g.Go(func() error {
		mainLogger.Info().
			Str("addr", server.Addr).
			Str("source", source.String()).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			mainLogger.Error().Err(err).Msg("Server shutdown failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		mainLogger.Fatal().Err(err).Msg("Server failed")
	}
	mainLogger.Info().Msg("Server stopped")
}

func setLoggers(l zerolog.Logger) {
	mainLogger = logger.Component(l, "main")
	config.SetLogger(logger.Component(l, "config"))
	controller.SetLogger(logger.Component(l, "controller"))
	db.SetLogger(logger.Component(l, "db"))
	pageview.SetLogger(logger.Component(l, "pageview"))
	render.SetLogger(logger.Component(l, "render"))
	repository.SetLogger(logger.Component(l, "repository"))
	sorting.SetLogger(logger.Component(l, "sorting"))
}

type app struct {
	cfg *config.Config

	// The articles listing leaves missing ids empty while the summary tile
	// synthesizes them. Both read the same source.
	listing *repository.Store
	tile    *repository.Store

	views  *pageview.Registry
	pages  map[string]*template.Template
	static fs.FS
}

func newApp(source repository.Source, cfg *config.Config) (*app, error) {
	static, err := fs.Sub(content, config.StaticLocalDir)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		listing: repository.NewStore(source, repository.KeepMissingID),
		tile:    repository.NewStore(source, repository.SynthesizeMissingID),
		views:   pageview.NewRegistry(cfg.Views.IdleTimeout, cfg.Views.MaxOpen),
		pages:   make(map[string]*template.Template),
		static:  static,
	}

	for _, page := range []string{config.TemplateBlog, config.TemplateArticles, config.TemplatePost} {
		tmpl, err := template.New(config.TemplateLayout).Funcs(templateFuncs).ParseFS(content,
			config.TemplatesLocalDir+"/"+config.TemplateLayout,
			config.TemplatesLocalDir+"/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		a.pages[page] = tmpl
	}

	// Hash static content for ETags
	err = fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		cache.SetStaticHash(config.StaticUrlPath+path, util.ContentHash(data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hashing static content: %w", err)
	}

	return a, nil
}

var templateFuncs = template.FuncMap{
	"themeIcon": func(t string) template.HTML {
		return template.HTML(theme.GetThemeIcon(t))
	},
	"syntaxThemes": theme.GetSyntaxThemes,
}
