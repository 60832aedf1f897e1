package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/debemdeboas/insights/internal/config"
	"github.com/debemdeboas/insights/internal/db"
	"github.com/debemdeboas/insights/internal/logger"
	"github.com/debemdeboas/insights/internal/postbuild"
	"github.com/debemdeboas/insights/internal/render"
	"github.com/debemdeboas/insights/internal/repository"
	"github.com/debemdeboas/insights/internal/util/compression"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func run(ctx context.Context, cmd *cli.Command) error {
	l := logger.New(cmd.String("log-level"))
	postbuild.SetLogger(logger.Component(l, "postbuild"))
	render.SetLogger(logger.Component(l, "render"))
	db.SetLogger(logger.Component(l, "db"))

	compressor, ok := compression.ByName(cmd.String("compress"))
	if !ok {
		return fmt.Errorf("unsupported compression %q", cmd.String("compress"))
	}

	build := func(ctx context.Context) error {
		res, err := postbuild.Build(ctx, cmd.String("dir"), postbuild.Options{
			SyntaxTheme:   cmd.String("syntax-theme"),
			IncludeDrafts: cmd.Bool("drafts"),
		})
		if err != nil {
			return err
		}
		if err := export(ctx, res, cmd.String("out"), cmd.String("sqlite"), compressor); err != nil {
			return err
		}
		fmt.Println(summary(res, cmd.String("out"), cmd.String("sqlite")))
		return nil
	}

	if err := build(ctx); err != nil {
		return err
	}
	if !cmd.Bool("watch") {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return postbuild.Watch(ctx, cmd.String("dir"), cmd.Duration("debounce"), build)
}

func export(ctx context.Context, res *postbuild.Result, out, sqlite string, compressor compression.Compressor) error {
	if err := postbuild.WriteFile(out, res.Posts, compressor); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if sqlite == "" {
		return nil
	}

	database := db.NewSQLite(sqlite)
	if err := database.InitDB(); err != nil {
		return err
	}
	defer database.Close()

	if err := repository.WritePosts(ctx, database, res.Posts); err != nil {
		return fmt.Errorf("exporting to %s: %w", sqlite, err)
	}
	return nil
}

func summary(res *postbuild.Result, out, sqlite string) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}

	rows := []string{
		titleStyle.Render("Posts compiled"),
		row("Markdown files", strconv.Itoa(res.Files)),
		row("Posts written", strconv.Itoa(len(res.Posts))),
		row("Drafts skipped", strconv.Itoa(res.Drafts)),
		row("Output", out),
	}
	if sqlite != "" {
		rows = append(rows, row("SQLite export", sqlite))
	}
	for _, w := range res.Warnings {
		rows = append(rows, warnStyle.Render("! "+w.String()))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func newCommand() *cli.Command {
	defaults := config.Default()

	return &cli.Command{
		Name:   "build-posts",
		Usage:  "Compile a directory of Markdown posts into the posts document",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Usage:    "Directory containing the .md posts",
				Required: true,
				Sources:  cli.EnvVars("INSIGHTS_POSTS_DIR"),
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file",
				Value:   defaults.Source.URL,
			},
			&cli.StringFlag{
				Name:  "compress",
				Usage: "Output compression: none, gzip or zstd",
				Value: "none",
			},
			&cli.StringFlag{
				Name:  "sqlite",
				Usage: "Also export the posts to this SQLite database",
			},
			&cli.StringFlag{
				Name:  "syntax-theme",
				Usage: "Chroma style for code blocks",
				Value: defaults.Theme.SyntaxHighlighting.DefaultDark,
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Rebuild whenever a post changes",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before a rebuild in watch mode",
				Value: postbuild.DefaultDebounce,
			},
			&cli.BoolFlag{
				Name:  "drafts",
				Usage: "Include posts marked as drafts",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level",
				Value:   defaults.Logging.Level,
				Sources: cli.EnvVars("INSIGHTS_LOG_LEVEL"),
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, warnStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
