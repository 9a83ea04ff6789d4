package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/sushantdwivedi/Frame-io/internal/annotation"
	"github.com/sushantdwivedi/Frame-io/internal/config"
	"github.com/sushantdwivedi/Frame-io/internal/listing"
	"github.com/sushantdwivedi/Frame-io/internal/observability"
	"github.com/sushantdwivedi/Frame-io/internal/player"
	"github.com/sushantdwivedi/Frame-io/internal/state"
	"github.com/sushantdwivedi/Frame-io/internal/storage"
	"github.com/sushantdwivedi/Frame-io/internal/ui"
)

const usage = `usage: frameio [command]

commands:
  review    open the review window (default)
  comments  print the saved comments
  reset     delete every saved comment and drawing

environment:
  FRAMEIO_CONFIG     path to a YAML config file (default frameio.yaml)
  FRAMEIO_STORAGE    sqlite or memory
  FRAMEIO_DB_PATH    sqlite database path
  FRAMEIO_LOG_LEVEL  debug, info, warn or error
  FRAMEIO_LOG_FORMAT json or text
  FRAMEIO_USER_NAME  author name stamped on comments
`

var errUsage = errors.New("unknown command")

func main() {
	cmd := "review"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "review", "comments", "reset":
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := observability.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	if err := run(cmd, cfg); err != nil {
		logger.Error("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

// run executes cmd. Resources it opens are released before it returns.
func run(cmd string, cfg *config.Config) error {
	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "review":
		return runReview(ctx, cfg, store)
	case "comments":
		return printComments(ctx, store)
	case "reset":
		if err := store.ClearAll(ctx); err != nil {
			return err
		}
		fmt.Println("All comments and drawings deleted.")
		return nil
	}
	return fmt.Errorf("%w: %s", errUsage, cmd)
}

func configPath() string {
	if p := os.Getenv("FRAMEIO_CONFIG"); p != "" {
		return p
	}
	return "frameio.yaml"
}

func runReview(ctx context.Context, cfg *config.Config, store storage.Store) error {
	sim := player.NewSimulated(cfg.Video.DurationMs)
	session, err := annotation.NewSession(annotation.Options{
		Store:            store,
		Player:           sim,
		Surface:          state.NewSurface(cfg.Surface.Width),
		User:             state.User{Name: cfg.User.Name, Avatar: cfg.User.Avatar},
		Color:            cfg.Drawing.Color,
		Width:            cfg.Drawing.Width,
		MaxPoints:        cfg.Drawing.MaxPoints,
		DriftThresholdMs: cfg.Sync.DriftThresholdMs,
		EndThresholdMs:   cfg.Sync.EndThresholdMs,
	})
	if err != nil {
		return err
	}
	// A failed load leaves the session empty; the window still opens.
	if err := session.Load(ctx); err != nil {
		log.Printf("Starting without saved annotations: %v", err)
	}
	ui.RunApp(ctx, cfg, session, sim)
	return nil
}

func printComments(ctx context.Context, store storage.Store) error {
	comments, err := store.LoadComments(ctx)
	if err != nil {
		return err
	}
	fmt.Print(listing.Render(comments))
	return nil
}
