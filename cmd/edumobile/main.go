package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/al211185/edumobile/internal/api"
	"github.com/al211185/edumobile/internal/cli"
	"github.com/al211185/edumobile/internal/config"
	"github.com/al211185/edumobile/internal/db"
	"github.com/al211185/edumobile/internal/server"
	"github.com/al211185/edumobile/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	var observer api.Observer = api.NoopObserver{}
	if cfg.LogCalls {
		observer = api.NewLogObserver(os.Stderr)
	}
	client := api.NewClient(api.Config{BaseURL: cfg.APIURL, Timeout: cfg.RequestTimeout()}, observer)

	app := &cli.App{
		Config:   cfg,
		Projects: client,
		Phases:   client,
		Board:    client,
		Feedback: client,
		Serve: func(ctx context.Context, addr string) error {
			return serve(ctx, cfg, addr)
		},
		Log: os.Stderr,
	}

	// Detect interactive terminal for the TUI commands.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// serve runs the reference backend over the configured SQLite database.
func serve(ctx context.Context, cfg config.Config, addr string) error {
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var useCases []service.UseCaseObserver
	var requests server.Observer
	if cfg.LogCalls {
		useCases = append(useCases, service.NewLogUseCaseObserver(os.Stderr))
		requests = server.NewLogObserver(os.Stderr)
	}

	h := server.NewRouter(server.NewServices(database, useCases...), requests)
	return server.Serve(ctx, addr, h, func(a net.Addr) {
		fmt.Fprintf(os.Stderr, "Listening on http://%s (db %s)\n", a, cfg.DBPath)
	})
}
