package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"agentview/internal/app"
	serverclient "agentview/internal/client"
	"agentview/internal/config"
	"agentview/internal/logging"
	"agentview/internal/store"
)

type uiRunner func(ctx context.Context, cfg config.Config, sessionID string) error

type UICommand struct {
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	runUI      uiRunner
}

func NewUICommand(stderr io.Writer, loadConfig func() (config.Config, error), runUI uiRunner) *UICommand {
	return &UICommand{
		stderr:     stderr,
		loadConfig: loadConfig,
		runUI:      runUI,
	}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	sessionID := fs.String("session", "", "session to open on start")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sessionID == "" && fs.NArg() > 0 {
		*sessionID = fs.Arg(0)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	return c.runUI(ctx, cfg, *sessionID)
}

// runTerminalUI wires the file logger, the local state repository and the
// server client into the full-screen model.
func runTerminalUI(ctx context.Context, cfg config.Config, sessionID string) error {
	logger := logging.Nop()
	if logPath, err := config.UILogPath(); err == nil {
		if err := ensureDataDir(); err == nil {
			fileLogger, closer, err := logging.OpenFile(logPath, logging.ParseLevel(cfg.LogLevel()))
			if err == nil {
				defer closer.Close()
				logger = fileLogger
			}
		}
	}

	client, err := serverclient.New(cfg)
	if err != nil {
		return err
	}
	client.SetLogger(logger)

	api := app.NewClientAPI(client)
	opts := app.Options{
		API:       api,
		Files:     api,
		Logger:    logger,
		Config:    cfg,
		SessionID: sessionID,
	}

	repo, err := openRepository()
	if err != nil {
		logger.Warn("ui state unavailable", logging.Err(err))
	} else {
		defer repo.Close()
		logger.Info("ui state opened", logging.F("backend", repo.Backend()))
		opts.States = repo.AppState()
	}
	return app.Run(ctx, opts)
}

func openRepository() (store.Repository, error) {
	dbPath, err := config.StateDBPath()
	if err != nil {
		return nil, err
	}
	fallbackPath, err := config.StateFallbackPath()
	if err != nil {
		return nil, err
	}
	if err := ensureDataDir(); err != nil {
		return nil, err
	}
	return store.OpenRepository(store.RepositoryPaths{DBPath: dbPath, AppStatePath: fallbackPath})
}

func ensureDataDir() error {
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dataDir, err)
	}
	return nil
}
