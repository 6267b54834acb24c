package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/editor"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

var _ editor.Saver = (*state.Store)(nil)

// Options configure the shelf application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shelf/prefs.toml
	APIURL     string
	PollEvery  time.Duration
}

// Run boots the shelf TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}

	logFile, err := logging.OpenFile(cfg.LogPath)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := logging.New(logFile, cfg.LogLevel)

	client, err := catalog.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}
	logger.Info(ctx, "starting", "api", client.BaseURL(), "poll", cfg.PollInterval)

	store := state.NewStore(client, logger)
	StartPoller(ctx, store, cfg.PollInterval, logger)

	userPrefs := prefs.Load(opts.PrefsPath)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Config:    &cfg,
		APIURL:    client.BaseURL(),
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	})
	logger.Info(ctx, "stopped", "error", err)
	return err
}
