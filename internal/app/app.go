package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/bodyscale/internal/config"
	"github.com/five82/bodyscale/internal/logging"
	"github.com/five82/bodyscale/internal/prefs"
	"github.com/five82/bodyscale/internal/state"
	"github.com/five82/bodyscale/internal/ui"
)

// Options configure the dashboard.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/bodyscale/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the dashboard until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.HasCredentials() {
		return errMissingCredentials
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logFile, err := logging.OpenFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.New(logFile, level, false)

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	store := &state.Store{}

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	logger.Info("dashboard starting", "host", cfg.Host, "port", cfg.Port, "proxy", cfg.ProxyHost != "", "interval", interval)

	StartPoller(ctx, store, client, Credentials{UserID: cfg.UserID, PublicKey: cfg.PublicKey}, interval, logger)

	return ui.Run(ui.Options{
		Context:    ctx,
		Store:      store,
		LogPath:    cfg.LogPath(),
		ThemeName:  userPrefs.Theme,
		WeightUnit: userPrefs.WeightUnit,
		PrefsPath:  opts.PrefsPath,
	})
}
