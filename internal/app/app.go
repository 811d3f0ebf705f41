package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/five82/nib/internal/config"
	"github.com/five82/nib/internal/inkwell"
	"github.com/five82/nib/internal/logging"
	"github.com/five82/nib/internal/prefs"
	"github.com/five82/nib/internal/session"
	"github.com/five82/nib/internal/state"
	"github.com/five82/nib/internal/ui"
)

// Options configure the nib application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/nib/prefs.toml
	PollEvery  int    // seconds; zero uses default

	// Stdin and Stdout serve the non-interactive commands. Nil uses the
	// process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// env is everything a command needs once configuration has been read.
type env struct {
	cfg    config.Config
	prefs  prefs.Prefs
	actor  *inkwell.Actor
	client *inkwell.Client
	logger *slog.Logger
	closer io.Closer
}

func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

func setup(opts Options) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	sess, err := session.Load(cfg.SessionPath)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}

	client, err := inkwell.NewClient(cfg.APIURL)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init inkwell client: %w", err)
	}
	client = client.WithToken(cfg.AuthScheme, sess.Token)

	actor := sess.CurrentActor()
	logger.Info("nib starting",
		"api", cfg.APIURL,
		"signed_in", actor != nil,
		"page_size", cfg.PageSize,
	)

	return &env{
		cfg:    cfg,
		prefs:  userPrefs,
		actor:  actor,
		client: client,
		logger: logger,
		closer: closer,
	}, nil
}

// Run boots the nib TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	scope := state.ParseScope(e.prefs.DefaultView)
	if e.actor == nil {
		scope = state.ScopeFeed
	}
	store := &state.Store{}
	store.SetQuery(state.Query{Scope: scope, Page: 1, PageSize: e.cfg.PageSize})

	// Populate the store before the UI starts.
	if err := state.Refresh(ctx, store, e.client, e.actor); err != nil {
		e.logger.Warn("initial list load failed", "error", err)
	}

	StartPoller(ctx, store, e.client, e.actor, interval, e.logger)

	uiOpts := ui.Options{
		Context:     ctx,
		API:         e.client,
		Store:       store,
		Actor:       e.actor,
		Location:    e.cfg.Location(),
		PageSize:    e.cfg.PageSize,
		PollTick:    time.Second,
		ThemeName:   e.prefs.Theme,
		PrefsPath:   opts.PrefsPath,
		DefaultView: e.prefs.DefaultView,
		Logger:      e.logger,
	}
	return ui.Run(uiOpts)
}

func (o Options) stdin() io.Reader {
	if o.Stdin == nil {
		return os.Stdin
	}
	return o.Stdin
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}
