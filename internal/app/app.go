package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/five82/photowall/internal/config"
	"github.com/five82/photowall/internal/feed"
	"github.com/five82/photowall/internal/grid"
	"github.com/five82/photowall/internal/knownset"
	"github.com/five82/photowall/internal/kvstore"
	"github.com/five82/photowall/internal/logging"
	"github.com/five82/photowall/internal/scene"
	"github.com/five82/photowall/internal/state"
	"github.com/five82/photowall/internal/ui"
	"github.com/five82/photowall/internal/wall"
)

const sceneFPS = 30

// Options configure the photowall application.
type Options struct {
	ConfigPath string
	PollEvery  time.Duration  // zero uses the configured interval
	Delay      *time.Duration // nil uses the configured initial delay
	Headless   bool
}

// runtime holds the wired components of one photowall process.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	store  kvstore.Store
	known  *knownset.Set
	client *feed.Client
	layout *grid.Layout
	scene  *scene.Scene
	status *state.Store
	coord  *wall.Coordinator
}

// Run boots photowall and blocks until the context is cancelled or the user
// quits the TUI.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	headless := opts.Headless || !term.IsTerminal(int(os.Stdout.Fd()))
	var mirror io.Writer
	if headless {
		mirror = os.Stderr
	}
	logger, closer, err := logging.Setup(logging.Options{
		File:   cfg.Logging.File,
		Level:  cfg.Logging.Level,
		Mirror: mirror,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "photowall: logging disabled: %v\n", err)
		logger = logging.Null()
	} else {
		defer closer.Close()
	}

	rt, err := build(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go rt.scene.Run(ctx, sceneFPS)
	if err := rt.coord.Start(ctx); err != nil {
		return fmt.Errorf("start coordinator: %w", err)
	}
	defer rt.coord.Stop()

	log := logging.Component(logger, "app")
	log.Info("photowall started",
		"list_url", rt.client.ListURL(),
		"known", rt.known.Len(),
		"store", cfg.Store.Backend,
		"headless", headless)

	if headless {
		<-ctx.Done()
		log.Info("photowall stopping")
		return nil
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     rt.status,
		Scene:     rt.scene,
		Prefs:     rt.store,
		ThemeName: rt.theme(),
		Logger:    logger,
	})
}

// LoadConfig reads the config file and applies command-line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if opts.Delay != nil && *opts.Delay >= 0 {
		cfg.InitialDelay = *opts.Delay
	}
	return cfg, nil
}

// OpenStore opens the configured key-value store.
func OpenStore(cfg config.Config) (kvstore.Store, error) {
	store, err := kvstore.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func build(cfg config.Config, logger *slog.Logger) (*runtime, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	known, err := knownset.Load(store, knownset.Options{
		Identity: knownset.IdentityFor(cfg.Identity),
		Logger:   logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	client, err := feed.NewClient(cfg.ListURL, cfg.RequestTimeout)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init feed client: %w", err)
	}

	viewport := grid.Size{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight}
	layout := grid.NewLayout(cfg.Columns, viewport, cfg.Spacing)
	sc := scene.New(scene.Options{
		Viewport:   viewport,
		Geometry:   layout.Geometry(),
		RevealSize: grid.Size{Width: cfg.RevealSize, Height: cfg.RevealSize},
		Logger:     logger,
	})
	status := state.NewStore(known.Len(), layout.Rows(), layout.Geometry().Columns)

	coord, err := wall.New(wall.Options{
		Fetcher:        client,
		Known:          known,
		Surface:        sc,
		Layout:         layout,
		PollInterval:   cfg.PollInterval,
		InitialDelay:   cfg.InitialDelay,
		RevealDuration: cfg.RevealDuration,
		SettleDuration: cfg.SettleDuration,
		MoveDuration:   cfg.MoveDuration,
		ResizeDuration: cfg.ResizeDuration,
		RevealSize:     cfg.RevealSize,
		Observer:       status,
		Logger:         logger,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init coordinator: %w", err)
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		store:  store,
		known:  known,
		client: client,
		layout: layout,
		scene:  sc,
		status: status,
		coord:  coord,
	}, nil
}

// theme prefers the theme saved from the UI over the configured one.
func (rt *runtime) theme() string {
	saved, err := rt.store.Get(ui.ThemeKey)
	if err != nil {
		rt.logger.Warn("read saved theme", "component", "app", "error", err)
	}
	if saved != "" {
		return saved
	}
	return rt.cfg.Theme
}

func (rt *runtime) close() {
	if err := rt.store.Close(); err != nil {
		rt.logger.Warn("close store", "component", "app", "error", err)
	}
}
