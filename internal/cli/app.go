/*
Package cli implements the calc-hub commands.

Every command builds an app from the config file and the global flags, runs
against the visitor's persistent store, and closes it again. Output goes to
the command's stdout so commands can be exercised in tests.
*/
package cli

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/khanglvm/calc-hub/internal/affinity"
	"github.com/khanglvm/calc-hub/internal/assignment"
	"github.com/khanglvm/calc-hub/internal/catalog"
	"github.com/khanglvm/calc-hub/internal/config"
	"github.com/khanglvm/calc-hub/internal/experiments"
	"github.com/khanglvm/calc-hub/internal/history"
	"github.com/khanglvm/calc-hub/internal/logging"
	"github.com/khanglvm/calc-hub/internal/personalize"
	"github.com/khanglvm/calc-hub/internal/recommend"
	"github.com/khanglvm/calc-hub/internal/search"
	"github.com/khanglvm/calc-hub/internal/storage"
	"github.com/khanglvm/calc-hub/internal/tracking"
	"github.com/khanglvm/calc-hub/internal/visitor"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	visitorID  string
	backend    string
	dbPath     string
	verbose    bool
	noTrack    bool
}

// app is the composition root for one command run.
type app struct {
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
	store      storage.Storage
	registry   *experiments.Registry
	catalog    *catalog.Catalog
	visitorID  string
	tracker    *tracking.Tracker
	history    *history.Store
	service    *personalize.Service
	index      *search.Indexer
}

// loadConfig reads the config named by --config, or the default location.
// A missing file yields the defaults.
func loadConfig(opts *globalOptions) (*config.Config, string, error) {
	return config.Load(opts.configPath)
}

// loadTests returns the configured experiments, or the built-in tests when no
// file is configured. A file that cannot be read or parsed leaves no test
// active; the error describes why.
func loadTests(cfg *config.Config, configPath string) ([]experiments.Test, error) {
	path := cfg.ResolveExperimentsFile(configPath)
	if path == "" {
		return experiments.DefaultTests(), nil
	}
	tests, err := experiments.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return tests, nil
}

func newApp(opts *globalOptions) (*app, error) {
	cfg, configPath, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
	}
	if opts.dbPath != "" {
		cfg.Storage.Path = opts.dbPath
	}

	level := cfg.Logging.Level
	if opts.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	tests, err := loadTests(cfg, configPath)
	if err != nil {
		logger.Warn("experiments file unusable, no tests active", zap.Error(err))
	}

	a := &app{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		catalog:    catalog.Default(),
	}

	a.store = storage.Open(cfg.Storage.Backend, cfg.Storage.Path, logger.Named("storage"))
	a.registry = experiments.NewRegistry(tests, experiments.WithLogger(logger.Named("experiments")))
	a.visitorID = visitor.Resolve(a.store, opts.visitorID, logger)

	for _, problem := range a.catalog.CheckGraph(affinity.DefaultGraph(), recommend.DefaultRules()) {
		logger.Warn("recommendation data problem", zap.String("problem", problem))
	}

	if cfg.Tracking.Enabled {
		sink, err := tracking.NewSink(cfg.Tracking.Sink, a.store, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.tracker = tracking.NewTracker(sink, logger.Named("tracking"))
		if opts.noTrack {
			a.tracker.Disable()
		}
	}

	a.history = history.NewStore(a.store, a.visitorID, history.WithLogger(logger.Named("history")))
	a.service = a.newService(nil)

	return a, nil
}

func (a *app) newService(index *search.Indexer) *personalize.Service {
	store := assignment.NewStore(a.store, a.logger.Named("assignment"))
	return personalize.New(personalize.Options{
		VisitorID:   a.visitorID,
		Assignments: assignment.NewEngine(a.registry, store, assignment.WithLogger(a.logger.Named("assignment"))),
		History:     a.history,
		Recommender: recommend.NewEngine(affinity.DefaultGraph(), recommend.DefaultRules()),
		Index:       index,
		Tracker:     a.tracker,
		Logger:      a.logger,
	})
}

// indexPath returns where the catalog index is cached, next to the visitor's
// store. The memory backend keeps no files, so it gets "".
func (a *app) indexPath() string {
	if a.cfg.Storage.Backend == storage.BackendMemory {
		return ""
	}
	dir := storage.DefaultDir()
	if a.cfg.Storage.Path != "" {
		dir = filepath.Dir(a.cfg.Storage.Path)
	}
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "catalog.bleve")
}

// withSearch rebuilds the service with a catalog search index. The on-disk
// index is preferred; if it cannot be opened an in-memory one is built.
func (a *app) withSearch() error {
	if a.index != nil {
		return nil
	}
	logger := a.logger.Named("search")

	var index *search.Indexer
	if path := a.indexPath(); path != "" {
		var err error
		index, err = search.OpenCatalogIndex(path, a.catalog, logger)
		if err != nil {
			logger.Warn("search index unusable, building it in memory", zap.String("path", path), zap.Error(err))
			index = nil
		}
	}
	if index == nil {
		var err error
		index, err = search.NewCatalogIndex(a.catalog, logger)
		if err != nil {
			return fmt.Errorf("failed to build search index: %w", err)
		}
	}
	a.index = index
	a.service = a.newService(index)
	return nil
}

// assignments returns the visitor's assignment store.
func (a *app) assignments() *assignment.Store {
	return assignment.NewStore(a.store, a.logger.Named("assignment"))
}

// Close flushes pending events and releases storage.
func (a *app) Close() {
	if a.tracker != nil {
		if a.tracker.IsEnabled() {
			a.logger.Debug("flushing events", zap.Int("pending", a.tracker.QueueSize()))
		}
		a.tracker.Stop()
	}
	if a.index != nil {
		a.index.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close storage", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// run builds an app, calls fn and closes the app.
func run(opts *globalOptions, fn func(a *app) error) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
