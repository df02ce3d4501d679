package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/moodflicks/internal/catalog"
	"github.com/roach88/moodflicks/internal/config"
	"github.com/roach88/moodflicks/internal/kv"
	"github.com/roach88/moodflicks/internal/logging"
	"github.com/roach88/moodflicks/internal/metrics"
	"github.com/roach88/moodflicks/internal/progress"
	"github.com/roach88/moodflicks/internal/store"
	"github.com/roach88/moodflicks/internal/views"
)

// commandTimeout bounds catalogue work for one command.
const commandTimeout = 30 * time.Second

// session is one CLI invocation's view of the viewer's profile: the opened
// medium, a freshly hydrated engine and the catalogue.
type session struct {
	cfg     *config.Config
	medium  store.Medium
	engine  *progress.Engine
	notices *progress.Collector
	deps    views.Deps
	watch   progress.LevelWatch
}

// openSession loads config, configures logging and mounts the engine over
// the configured medium.
func (o *RootOptions) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if o.Medium != "" {
		cfg.Profile.Medium = o.Medium
	}
	if o.Profile != "" {
		cfg.Profile.Path = o.Profile
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	lc := cfg.Logging()
	lc.Output = cmd.ErrOrStderr()
	if o.Verbose {
		lc.Level = "debug"
	}
	logging.Init(lc)

	// An unusable medium leaves the session memory-only: progress still
	// counts for this command but is not kept.
	medium, err := store.Open(cfg.StoreKind(), cfg.Profile.Path)
	if err != nil {
		metrics.RecordPersistFailure("open")
		logging.Warn().
			Str("op", "open").
			Str("medium", cfg.Profile.Medium).
			Str("path", cfg.Profile.Path).
			Err(err).
			Msg("progress medium unavailable, continuing in memory")
		medium = nil
	}

	notices := &progress.Collector{}
	engine := progress.New(kv.New(medium), progress.WithNotifier(notices))

	cat := o.catalog
	if cat == nil {
		cat = catalog.NewClient(cfg.CatalogClient())
	}

	s := &session{
		cfg:     cfg,
		medium:  medium,
		engine:  engine,
		notices: notices,
		deps: views.Deps{
			Engine:  engine,
			Catalog: cat,
			SiteURL: cfg.Share.SiteURL,
		},
	}
	s.watch.Observe(engine.Points())

	logging.Debug().
		Str("medium", cfg.Profile.Medium).
		Str("path", cfg.Profile.Path).
		Bool("durable", medium != nil).
		Int("points", engine.Points()).
		Msg("session opened")
	return s, nil
}

// Close stops the notice queue and releases the medium, if one was opened.
func (s *session) Close() error {
	s.engine.Close()
	if s.medium == nil {
		return nil
	}
	return s.medium.Close()
}

// context returns a context bounded for catalogue calls.
func (s *session) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, commandTimeout)
}

// checkLevel announces a level-up after an engine operation run outside a
// page.
func (s *session) checkLevel() {
	if level, up := s.watch.Observe(s.engine.Points()); up {
		s.engine.Announce(progress.LevelUpNotice(level))
	}
}

// flush delivers queued notices and returns them.
func (s *session) flush() []progress.Notice {
	s.engine.Drain()
	out := s.notices.Notices()
	s.notices.Reset()
	return out
}
