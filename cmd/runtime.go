package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/achievement"
	"github.com/abhisek/learnquest/internal/app"
	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/config"
	"github.com/abhisek/learnquest/internal/logging"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/recordapi"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/session"
	"github.com/abhisek/learnquest/internal/store"
)

// runtime holds what every command needs: the resolved config, a logger
// and an open record backend.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	backend  store.Backend
	closeLog func() error
}

// openRuntime loads config from flags and environment, builds the logger
// and opens the backend. In the terminal UI, logs without a file are
// discarded so they never draw over the screen.
func openRuntime(cmd *cobra.Command, tui bool) (*runtime, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	envFile, _ := flags.GetString("env-file")
	dbPath, _ := flags.GetString("db")
	remote, _ := flags.GetString("remote")

	cfg, err := config.Load(config.Options{
		ConfigFile: configFile,
		EnvFile:    envFile,
		DBPath:     dbPath,
		Remote:     remote,
	})
	if err != nil {
		return nil, err
	}
	if lvl, _ := flags.GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if f, _ := flags.GetString("log-file"); f != "" {
		cfg.Logging.File = f
	}

	var fallback io.Writer = os.Stderr
	if tui {
		fallback = io.Discard
	}
	logger, closeLog, err := logging.New(cfg.Logging, fallback)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	backend, err := openBackend(cfg)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	logger.Debug("runtime ready",
		zap.String("db", cfg.DBPath),
		zap.String("remote", cfg.Remote),
	)
	return &runtime{cfg: cfg, logger: logger, backend: backend, closeLog: closeLog}, nil
}

func openBackend(cfg *config.Config) (store.Backend, error) {
	if cfg.Remote != "" {
		c, err := recordapi.NewClient(cfg.Remote)
		if err != nil {
			return nil, fmt.Errorf("connect to %s: %w", cfg.Remote, err)
		}
		return c, nil
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func (rt *runtime) Close() error {
	return errors.Join(rt.backend.Close(), rt.closeLog())
}

func (rt *runtime) sessionConfig() session.Config {
	c := session.DefaultConfig()
	if rt.cfg.Session.BatchSize > 0 {
		c.BatchSize = rt.cfg.Session.BatchSize
	}
	if rt.cfg.Session.TimeLimit > 0 {
		c.TimeLimit = rt.cfg.Session.TimeLimit
	}
	return c
}

func (rt *runtime) challenges() *challenge.Service {
	return challenge.NewService(store.NewCollection[challenge.Challenge](rt.backend, store.Challenges))
}

func (rt *runtime) catalog() *achievement.Catalog {
	return achievement.NewCatalog(store.NewCollection[achievement.Achievement](rt.backend, store.Achievements))
}

func (rt *runtime) progress() *progress.Service {
	return progress.NewService(store.NewCollection[progress.Progress](rt.backend, store.Progress))
}

func (rt *runtime) history() *session.History {
	return session.NewHistory(store.NewCollection[session.Result](rt.backend, store.Sessions))
}

// seed loads the built-in challenges and achievements into empty
// collections.
func (rt *runtime) seed(ctx context.Context) (challenges, achievements int, err error) {
	challenges, err = rt.challenges().Seed(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("seed challenges: %w", err)
	}
	achievements, err = rt.catalog().Seed(ctx)
	if err != nil {
		return challenges, 0, fmt.Errorf("seed achievements: %w", err)
	}
	if challenges+achievements > 0 {
		rt.logger.Info("seeded records",
			zap.Int("challenges", challenges),
			zap.Int("achievements", achievements),
		)
	}
	return challenges, achievements, nil
}

// services seeds the store and wires the game services.
func (rt *runtime) services(ctx context.Context) (*screen.Services, error) {
	if _, _, err := rt.seed(ctx); err != nil {
		return nil, err
	}

	achRecs := store.NewCollection[achievement.Achievement](rt.backend, store.Achievements)
	sessions := store.NewCollection[session.Result](rt.backend, store.Sessions)
	prog := rt.progress()
	eval := achievement.NewEvaluator(achRecs, achievement.WithLogger(rt.logger.Named("achievement")))

	return &screen.Services{
		Challenges:   rt.challenges(),
		Progress:     prog,
		Achievements: achievement.NewCatalog(achRecs),
		Finisher:     session.NewFinisher(sessions, prog, eval, rt.logger.Named("session")),
		History:      session.NewHistory(sessions),
		Session:      rt.sessionConfig(),
		Logger:       rt.logger,
	}, nil
}

// runTUI opens the runtime and runs the terminal app until it exits.
func runTUI(cmd *cobra.Command, opts app.Options) error {
	rt, err := openRuntime(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	svc, err := rt.services(cmd.Context())
	if err != nil {
		return err
	}
	opts.Services = svc
	return app.Run(opts)
}
