package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/auth"
	"github.com/quizziebot/quizzie/internal/cache"
	"github.com/quizziebot/quizzie/internal/config"
	"github.com/quizziebot/quizzie/internal/llm"
	"github.com/quizziebot/quizzie/internal/logging"
	"github.com/quizziebot/quizzie/internal/prefs"
	"github.com/quizziebot/quizzie/internal/quizgen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/session"
	"github.com/quizziebot/quizzie/internal/store"
	"github.com/spf13/cobra"
)

const redisDialTimeout = 3 * time.Second

// env is everything a command needs, built from flags, config and the
// environment.
type env struct {
	cfg       config.Config
	store     *store.Store
	logger    *slog.Logger
	client    *api.Client
	auth      *auth.Service
	prefs     *prefs.Service
	generator *quizgen.Generator

	closers []io.Closer
}

// loadConfig resolves the config file and applies env and flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.API.URL = u
	}
	return cfg, nil
}

// setup opens the store and log file and builds the services. The caller
// must Close the returned env.
func setup(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.Store.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e := &env{cfg: cfg, store: st, closers: []io.Closer{st}}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = logging.DefaultPath(dbPath)
	}
	logger, logCloser, err := logging.Open(logPath, cfg.LogLevel())
	if err != nil {
		e.Close()
		return nil, err
	}
	e.logger = logger
	e.closers = append(e.closers, logCloser)

	e.prefs = prefs.New(st.KV(), prefs.WithDefaultLanguage(cfg.API.Language))
	if err := e.prefs.Load(ctx); err != nil {
		logger.Warn("load preferences", "err", err)
	}

	e.client = api.New(cfg.API.URL,
		api.WithTimeout(cfg.APITimeout()),
		api.WithLanguage(e.prefs.Language),
		api.WithCache(cache.NewLoader(e.openCache(ctx), cfg.CacheTTL())),
		api.WithLogger(logger),
	)

	e.auth = auth.New(e.client, st.KV(), logger)
	if err := e.auth.Load(ctx); err != nil {
		logger.Warn("load signed-in user", "err", err)
	}

	if llmCfg, ok := llm.Resolve(cfg.LLM.Provider, cfg.LLM.Model); ok {
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Practice quizzes will be unavailable.")
		} else {
			e.generator = quizgen.New(provider, quizgen.DefaultConfig(), logger)
		}
	}

	logger.Info("quizzie starting", "version", version, "api", cfg.API.URL, "db", dbPath)
	return e, nil
}

// openCache connects to Redis when configured, otherwise keeps responses
// in process memory.
func (e *env) openCache(ctx context.Context) cache.Cache {
	r := e.cfg.Cache.Redis
	if r.Addr == "" {
		return cache.NewMemory()
	}
	dialCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	client, err := cache.Dial(dialCtx, r.Addr, r.Password, r.DB)
	if err != nil {
		e.logger.Warn("redis unavailable, using in-memory cache", "addr", r.Addr, "err", err)
		return cache.NewMemory()
	}
	e.closers = append(e.closers, client)
	return cache.NewRedis(client, "quizzie:")
}

// screenDeps builds the screen dependencies bound to ctx.
func (e *env) screenDeps(ctx context.Context) *deps.Deps {
	return &deps.Deps{
		Base:      ctx,
		Backend:   e.client,
		Auth:      e.auth,
		Prefs:     e.prefs,
		Sessions:  session.NewRegistry(e.sessionOptions()),
		Results:   e.store.Results(),
		Generator: e.generator,
		Logger:    e.logger,
	}
}

func (e *env) sessionOptions() session.Options {
	opts := session.DefaultOptions()
	opts.QuestionTicks = e.cfg.QuestionTicks()
	opts.LockDelay = e.cfg.LockDelay()
	opts.OutcomeDelay = e.cfg.OutcomeDelay()
	return opts
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}
