package wire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	pgdb "github.com/charlietlamb/openai-hack/internal/adapter/postgres"
	pgeventbus "github.com/charlietlamb/openai-hack/internal/adapter/postgres/eventbus"
	pglocker "github.com/charlietlamb/openai-hack/internal/adapter/postgres/locker"
	pgstate "github.com/charlietlamb/openai-hack/internal/adapter/postgres/state"

	"github.com/charlietlamb/openai-hack/internal/adapter/llm"
	"github.com/charlietlamb/openai-hack/internal/adapter/memory"
	"github.com/charlietlamb/openai-hack/internal/adapter/metrics"
	redisstore "github.com/charlietlamb/openai-hack/internal/adapter/redis"
	"github.com/charlietlamb/openai-hack/internal/adapter/registry"
	"github.com/charlietlamb/openai-hack/internal/adapter/tracer"

	"github.com/charlietlamb/openai-hack/internal/domain/prompt"
	porteventbus "github.com/charlietlamb/openai-hack/internal/port/eventbus"
	portlocker "github.com/charlietlamb/openai-hack/internal/port/locker"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"

	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
	inferencesvc "github.com/charlietlamb/openai-hack/internal/service/inference"
	pollsvc "github.com/charlietlamb/openai-hack/internal/service/poll"

	"github.com/charlietlamb/openai-hack/internal/transport"
	mcptransport "github.com/charlietlamb/openai-hack/internal/transport/mcp"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Server    *http.Server
	PollSvc   *pollsvc.Service
	AgentSvc  *agentsvc.Service
	MCPServer *mcptransport.Server
	Metrics   *metrics.Metrics

	closers []func(context.Context) error
}

// Close releases store connections and flushes the tracer, newest first.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type backend struct {
	store  portstate.Store
	bus    porteventbus.EventBus
	locker portlocker.AdvisoryLocker
	close  func(context.Context) error
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg Config) (_ *App, err error) {
	app := &App{}
	defer func() {
		if err != nil {
			_ = app.Close(context.WithoutCancel(ctx))
		}
	}()

	// ── Tracing ──────────────────────────────────────────────────────────────
	shutdownTracer, err := tracer.Setup(ctx, cfg.TracingExporter)
	if err != nil {
		return nil, fmt.Errorf("setting up tracer: %w", err)
	}
	app.closers = append(app.closers, shutdownTracer)

	// ── Registry ─────────────────────────────────────────────────────────────
	reg, err := registry.Load(cfg.RegistryPath, cfg.RegistrySize)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	templates, err := prompt.Load(cfg.PromptsDir)
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	// ── Store ────────────────────────────────────────────────────────────────
	be, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, be.close)

	// ── Inference ────────────────────────────────────────────────────────────
	provider, err := llm.New(llm.Config{
		Provider: cfg.InferenceProvider,
		Model:    cfg.InferenceModel,
		APIKey:   cfg.APIKey(),
		BaseURL:  cfg.InferenceBaseURL,
		RPS:      cfg.InferenceRPS,
		Breaker:  llm.BreakerConfig{MaxFailures: uint32(max(cfg.BreakerMaxFailures, 0))},
	})
	if err != nil {
		return nil, fmt.Errorf("building provider: %w", err)
	}
	strategy, err := inferencesvc.ParseStrategy(cfg.InferenceStrategy)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	app.Metrics = m

	client, err := inferencesvc.NewService(provider, inferencesvc.Config{
		Strategy:  strategy,
		Timeout:   cfg.InferenceTimeout,
		Templates: templates,
		Observer:  m,
	})
	if err != nil {
		return nil, fmt.Errorf("building inference client: %w", err)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	app.PollSvc = pollsvc.NewService(reg, be.store, client, be.bus, be.locker, pollsvc.Config{
		MaxConcurrency: cfg.MaxConcurrency,
		Introduction:   templates.Introduction,
	}, m)
	app.AgentSvc = agentsvc.NewService(reg, be.store, be.bus, be.locker)

	app.MCPServer = mcptransport.New(app.PollSvc, app.AgentSvc, mcptransport.Config{
		Population:   cfg.PollPopulation,
		Introduction: templates.Introduction,
	})

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(ctx, app.PollSvc, app.AgentSvc, be.bus, transport.Options{
		Population: cfg.PollPopulation,
		Metrics:    m.Handler(),
		MCP:        app.MCPServer.Handler(),
	})
	app.Server = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// ── Startup ──────────────────────────────────────────────────────────────
	forwardToWatchers(ctx, be.bus, app.MCPServer.Watchers())
	if err := bootstrap(ctx, app.AgentSvc); err != nil {
		return nil, err
	}

	slog.Info("application wired",
		"port", cfg.Port,
		"backend", cfg.StoreBackend,
		"provider", provider.Name(),
		"strategy", strategy,
		"characters", reg.Size(),
	)
	return app, nil
}

func openBackend(ctx context.Context, cfg Config) (backend, error) {
	switch cfg.StoreBackend {
	case BackendRedis:
		rdb, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return backend{}, fmt.Errorf("connecting to redis: %w", err)
		}
		return backend{
			store:  redisstore.New(rdb),
			bus:    memory.NewEventBus(),
			locker: memory.NewLocker(),
			close:  func(context.Context) error { return rdb.Close() },
		}, nil

	case BackendPostgres:
		pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return backend{}, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pgdb.Migrate(ctx, pool); err != nil {
			pool.Close()
			return backend{}, fmt.Errorf("migrating database: %w", err)
		}
		return backend{
			store:  pgstate.New(pool),
			bus:    pgeventbus.New(pool),
			locker: pglocker.New(pool),
			close:  func(context.Context) error { pool.Close(); return nil },
		}, nil

	default:
		return backend{
			store:  memory.NewStore(),
			bus:    memory.NewEventBus(),
			locker: memory.NewLocker(),
			close:  func(context.Context) error { return nil },
		}, nil
	}
}
