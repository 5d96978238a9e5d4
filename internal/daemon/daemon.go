package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/harper/lumi/internal/config"
	"github.com/harper/lumi/internal/logger"
	"github.com/harper/lumi/pkg/content"
	"github.com/harper/lumi/pkg/dispatch"
	"github.com/harper/lumi/pkg/gateway"
	"github.com/harper/lumi/pkg/lesson"
	"github.com/harper/lumi/pkg/planner"
	"github.com/harper/lumi/pkg/profile"
	"github.com/harper/lumi/pkg/tenant"
	"github.com/harper/lumi/pkg/workflow"
)

// Daemon wires and runs the Lumi planning service.
type Daemon struct {
	config *config.Config
	logger *logger.Logger

	store         *profile.Store
	tenantClient  *tenant.Client
	contentClient *content.Client
	dispatcher    dispatch.Dispatcher
	lessonGen     *lesson.Generator
	sessionPlan   *planner.Planner
	gatewaySrv    *gateway.Server
	scheduler     *cron.Cron
	configWatcher *config.Watcher
	configPath    string
}

// New builds a daemon from configuration.
func New(cfg *config.Config, configPath string) (*Daemon, error) {
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lg, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zl := lg.GetZerolog()

	store, err := profile.NewStore(profile.StoreConfig{
		DBPath: cfg.ProfileStore.DBPath,
		Logger: zl.With().Str("component", "profile").Logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}

	tenantClient, err := tenant.NewClient(tenant.ClientConfig{
		BaseURL:  cfg.Tenant.BaseURL,
		Timeout:  cfg.Tenant.Timeout,
		CacheTTL: cfg.Tenant.CacheTTL,
		Logger:   zl.With().Str("component", "tenant").Logger(),
	})
	if err != nil {
		return nil, err
	}

	contentClient, err := content.NewClient(content.ClientConfig{
		BaseURL: cfg.Content.BaseURL,
		Timeout: cfg.Content.Timeout,
		Logger:  zl.With().Str("component", "content").Logger(),
	})
	if err != nil {
		return nil, err
	}

	dispatcher, err := dispatch.New(dispatch.Config{
		Provider: cfg.Dispatch.Provider,
		BaseURL:  cfg.Dispatch.BaseURL,
		Path:     cfg.Dispatch.Path,
		APIKey:   cfg.Dispatch.APIKey,
		Model:    cfg.Dispatch.Model,
		Timeout:  cfg.Dispatch.Timeout,
		Logger:   zl.With().Str("component", "dispatch").Logger(),
	})
	if err != nil {
		return nil, err
	}

	lessonGen, err := lesson.NewGenerator(lesson.GeneratorConfig{
		Profiles: store,
		Tenants:  tenantClient,
		Content:  contentClient,
		Dispatch: dispatcher,
		Logger:   zl.With().Str("component", "lesson").Logger(),
	})
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		config:        cfg,
		logger:        lg,
		store:         store,
		tenantClient:  tenantClient,
		contentClient: contentClient,
		dispatcher:    dispatcher,
		lessonGen:     lessonGen,
		configPath:    configPath,
	}

	gatewaySrv, err := d.buildGateway(zl)
	if err != nil {
		return nil, err
	}
	d.gatewaySrv = gatewaySrv

	return d, nil
}

// buildGateway constructs the gateway along with the workflow engine whose
// trace sink feeds the gateway's observer broadcaster.
func (d *Daemon) buildGateway(zl zerolog.Logger) (*gateway.Server, error) {
	// Two-phase wiring: the engine's trace sink targets the broadcaster
	// owned by the server it serves.
	var srv *gateway.Server

	engine := workflow.NewEngine(workflow.EngineConfig{
		Logger: zl.With().Str("component", "workflow").Logger(),
		TraceSink: func(workflowName string, entry workflow.TraceEntry) {
			if srv == nil {
				return
			}
			srv.Broadcaster().Broadcast("workflow.step", map[string]any{
				"workflow":    workflowName,
				"step_id":     entry.StepID,
				"duration_ms": entry.DurationMs,
				"error":       entry.Error,
			})
		},
	})

	sessionPlan, err := planner.New(planner.Config{
		Engine: engine,
		Store:  d.store,
		Logger: zl.With().Str("component", "planner").Logger(),
	})
	if err != nil {
		return nil, err
	}
	d.sessionPlan = sessionPlan

	srv, err = gateway.NewServer(gateway.Config{
		Port:         d.config.Server.Port,
		SharedSecret: d.config.Server.SharedSecret,
		Lessons:      d.lessonGen,
		Sessions:     sessionPlan,
		Logger:       zl.With().Str("component", "gateway").Logger(),
	})
	if err != nil {
		return nil, err
	}
	return srv, nil
}

// Start starts the gateway, the scheduled tenant-cache refresh, and the
// config watcher.
func (d *Daemon) Start() error {
	zl := d.logger.GetZerolog()

	if err := d.gatewaySrv.Start(); err != nil {
		return err
	}

	if expr := d.config.Refresh.TenantCacheCron; expr != "" {
		d.scheduler = cron.New()
		_, err := d.scheduler.AddFunc(expr, func() {
			ctx, cancel := context.WithTimeout(context.Background(), d.config.Tenant.Timeout*4)
			defer cancel()
			d.tenantClient.RefreshCache(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid tenant cache cron %q: %w", expr, err)
		}
		d.scheduler.Start()
		zl.Info().Str("schedule", expr).Msg("Tenant cache refresh scheduled")
	}

	if d.configPath != "" {
		watcher, err := config.NewWatcher(d.configPath, d.applyReloadedConfig, zl)
		if err != nil {
			zl.Warn().Err(err).Msg("Config watcher unavailable, hot reload disabled")
		} else {
			d.configWatcher = watcher
		}
	}

	zl.Info().Int("port", d.config.Server.Port).Msg("Lumi daemon started")
	return nil
}

// applyReloadedConfig applies the subset of settings that can change at
// runtime. Port and store changes require a restart.
func (d *Daemon) applyReloadedConfig(cfg *config.Config) {
	d.config.Logging = cfg.Logging
	d.config.Refresh = cfg.Refresh
	zl := d.logger.GetZerolog()
	zl.Info().Msg("Applied reloaded configuration")
}

// Run starts the daemon and blocks until SIGINT or SIGTERM.
func (d *Daemon) Run() error {
	if err := d.Start(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig

	zl := d.logger.GetZerolog()
	zl.Info().Str("signal", received.String()).Msg("Shutdown signal received")
	return d.Stop()
}

// Stop shuts everything down in reverse start order.
func (d *Daemon) Stop() error {
	if d.configWatcher != nil {
		_ = d.configWatcher.Close()
	}
	if d.scheduler != nil {
		d.scheduler.Stop()
	}

	var firstErr error
	if err := d.gatewaySrv.Stop(); err != nil {
		firstErr = err
	}
	if err := d.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.logger.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
