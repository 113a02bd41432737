// Package main implements the entry point for the simbridge demonstration
// host. It stands up a synthetic simulation loop, loads the configured
// sensor bridge plugins into it, and publishes their measurements over
// NATS until signalled to stop.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/simbridge/component"
	"github.com/c360/simbridge/componentregistry"
	"github.com/c360/simbridge/health"
	"github.com/c360/simbridge/metric"
	"github.com/c360/simbridge/natsclient"
	"github.com/c360/simbridge/sim"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "simbridge"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := LoadConfig(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	ctx := context.Background()

	natsClient, metricsRegistry, err := setupInfrastructure(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = natsClient.Close(ctx) }()

	engine, model, profiles := buildSimulation(cfg)

	plugins, err := loadPlugins(cfg, model, engine, component.Dependencies{
		NATSClient:      natsClient,
		MetricsRegistry: metricsRegistry,
		Logger:          logger,
	})
	if err != nil {
		shutdownPlugins(plugins)
		return err
	}
	defer shutdownPlugins(plugins)

	monitor := health.NewMonitor()
	for _, p := range plugins {
		monitor.Track(p)
	}

	metricsServer := startMetricsServer(cfg, metricsRegistry, monitor)
	if metricsServer != nil {
		defer func() { _ = metricsServer.Stop() }()
	}

	return runSimulation(ctx, cliCfg, cfg, engine, profiles)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting simbridge",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// setupInfrastructure creates and connects the core dependencies
func setupInfrastructure(ctx context.Context, cfg *Config) (*natsclient.Client, *metric.MetricsRegistry, error) {
	natsURL := cfg.NATS.URL
	if envURL := os.Getenv("SIMBRIDGE_NATS_URL"); envURL != "" {
		natsURL = envURL
	}

	natsClient, err := natsclient.NewClient(natsURL, natsclient.WithClientName(appName))
	if err != nil {
		return nil, nil, fmt.Errorf("create NATS client: %w", err)
	}

	slog.Info("Connecting to NATS", "url", natsURL)
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := natsClient.Connect(connCtx); err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return natsClient, metric.NewMetricsRegistry(), nil
}

// startMetricsServer serves the registry and health status over HTTP
// unless disabled
func startMetricsServer(cfg *Config, registry *metric.MetricsRegistry, monitor *health.Monitor) *metric.Server {
	if cfg.Metrics.Addr == "" {
		slog.Info("Metrics endpoint disabled")
		return nil
	}

	server := metric.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path, registry)
	server.SetHealthHandler(health.Handler(monitor, appName))
	go func() {
		slog.Info("Metrics endpoint listening", "addr", cfg.Metrics.Addr, "path", cfg.Metrics.Path)
		if err := server.Start(); err != nil {
			slog.Error("Metrics server stopped", "error", err)
		}
	}()
	return server
}

// buildSimulation constructs the synthetic engine, model and the wrench
// profiles that drive it
func buildSimulation(cfg *Config) (*sim.FakeEngine, *sim.FakeModel, []*wrenchProfile) {
	engine := sim.NewFakeEngine()
	model := sim.NewFakeModel(cfg.Model.Name)

	profiles := make([]*wrenchProfile, 0, len(cfg.Model.Joints))
	for _, jc := range cfg.Model.Joints {
		joint := sim.NewFakeJoint(jc.Name, jc.Parent, jc.Child)
		model.AddJoint(joint)
		profiles = append(profiles, newWrenchProfile(joint, jc.Profile))
	}

	slog.Info("Simulation model built",
		"model", cfg.Model.Name,
		"joints", len(cfg.Model.Joints),
		"step", cfg.Sim.Step.Std())
	return engine, model, profiles
}

// loadPlugins creates every enabled sensor instance and loads it into
// the simulation. On failure the already loaded plugins are returned so
// the caller can unwind them.
func loadPlugins(
	cfg *Config,
	model sim.Model,
	engine sim.Engine,
	deps component.Dependencies,
) ([]component.Plugin, error) {
	registry := component.NewRegistry()
	if err := componentregistry.Register(registry); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}

	var plugins []component.Plugin
	for _, sc := range cfg.Sensors {
		if !sc.IsEnabled() {
			slog.Info("Sensor disabled in config", "name", sc.Name)
			continue
		}

		raw, err := sc.RawConfig()
		if err != nil {
			return plugins, err
		}

		plugin, err := registry.Create(sc.Type, sc.Name, raw, deps)
		if err != nil {
			return plugins, fmt.Errorf("create sensor %q: %w", sc.Name, err)
		}

		if err := plugin.Load(model, engine); err != nil {
			return plugins, fmt.Errorf("load sensor %q: %w", sc.Name, err)
		}
		plugins = append(plugins, plugin)

		slog.Info("Sensor loaded", "name", sc.Name, "type", sc.Type)
	}

	return plugins, nil
}

// shutdownPlugins unloads plugins in reverse creation order
func shutdownPlugins(plugins []component.Plugin) {
	for i := len(plugins) - 1; i >= 0; i-- {
		if err := plugins[i].Shutdown(); err != nil {
			slog.Error("Sensor shutdown failed", "name", plugins[i].Meta().Name, "error", err)
		}
	}
}

// runSimulation drives the tick loop until a signal or the configured
// duration ends the run
func runSimulation(
	ctx context.Context,
	cliCfg *CLIConfig,
	cfg *Config,
	engine *sim.FakeEngine,
	profiles []*wrenchProfile,
) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if cliCfg.Duration > 0 {
		var timeoutCancel context.CancelFunc
		signalCtx, timeoutCancel = context.WithTimeout(signalCtx, cliCfg.Duration)
		defer timeoutCancel()
	}

	step := cfg.Sim.Step.Std()
	slog.Info("Simulation running", "step", step, "realtime", cfg.Sim.Realtime)

	if cfg.Sim.Realtime {
		ticker := time.NewTicker(step)
		defer ticker.Stop()
		for {
			select {
			case <-signalCtx.Done():
				slog.Info("Simulation stopping", "sim_time", engine.SimTime().Seconds())
				return nil
			case <-ticker.C:
				tickOnce(engine, profiles, step)
			}
		}
	}

	for {
		select {
		case <-signalCtx.Done():
			slog.Info("Simulation stopping", "sim_time", engine.SimTime().Seconds())
			return nil
		default:
			tickOnce(engine, profiles, step)
		}
	}
}

// tickOnce advances the wrench profiles and steps the engine by one tick
func tickOnce(engine *sim.FakeEngine, profiles []*wrenchProfile, step time.Duration) {
	next := engine.SimTime().Add(step)
	for _, p := range profiles {
		p.apply(next)
	}
	engine.Step(step)
}
