// Package coordinator owns the single thread that drives the process from
// inert to running and back: it assembles the subsystem set from the frozen
// configuration, runs the launch pipeline, parks until shutdown is
// signaled, and runs the landing pipeline.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/landing"
	"github.com/atlanticdynamic/hydrogen/internal/launch"
	"github.com/atlanticdynamic/hydrogen/internal/logging"
	"github.com/atlanticdynamic/hydrogen/internal/netinfo"
	"github.com/atlanticdynamic/hydrogen/internal/registry"
	"github.com/atlanticdynamic/hydrogen/internal/runstate"
)

// ErrLandingIncomplete is returned when landing finished without any
// subsystem reaching Stopped.
var ErrLandingIncomplete = errors.New("landing completed without a stopped subsystem")

// Coordinator drives both pipelines end to end.
type Coordinator struct {
	cfg      *config.AppConfig
	flags    *runstate.Flags
	reg      *registry.Registry
	sink     *logging.Sink
	net      netinfo.Enumerator
	execPath string
	logger   *slog.Logger
	// forceExit is called when a second shutdown signal arrives while
	// landing is in progress.
	forceExit func()
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithLogHandler sets a custom log handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Coordinator) {
		c.logger = slog.New(handler)
	}
}

// WithNet injects the interface enumerator.
func WithNet(net netinfo.Enumerator) Option {
	return func(c *Coordinator) {
		c.net = net
	}
}

// WithExecutablePath overrides the binary path the payload checks scan.
func WithExecutablePath(path string) Option {
	return func(c *Coordinator) {
		c.execPath = path
	}
}

// WithForceExit overrides the second-signal handler, used by tests.
func WithForceExit(fn func()) Option {
	return func(c *Coordinator) {
		c.forceExit = fn
	}
}

// New creates a coordinator over a frozen configuration snapshot.
func New(cfg *config.AppConfig, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg:    cfg,
		flags:  runstate.New(),
		logger: slog.Default().WithGroup("coordinator"),
		forceExit: func() {
			os.Exit(130)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sink = logging.NewSink(c.logger.Handler())
	c.reg = registry.New(registry.WithLogHandler(c.logger.Handler()))
	return c
}

// Run executes launch, parks until ctx cancellation or a termination
// signal, then executes landing. The returned error is nil only when
// landing completed with at least one subsystem stopped.
func (c *Coordinator) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.watchSignals(runCtx, cancel)

	c.flags.SetStarting()

	specs, landingOpts := c.buildSpecs(runCtx)

	launcher := launch.New(c.cfg, c.flags, c.reg, specs,
		launch.WithLogger(c.logger),
		launch.WithSink(c.sink),
		launch.WithNet(c.net),
		launch.WithExecutablePath(c.execPath),
	)
	result := launcher.Run(runCtx)

	if !result.Aborted {
		c.flags.SetRunning()
		c.sink.Emit(launch.Category, logging.SeverityState, "Startup complete")
		<-runCtx.Done()
	}

	lander := landing.New(c.flags, c.reg, append(landingOpts,
		landing.WithLogger(c.logger),
		landing.WithSink(c.sink),
	)...)
	// Landing gets a fresh context: the run context is already canceled
	// by the time teardown starts.
	landingResult := lander.Run(context.Background())

	if landingResult.Err != nil {
		c.logger.Warn("Landing finished with drain failures", "error", landingResult.Err)
	}
	if !landingResult.Clean() {
		return ErrLandingIncomplete
	}
	return nil
}

// watchSignals maps SIGINT/SIGTERM onto the stopping flag and the run
// context. A second signal forces the process down.
func (c *Coordinator) watchSignals(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			c.sink.Emit(launch.Category, logging.SeverityAlert,
				"Received "+sig.String()+", landing")
			c.flags.SetStopping()
			cancel()
		case <-ctx.Done():
			return
		}

		// A second signal while landing is in progress abandons the
		// graceful path.
		<-sigCh
		c.logger.Error("Second termination signal, forcing exit")
		c.forceExit()
	}()
}
