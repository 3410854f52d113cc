// Package webserver is the HTTP server subsystem body: a file server over
// the configured web root, run as a supervisor.Runnable.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/subsystems/finitestate"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// shutdownGrace bounds the http.Server drain on stop.
const shutdownGrace = 2 * time.Second

type Runner struct {
	cfg       config.WebServerConfig
	server    *http.Server
	fsm       finitestate.Machine
	parentCtx context.Context
	runCancel context.CancelFunc
	logger    *slog.Logger
}

// NewRunner creates the HTTP subsystem body from its frozen configuration.
func NewRunner(cfg config.WebServerConfig, opts ...Option) (*Runner, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.WebRoot == "" {
		return nil, fmt.Errorf("web root cannot be empty")
	}

	r := &Runner{
		cfg:       cfg,
		parentCtx: context.Background(),
		logger:    slog.Default().WithGroup("webserver.Runner"),
	}
	for _, opt := range opts {
		opt(r)
	}

	machine, err := finitestate.New(r.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	r.fsm = machine
	return r, nil
}

// String implements the supervisor.Runnable interface.
func (r *Runner) String() string {
	return "webserver.Runner"
}

// Run serves until the context is canceled or Stop is called.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.runCancel = cancel

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(r.cfg.WebRoot)))
	r.server = &http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(r.cfg.Port)),
		Handler: mux,
	}

	listener, err := net.Listen("tcp", r.server.Addr)
	if err != nil {
		if stateErr := r.fsm.Transition(finitestate.StatusError); stateErr != nil {
			r.logger.Error("Failed to transition to error state", "error", stateErr)
		}
		return fmt.Errorf("failed to listen on port %d: %w", r.cfg.Port, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- r.server.Serve(listener)
	}()

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}
	r.logger.Info("Web server listening", "port", r.cfg.Port, "webRoot", r.cfg.WebRoot)

	select {
	case <-r.parentCtx.Done():
	case <-runCtx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			if stateErr := r.fsm.Transition(finitestate.StatusError); stateErr != nil {
				r.logger.Error("Failed to transition to error state", "error", stateErr)
			}
			return err
		}
	}

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer shutdownCancel()
	if err := r.server.Shutdown(shutdownCtx); err != nil {
		r.logger.Error("HTTP server shutdown failed", "error", err)
	}

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// Stop implements the supervisor.Runnable interface.
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Error("Failed to transition to stopping state", "error", err)
	}
	if r.runCancel != nil {
		r.runCancel()
	}
}
