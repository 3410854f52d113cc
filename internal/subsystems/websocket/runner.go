// Package websocket is the WebSocket subsystem body: an echo endpoint with
// a live connection gauge the landing pipeline consults before releasing
// the listener.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/subsystems/finitestate"
	"github.com/robbyt/go-supervisor/supervisor"
	"golang.org/x/net/websocket"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// shutdownGrace bounds the http.Server drain on stop.
const shutdownGrace = 2 * time.Second

type Runner struct {
	cfg         config.WebSocketConfig
	server      *http.Server
	connections atomic.Int64
	fsm         finitestate.Machine
	parentCtx   context.Context
	runCancel   context.CancelFunc
	logger      *slog.Logger
}

// NewRunner creates the WebSocket subsystem body from its frozen
// configuration.
func NewRunner(cfg config.WebSocketConfig, opts ...Option) (*Runner, error) {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Protocol == "" {
		return nil, fmt.Errorf("protocol cannot be empty")
	}

	r := &Runner{
		cfg:       cfg,
		parentCtx: context.Background(),
		logger:    slog.Default().WithGroup("websocket.Runner"),
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
	return "websocket.Runner"
}

// ConnectionCount returns the number of live WebSocket connections. Read
// by the landing readiness gate.
func (r *Runner) ConnectionCount() int64 {
	return r.connections.Load()
}

// Run serves until the context is canceled or Stop is called.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.runCancel = cancel

	wsServer := websocket.Server{
		Handshake: r.handshake,
		Handler:   r.echo,
	}
	mux := http.NewServeMux()
	mux.Handle("/", wsServer)
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
	r.logger.Info("WebSocket server listening",
		"port", r.cfg.Port, "protocol", r.cfg.Protocol)

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
		r.logger.Error("WebSocket server shutdown failed", "error", err)
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

// handshake enforces the configured subprotocol when the client offers one.
func (r *Runner) handshake(cfg *websocket.Config, req *http.Request) error {
	if len(cfg.Protocol) == 0 {
		return nil
	}
	for _, p := range cfg.Protocol {
		if p == r.cfg.Protocol {
			cfg.Protocol = []string{p}
			return nil
		}
	}
	return fmt.Errorf("unsupported subprotocol: %v", cfg.Protocol)
}

// echo copies frames back to the client, holding the connection gauge up
// for the duration.
func (r *Runner) echo(conn *websocket.Conn) {
	r.connections.Add(1)
	defer r.connections.Add(-1)
	defer conn.Close()
	if _, err := io.Copy(conn, conn); err != nil {
		r.logger.Debug("WebSocket connection closed", "error", err)
	}
}
