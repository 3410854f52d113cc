package coordinator

import (
	"context"

	"github.com/atlanticdynamic/hydrogen/internal/landing"
	"github.com/atlanticdynamic/hydrogen/internal/launch"
	"github.com/atlanticdynamic/hydrogen/internal/registry"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
	"github.com/atlanticdynamic/hydrogen/internal/subsystems"
	"github.com/atlanticdynamic/hydrogen/internal/subsystems/webserver"
	"github.com/atlanticdynamic/hydrogen/internal/subsystems/websocket"
	"github.com/atlanticdynamic/hydrogen/internal/threads"
)

// buildSpecs assembles the launchable subsystem set from the frozen
// configuration. Subsystems with a live body (web server, WebSocket) get
// an adapter-backed init/stop pair on their own thread tracker; the rest
// register passively so their state and dependencies are still owned by
// the registry. Payload and Swagger stay unregistered: their work is
// served through other subsystems, so a Go decision reports Ready.
func (c *Coordinator) buildSpecs(ctx context.Context) ([]launch.Spec, []landing.Option) {
	var landingOpts []landing.Option

	specs := []launch.Spec{
		{Kind: subsystem.Threads},
		{Kind: subsystem.Network},
		{Kind: subsystem.Logging},
		{Kind: subsystem.Database},
		{Kind: subsystem.API,
			Dependencies: []string{subsystem.Network.String(), subsystem.WebServer.String()}},
		{Kind: subsystem.Terminal},
		{Kind: subsystem.MDNSServer, Dependencies: []string{subsystem.Network.String()}},
		{Kind: subsystem.MDNSClient, Dependencies: []string{subsystem.Network.String()}},
		{Kind: subsystem.MailRelay, Dependencies: []string{registry.Name}},
		{Kind: subsystem.PrintQueue, Dependencies: []string{subsystem.Logging.String()}},
		{Kind: subsystem.Notify, Dependencies: []string{registry.Name}},
		{Kind: subsystem.Resources},
		{Kind: subsystem.OIDC},
	}

	if spec, ok := c.webServerSpec(ctx); ok {
		specs = append(specs, spec)
	}
	if spec, counter, ok := c.webSocketSpec(ctx); ok {
		specs = append(specs, spec)
		landingOpts = append(landingOpts,
			landing.WithConnectionCounter(subsystem.WebSocket, counter))
	}

	return specs, landingOpts
}

func (c *Coordinator) webServerSpec(ctx context.Context) (launch.Spec, bool) {
	ws := c.cfg.WebServer
	if !ws.Enabled || ws.Port <= 0 || ws.WebRoot == "" {
		return launch.Spec{}, false
	}
	runner, err := webserver.NewRunner(ws,
		webserver.WithLogger(c.logger.WithGroup("webserver")),
		webserver.WithContext(ctx),
	)
	if err != nil {
		c.logger.Error("Failed to build web server body", "error", err)
		return launch.Spec{}, false
	}

	tracker := threads.NewTracker()
	adapter := subsystems.NewAdapter(runner, tracker,
		subsystems.WithLogger(c.logger.WithGroup("webserver")),
		subsystems.WithContext(ctx),
	)
	return launch.Spec{
		Kind:         subsystem.WebServer,
		Dependencies: []string{subsystem.Network.String()},
		Tracker:      tracker,
		Init:         adapter.Init,
		Stop:         adapter.Stop,
	}, true
}

func (c *Coordinator) webSocketSpec(ctx context.Context) (launch.Spec, func() int64, bool) {
	wc := c.cfg.WebSocket
	if !wc.Enabled || wc.Port < 1 || wc.Port > 65535 || wc.Protocol == "" {
		return launch.Spec{}, nil, false
	}
	runner, err := websocket.NewRunner(wc,
		websocket.WithLogger(c.logger.WithGroup("websocket")),
		websocket.WithContext(ctx),
	)
	if err != nil {
		c.logger.Error("Failed to build WebSocket body", "error", err)
		return launch.Spec{}, nil, false
	}

	tracker := threads.NewTracker()
	adapter := subsystems.NewAdapter(runner, tracker,
		subsystems.WithLogger(c.logger.WithGroup("websocket")),
		subsystems.WithContext(ctx),
	)
	return launch.Spec{
		Kind:         subsystem.WebSocket,
		Dependencies: []string{subsystem.Logging.String()},
		Tracker:      tracker,
		Init:         adapter.Init,
		Stop:         adapter.Stop,
	}, runner.ConnectionCount, true
}
