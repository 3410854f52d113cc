package launch

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/logging"
	"github.com/atlanticdynamic/hydrogen/internal/netinfo"
	"github.com/atlanticdynamic/hydrogen/internal/readiness"
	"github.com/atlanticdynamic/hydrogen/internal/registry"
	"github.com/atlanticdynamic/hydrogen/internal/registry/finitestate"
	"github.com/atlanticdynamic/hydrogen/internal/runstate"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
	"github.com/atlanticdynamic/hydrogen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// happyConfig enables Logging (console, level 2) and Network (eth0).
func happyConfig() *config.AppConfig {
	cfg := &config.AppConfig{}
	cfg.Logging.Console = config.SinkConfig{Enabled: true, Level: 2}
	cfg.Network.Interfaces = []config.InterfaceConfig{{Name: "eth0", Available: true}}
	return cfg
}

type launchHarness struct {
	flags  *runstate.Flags
	reg    *registry.Registry
	buf    *testutil.LogBuffer
	sink   *logging.Sink
	net    netinfo.Enumerator
	logger *slog.Logger
}

func newLaunchHarness(t *testing.T) *launchHarness {
	t.Helper()
	flags := runstate.New()
	flags.SetStarting()
	buf := testutil.NewLogBuffer()
	handler := slog.NewTextHandler(buf, nil)
	return &launchHarness{
		flags:  flags,
		reg:    registry.New(registry.WithLogHandler(handler)),
		buf:    buf,
		sink:   logging.NewSink(handler),
		net:    netinfo.Static{{Name: "eth0", Up: true}},
		logger: slog.New(handler),
	}
}

func (h *launchHarness) orchestrator(cfg *config.AppConfig, specs []Spec) *Orchestrator {
	return New(cfg, h.flags, h.reg, specs,
		WithLogger(h.logger),
		WithSink(h.sink),
		WithNet(h.net),
	)
}

func TestHappyPathTwoSubsystems(t *testing.T) {
	h := newLaunchHarness(t)
	specs := []Spec{
		{Kind: subsystem.Network},
		{Kind: subsystem.Logging},
	}
	result := h.orchestrator(happyConfig(), specs).Run(t.Context())

	require.False(t, result.Aborted)
	assert.True(t, result.Records[subsystem.Registry].Ready)
	assert.True(t, result.Records[subsystem.Network].Ready)
	assert.True(t, result.Records[subsystem.Logging].Ready)
	assert.False(t, result.Records[subsystem.WebServer].Ready)

	// Passive Go subsystems end up Running without an init callback.
	netID, ok := h.reg.GetID(subsystem.Network.String())
	require.True(t, ok)
	assert.Equal(t, finitestate.StatusRunning, h.reg.GetState(netID))
	logID, ok := h.reg.GetID(subsystem.Logging.String())
	require.True(t, ok)
	assert.Equal(t, finitestate.StatusRunning, h.reg.GetState(logID))

	out := h.buf.String()
	assert.Contains(t, out, readiness.GoPrefix+"Subsystem Registry")
	assert.Contains(t, out, readiness.GoPrefix+"Network")
	assert.Contains(t, out, readiness.GoPrefix+"Logging")
	assert.Contains(t, out, readiness.NoGoPrefix+"WebServer")
}

func TestQuiescentStatesAfterLaunch(t *testing.T) {
	h := newLaunchHarness(t)
	specs := []Spec{
		{Kind: subsystem.Network},
		{Kind: subsystem.Logging},
		{Kind: subsystem.WebSocket},
	}
	result := h.orchestrator(happyConfig(), specs).Run(t.Context())
	require.False(t, result.Aborted)

	// No subsystem lingers in Starting or Stopping once the coordinator
	// is quiescent.
	for _, view := range h.reg.Snapshot() {
		assert.NotEqual(t, finitestate.StatusStarting, view.State, view.Name)
		assert.NotEqual(t, finitestate.StatusStopping, view.State, view.Name)
	}
}

func TestActivationOrderRespectsDependencies(t *testing.T) {
	cfg := happyConfig()
	cfg.WebServer = config.WebServerConfig{
		Enabled:       true,
		Port:          8080,
		WebRoot:       "/var/www",
		UploadPath:    "/upload",
		UploadDir:     "/tmp/uploads",
		MaxUploadSize: 1 << 20,
	}

	var order []subsystem.Kind
	h := newLaunchHarness(t)
	specs := []Spec{
		{Kind: subsystem.Network, Init: func() error {
			order = append(order, subsystem.Network)
			return nil
		}},
		{Kind: subsystem.Logging},
		{
			Kind:         subsystem.WebServer,
			Dependencies: []string{subsystem.Network.String()},
			Init: func() error {
				order = append(order, subsystem.WebServer)
				return nil
			},
		},
	}
	result := h.orchestrator(cfg, specs).Run(t.Context())

	require.True(t, result.Records[subsystem.WebServer].Ready)
	require.Equal(t, []subsystem.Kind{subsystem.Network, subsystem.WebServer}, order)

	// Dependency edge resolved in the registry.
	webID, ok := h.reg.GetID(subsystem.WebServer.String())
	require.True(t, ok)
	views := h.reg.Snapshot()
	require.Len(t, views[webID].Dependencies, 1)
	assert.True(t, views[webID].Dependencies[0].Registered)
}

func TestActivationFailureDoesNotAbortPipeline(t *testing.T) {
	h := newLaunchHarness(t)
	activated := false
	specs := []Spec{
		{Kind: subsystem.Network, Init: func() error {
			return errors.New("bind failed")
		}},
		{Kind: subsystem.Logging, Init: func() error {
			activated = true
			return nil
		}},
	}
	result := h.orchestrator(happyConfig(), specs).Run(t.Context())

	assert.Contains(t, result.Failed, subsystem.Network)
	assert.Contains(t, result.Activated, subsystem.Logging)
	assert.True(t, activated)

	netID, _ := h.reg.GetID(subsystem.Network.String())
	assert.Equal(t, finitestate.StatusError, h.reg.GetState(netID))
	logID, _ := h.reg.GetID(subsystem.Logging.String())
	assert.Equal(t, finitestate.StatusRunning, h.reg.GetState(logID))
}

func TestMissingDependencyProviderForcesNoGo(t *testing.T) {
	h := newLaunchHarness(t)
	inited := false
	specs := []Spec{
		{Kind: subsystem.Logging,
			Dependencies: []string{"Ghost Provider"},
			Init: func() error {
				inited = true
				return nil
			}},
	}
	result := h.orchestrator(happyConfig(), specs).Run(t.Context())

	rec := result.Records[subsystem.Logging]
	assert.False(t, rec.Ready)
	assert.False(t, inited)

	lines := rec.Messages()
	assert.Equal(t,
		"No-Go:   Dependency (provider not registered: Ghost Provider)",
		lines[len(lines)-2])

	// The edge is still stored for later resolution.
	logID, ok := h.reg.GetID(subsystem.Logging.String())
	require.True(t, ok)
	views := h.reg.Snapshot()
	require.Len(t, views[logID].Dependencies, 1)
	assert.False(t, views[logID].Dependencies[0].Registered)
}

func TestGoWithoutSpecStaysUnregistered(t *testing.T) {
	h := newLaunchHarness(t)
	result := h.orchestrator(happyConfig(), nil).Run(t.Context())

	require.True(t, result.Records[subsystem.Network].Ready)
	_, ok := h.reg.GetID(subsystem.Network.String())
	assert.False(t, ok)

	// Only the registry itself is registered.
	assert.Equal(t, 1, result.Registered)
}

func TestCensusCounts(t *testing.T) {
	h := newLaunchHarness(t)
	specs := []Spec{
		{Kind: subsystem.Network},
		{Kind: subsystem.Logging},
	}
	result := h.orchestrator(happyConfig(), specs).Run(t.Context())

	assert.Len(t, result.Decisions, subsystem.Count)
	assert.Equal(t, result.Enabled+result.Disabled, subsystem.Count)
	assert.Equal(t, 3, result.Registered)
	assert.Contains(t, h.buf.String(), "Total subsystems registered: 3")
}

func TestShutdownAbandonsLaunch(t *testing.T) {
	h := newLaunchHarness(t)
	inited := false
	specs := []Spec{
		{Kind: subsystem.Logging, Init: func() error {
			inited = true
			return nil
		}},
	}
	orch := h.orchestrator(happyConfig(), specs)

	h.flags.SetStopping()
	result := orch.Run(t.Context())

	assert.True(t, result.Aborted)
	assert.False(t, inited)
	assert.Empty(t, result.Activated)
}

func TestDecideLinesAligned(t *testing.T) {
	h := newLaunchHarness(t)
	h.orchestrator(happyConfig(), []Spec{{Kind: subsystem.Network}}).Run(t.Context())

	// "Go:" plus six spaces and "No-Go:" plus three land names at the
	// same column.
	out := h.buf.String()
	assert.Contains(t, out, "Go:      Network")
	assert.Contains(t, out, "No-Go:   Database")
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
		{360000, "100:00:00"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, formatUptime(time.Duration(tc.secs)*time.Second))
	}
}
