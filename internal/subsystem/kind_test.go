package subsystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchOrderStartsWithRegistry(t *testing.T) {
	order := LaunchOrder()
	require.Len(t, order, Count)
	assert.Equal(t, Registry, order[0])
}

func TestLandingOrderIsReverse(t *testing.T) {
	launch := LaunchOrder()
	landing := LandingOrder()
	require.Len(t, landing, Count)
	for i, kind := range launch {
		assert.Equal(t, kind, landing[Count-1-i])
	}
	assert.Equal(t, Registry, landing[Count-1])
}

func TestDisplayNames(t *testing.T) {
	assert.Equal(t, "Subsystem Registry", Registry.String())
	assert.Equal(t, "mDNS Server", MDNSServer.String())
	assert.Equal(t, "Print Queue", PrintQueue.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestLongName(t *testing.T) {
	assert.Equal(t, "Subsystem Registry", Registry.LongName())
	assert.Equal(t, "WebServer Subsystem", WebServer.LongName())
	assert.Equal(t, "Logging Subsystem", Logging.LongName())
}

func TestValid(t *testing.T) {
	assert.True(t, Registry.Valid())
	assert.True(t, OIDC.Valid())
	assert.False(t, Kind(-1).Valid())
	assert.False(t, Kind(Count).Valid())
}

func TestDisplayNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, kind := range LaunchOrder() {
		name := kind.String()
		assert.False(t, seen[name], name)
		seen[name] = true
	}
}
