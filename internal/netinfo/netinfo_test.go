package netinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEnumerator(t *testing.T) {
	static := Static{
		{Name: "eth0", Up: true},
		{Name: "lo", Up: true, Loopback: true},
	}
	ifaces, err := static.Interfaces()
	require.NoError(t, err)
	assert.Len(t, ifaces, 2)
}

func TestFind(t *testing.T) {
	ifaces := []Interface{
		{Name: "eth0", Up: true},
		{Name: "wlan0"},
	}

	got, ok := Find(ifaces, "wlan0")
	require.True(t, ok)
	assert.Equal(t, "wlan0", got.Name)
	assert.False(t, got.Up)

	_, ok = Find(ifaces, "eth9")
	assert.False(t, ok)
}

func TestSystemEnumerator(t *testing.T) {
	// Every test environment has at least a loopback interface.
	ifaces, err := System{}.Interfaces()
	require.NoError(t, err)
	assert.NotEmpty(t, ifaces)
}
