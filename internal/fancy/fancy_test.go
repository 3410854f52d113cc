package fancy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBannerContainsTitle(t *testing.T) {
	banner := Banner("LAUNCH READINESS")
	assert.Contains(t, banner, "LAUNCH READINESS")
	assert.Contains(t, banner, "=")
}

func TestBannerLongTitleStillFramed(t *testing.T) {
	banner := Banner(strings.Repeat("X", 80))
	assert.Contains(t, banner, "==")
}

func TestStatusNode(t *testing.T) {
	node := StatusNode("Network", "Running", "00:01:05, 2 threads")
	assert.Contains(t, node, "Network")
	assert.Contains(t, node, "Running")
	assert.Contains(t, node, "2 threads")

	failed := StatusNode("WebServer", "Failed", "")
	assert.Contains(t, failed, "Failed")
}

func TestEllipsize(t *testing.T) {
	assert.Equal(t, "short", Ellipsize("short", 10))
	assert.Equal(t, "exactly10!", Ellipsize("exactly10!", 10))
	assert.Equal(t, "truncated…", Ellipsize("truncatedlongstring", 10))
	assert.Equal(t, "…", Ellipsize("ab", 1))
	assert.Equal(t, "ühé", Ellipsize("ühé", 3))
	assert.Equal(t, "üh…", Ellipsize("ühéü", 3))
}

func TestReviewTree(t *testing.T) {
	tree := ReviewTree("Launch Review")
	tree.Child(StatusNode("Network", "Running", "00:01:05, 2 threads"))
	out := tree.String()
	assert.Contains(t, out, "Launch Review")
	assert.Contains(t, out, "Network")
	assert.Contains(t, out, "Running")
}
