package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeConfig_Get(t *testing.T) {
	t.Parallel()

	cfg := NodeConfig{{Key: "path", Value: "/a"}, {Key: "path", Value: "/b"}}

	v, ok := cfg.Get("path")
	assert.True(t, ok)
	assert.Equal(t, "/a", v, "the first entry wins")

	_, ok = cfg.Get("missing")
	assert.False(t, ok)
}

func TestNodeConfig_DuplicateKeys(t *testing.T) {
	t.Parallel()

	cfg := NodeConfig{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "1"},
		{Key: "b", Value: "2"},
		{Key: "a", Value: "3"},
		{Key: "b", Value: "4"},
	}

	assert.Equal(t, []string{"b", "a"}, cfg.DuplicateKeys())
	assert.Empty(t, NodeConfig{{Key: "x"}}.DuplicateKeys())
}

func TestPortRef_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "reader.rows", PortRef{Node: "reader", Port: "rows"}.String())
}
