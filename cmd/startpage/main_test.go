package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/startpage/internal/version"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), version.Version)
}

func TestSubcommandsRegistered(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "tui", "cache", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	flush, _, err := root.Find([]string{"cache", "flush"})
	require.NoError(t, err)
	assert.Equal(t, "flush", flush.Name())
}

func TestCacheFlushWithoutRedis(t *testing.T) {
	t.Setenv("STARTPAGE_STORAGE", "memory")
	t.Setenv("STARTPAGE_REDIS_ADDR", "")

	root := newRootCmd()
	root.SetArgs([]string{"cache", "flush"})
	assert.Error(t, root.Execute())
}
