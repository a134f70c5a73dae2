package mapping

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsValidRevisions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("field_mappings:\n  full_name: name\n"), 0o600))

	reloaded := make(chan *Config, 4)
	failed := make(chan error, 4)
	w, err := NewWatcher(path, func(c *Config) { reloaded <- c },
		WithDebounce(50*time.Millisecond),
		WithErrorFunc(func(err error) { failed <- err }))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() { assert.NoError(t, w.Stop()) }()
	require.Len(t, w.Current().Mappings, 1)

	require.NoError(t, os.WriteFile(path, []byte("field_mappings:\n  full_name: name\n  email: mail\n"), 0o600))
	select {
	case cfg := <-reloaded:
		assert.Len(t, cfg.Mappings, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("configuration was not reloaded")
	}

	require.NoError(t, os.WriteFile(path, []byte("field_mappings:\n  email:\n    type: computed\n"), 0o600))
	select {
	case err := <-failed:
		assert.True(t, IsConfigError(err))
	case <-time.After(5 * time.Second):
		t.Fatal("invalid revision was not reported")
	}
	assert.Len(t, w.Current().Mappings, 2, "previous revision stays active")
}

func TestWatcherStartFailsOnInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("field_mappings:\n  email:\n    type: direct\n"), 0o600))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	assert.Error(t, w.Start(context.Background()))
	assert.NoError(t, w.Stop())
}
