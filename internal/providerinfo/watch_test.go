package providerinfo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janekbaraniewski/keycheck/internal/core"
)

func TestWatchReloadsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	catalog := Builtin()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		catalog.Watch(ctx, path, nil)
	}()

	// Give the watcher a moment to register before the write lands.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"groq": {"rate_limit": "reloaded"}}`), 0o644))

	assert.Eventually(t, func() bool {
		info, ok := catalog.Get(core.ProviderGroq)
		return ok && info.RateLimit == "reloaded"
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
