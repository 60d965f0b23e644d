package cmd

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFiles(t *testing.T) {
	saved := WatchDebounceDelay
	WatchDebounceDelay = 20 * time.Millisecond
	t.Cleanup(func() { WatchDebounceDelay = saved })

	dir := t.TempDir()
	watched := filepath.Join(dir, "body.json")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(watched, []byte("{}"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{watched}, func(path string) { changes <- path })
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(watched, []byte(`{"a":1}`), 0644))
	require.NoError(t, os.WriteFile(watched, []byte(`{"a":2}`), 0644))

	select {
	case path := <-changes:
		abs, _ := filepath.Abs(watched)
		assert.Equal(t, abs, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchFiles_MissingDir(t *testing.T) {
	err := watchFiles(context.Background(), []string{filepath.Join(t.TempDir(), "no", "such", "file")}, func(string) {})
	assert.Error(t, err)
}

func TestWatch_NeedsFile(t *testing.T) {
	_, err := run(t, "", "get", "http://127.0.0.1:1", "--watch")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestWatch_ResendsOnChange(t *testing.T) {
	saved := WatchDebounceDelay
	WatchDebounceDelay = 20 * time.Millisecond
	t.Cleanup(func() { WatchDebounceDelay = saved })

	bodies := make(chan string, 8)
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies <- string(b)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "body.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--no-color", "post", server.URL, "--data-file", path, "--watch"})
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	select {
	case b := <-bodies:
		assert.Equal(t, "first", b)
	case <-time.After(5 * time.Second):
		t.Fatal("first transaction not sent")
	}

	// the watcher registers after the first batch
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("second"), 0644))

	select {
	case b := <-bodies:
		assert.Equal(t, "second", b)
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a resend")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
