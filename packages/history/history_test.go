package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)

	sent := time.Date(2026, 10, 14, 9, 30, 0, 123456000, time.UTC)
	require.NoError(t, s.Record(ctx, Entry{
		Time: sent, Method: "GET", URL: "http://a/1", Status: 200,
		Duration: 1500 * time.Microsecond, Bytes: 12,
	}))
	require.NoError(t, s.Record(ctx, Entry{
		Method: "POST", URL: "http://a/2", Error: "connect http://a/2: refused",
	}))

	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "POST", entries[0].Method)
	assert.Equal(t, 0, entries[0].Status)
	assert.Equal(t, "connect http://a/2: refused", entries[0].Error)
	assert.False(t, entries[0].Time.IsZero())

	first := entries[1]
	assert.Equal(t, "http://a/1", first.URL)
	assert.Equal(t, 200, first.Status)
	assert.Equal(t, 1500*time.Microsecond, first.Duration)
	assert.Equal(t, 12, first.Bytes)
	assert.True(t, sent.Equal(first.Time))
	assert.Greater(t, entries[0].ID, first.ID)
}

func TestRecent_Limit(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, Entry{Method: "GET", URL: "http://a", Status: 200 + i}))
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 204, entries[0].Status)
	assert.Equal(t, 203, entries[1].Status)
}

func TestRecent_Empty(t *testing.T) {
	s, _ := openStore(t)
	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	s, path := openStore(t)
	require.NoError(t, s.Record(ctx, Entry{Method: "GET", URL: "http://a", Status: 204}))
	require.NoError(t, s.Close())

	again, err := Open(ctx, "sqlite://"+path)
	require.NoError(t, err)
	defer again.Close()

	entries, err := again.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 204, entries[0].Status)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)
	require.NoError(t, s.Record(ctx, Entry{Method: "GET", URL: "http://a"}))
	require.NoError(t, s.Record(ctx, Entry{Method: "GET", URL: "http://b"}))

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDataSource(t *testing.T) {
	assert.Equal(t, "a.db", dataSource("sqlite://a.db"))
	assert.Equal(t, "./b.db", dataSource("sqlite:./b.db"))
	assert.Equal(t, "/tmp/c.db", dataSource(" /tmp/c.db "))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)

	_, err = Open(context.Background(), filepath.Join(t.TempDir(), "missing-dir", "h.db"))
	assert.Error(t, err)
}
