package backup

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	snapshot *Snapshot
	err      error
}

func (s *stubSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]any) {}
func (nopLogger) Info(string, map[string]any)  {}
func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Error(string, map[string]any) {}
func (nopLogger) Flush() error                 { return nil }

func (l nopLogger) With(map[string]any) coreport.Logger { return l }

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }
func (c *fixedClock) Sleep(time.Duration)             {}

func (c *fixedClock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testSnapshot() *Snapshot {
	return &Snapshot{
		CreatedAt: "2024-06-01 12:00:00",
		Accounts: []AccountRecord{
			{AccountNumber: 1, Username: "admin", Admin: true, Name: "Administrator", Age: 30, Balance: 0},
			{AccountNumber: 2, Username: "alice", Name: "Alice", Age: 28, Balance: 100000},
		},
		History: []HistoryRecord{
			{TransactionID: 1, AccountNumber: 2, Date: "2024-06-01", Time: "11:59:00", Amount: 100000},
		},
	}
}

func TestBackupNowWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	clock := &fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)}
	manager := NewManager(&stubSource{snapshot: testSnapshot()}, Config{
		Dir:       dir,
		Interval:  time.Hour,
		Retention: 24 * time.Hour,
	}, nopLogger{}, clock)

	path, err := manager.BackupNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup_20240601120000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var restored Snapshot
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Len(t, restored.Accounts, 2)
	assert.Equal(t, "alice", restored.Accounts[1].Username)
	assert.Equal(t, int64(100000), restored.Accounts[1].Balance)
	assert.Len(t, restored.History, 1)

	// no leftover temp file
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBackupNowPropagatesSourceErrors(t *testing.T) {
	manager := NewManager(&stubSource{err: errors.New("store down")}, Config{
		Dir:      t.TempDir(),
		Interval: time.Hour,
	}, nopLogger{}, &fixedClock{now: time.Now()})

	_, err := manager.BackupNow(context.Background())
	assert.Error(t, err)
}

// The shutdown path hands BackupNow a fresh context; an exhausted one must
// fail rather than write a partial snapshot.
func TestBackupNowFailsOnDeadContext(t *testing.T) {
	dir := t.TempDir()
	manager := NewManager(&stubSource{snapshot: testSnapshot()}, Config{
		Dir:      dir,
		Interval: time.Hour,
	}, nopLogger{}, &fixedClock{now: time.Now()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.BackupNow(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestPruneRemovesExpiredBackups(t *testing.T) {
	dir := t.TempDir()
	clock := &fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)}
	manager := NewManager(&stubSource{snapshot: testSnapshot()}, Config{
		Dir:       dir,
		Interval:  time.Hour,
		Retention: 48 * time.Hour,
	}, nopLogger{}, clock)

	first, err := manager.BackupNow(context.Background())
	require.NoError(t, err)

	// not a backup file, must never be pruned
	keep := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(keep, []byte("keep me"), 0o600))

	clock.Advance(72 * time.Hour)
	second, err := manager.BackupNow(context.Background())
	require.NoError(t, err)

	assert.NoFileExists(t, first)
	assert.FileExists(t, second)
	assert.FileExists(t, keep)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	manager := NewManager(&stubSource{snapshot: testSnapshot()}, Config{
		Dir:      t.TempDir(),
		Interval: time.Hour,
	}, nopLogger{}, &fixedClock{now: time.Now()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
