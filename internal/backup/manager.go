package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
)

const (
	filePrefix    = "backup_"
	fileSuffix    = ".json"
	stampLayout   = "20060102150405"
	dirPermission = 0o755
)

// Source produces a point-in-time snapshot of the ledger state.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Config controls the periodic backup job.
type Config struct {
	Dir       string
	Interval  time.Duration
	Retention time.Duration
}

// Manager writes periodic JSON snapshots of the ledger and prunes old ones.
type Manager struct {
	source       Source
	config       Config
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewManager creates a new backup manager
func NewManager(source Source, config Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		source:       source,
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Run takes a snapshot at every interval until the context is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	m.logger.Info("Backup job started", map[string]any{
		"dir":       m.config.Dir,
		"interval":  m.config.Interval.String(),
		"retention": m.config.Retention.String(),
	})

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.BackupNow(ctx); err != nil {
				m.logger.Error("Scheduled backup failed", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}
}

// BackupNow takes one snapshot, writes it and prunes expired files. It
// returns the path of the written file.
func (m *Manager) BackupNow(ctx context.Context) (string, error) {
	snapshot, err := m.source.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to snapshot ledger: %w", err)
	}

	if err := os.MkdirAll(m.config.Dir, dirPermission); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.timeProvider.Now()
	name := filePrefix + now.Format(stampLayout) + fileSuffix
	path := filepath.Join(m.config.Dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	// Write to a temp file first so a crash never leaves a truncated backup.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize backup file: %w", err)
	}

	m.logger.Info("Backup written", map[string]any{
		"path":     path,
		"accounts": len(snapshot.Accounts),
		"records":  len(snapshot.History),
	})

	m.prune(now)
	return path, nil
}

// prune removes backup files whose embedded timestamp is past retention.
func (m *Manager) prune(now time.Time) {
	if m.config.Retention <= 0 {
		return
	}

	entries, err := os.ReadDir(m.config.Dir)
	if err != nil {
		m.logger.Warn("Failed to scan backup directory", map[string]any{
			"error": err.Error(),
		})
		return
	}

	cutoff := now.Add(-m.config.Retention)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stamp, ok := parseStamp(entry.Name())
		if !ok {
			continue
		}
		if stamp.Before(cutoff) {
			path := filepath.Join(m.config.Dir, entry.Name())
			if err := os.Remove(path); err != nil {
				m.logger.Warn("Failed to prune backup", map[string]any{
					"path":  path,
					"error": err.Error(),
				})
				continue
			}
			m.logger.Info("Pruned expired backup", map[string]any{"path": path})
		}
	}
}

// parseStamp extracts the timestamp from a backup file name.
func parseStamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	stamp, err := time.ParseInLocation(stampLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return stamp, true
}
