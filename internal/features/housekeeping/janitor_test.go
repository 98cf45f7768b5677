package housekeeping

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/features/preview"
	"github.com/periljames/amo-portal-sub002/internal/metrics"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func TestSweepScratchFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FSPath:     dir,
		SessionTTL: time.Hour,
	}

	stale := filepath.Join(dir, "stale.xlsx")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	fresh := filepath.Join(dir, "fresh.xlsx")
	if err := os.WriteFile(fresh, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	j := NewJanitor(
		preview.NewSessionStore(cfg, metrics.NewRegistryWith(promclient.NewRegistry())),
		cfg,
		zap.NewNop(),
	)

	removed, err := j.sweepScratchFiles()
	if err != nil {
		t.Fatalf("sweepScratchFiles() error: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should be gone")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh file should survive")
	}
}

func TestSweepScratchFiles_MissingDir(t *testing.T) {
	cfg := &config.Config{
		FSPath:     filepath.Join(t.TempDir(), "does-not-exist"),
		SessionTTL: time.Hour,
	}
	j := NewJanitor(
		preview.NewSessionStore(cfg, metrics.NewRegistryWith(promclient.NewRegistry())),
		cfg,
		zap.NewNop(),
	)

	if removed, err := j.sweepScratchFiles(); err != nil || removed != 0 {
		t.Errorf("sweepScratchFiles() = %d, %v; want 0, nil", removed, err)
	}
}
