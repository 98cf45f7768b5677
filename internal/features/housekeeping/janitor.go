package housekeeping

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/features/preview"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor periodically evicts expired preview sessions and deletes upload
// scratch files that outlived the session TTL. Everything it removes is
// reconstructable from a fresh upload.
type Janitor struct {
	Store     *preview.SessionStore
	Config    *config.Config
	Logger    *zap.Logger
	scheduler *cron.Cron
}

func NewJanitor(store *preview.SessionStore, cfg *config.Config, logger *zap.Logger) *Janitor {
	return &Janitor{
		Store:  store,
		Config: cfg,
		Logger: logger,
	}
}

func (j *Janitor) Start() error {
	j.scheduler = cron.New()
	if _, err := j.scheduler.AddFunc(j.Config.JanitorSchedule, j.Sweep); err != nil {
		return fmt.Errorf("failed to schedule janitor: %w", err)
	}
	j.scheduler.Start()
	j.Logger.Info("janitor started", zap.String("schedule", j.Config.JanitorSchedule))
	return nil
}

func (j *Janitor) Stop() {
	if j.scheduler != nil {
		ctx := j.scheduler.Stop()
		<-ctx.Done()
	}
}

// Sweep runs one housekeeping pass
func (j *Janitor) Sweep() {
	resident := j.Store.Sweep()
	removed, err := j.sweepScratchFiles()
	if err != nil {
		j.Logger.Warn("scratch file sweep failed", zap.Error(err))
	}
	j.Logger.Info("housekeeping sweep finished",
		zap.Int("sessions_resident", resident),
		zap.Int("scratch_files_removed", removed),
	)
}

// sweepScratchFiles deletes files in the upload scratch directory older than
// the session TTL. Live sessions never read these back; they exist only for
// failed-upload diagnostics.
func (j *Janitor) sweepScratchFiles() (int, error) {
	if j.Config.FSPath == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(j.Config.FSPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-j.Config.SessionTTL)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.Config.FSPath, entry.Name())); err != nil {
			j.Logger.Warn("failed to remove scratch file",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		removed++
	}
	return removed, nil
}
