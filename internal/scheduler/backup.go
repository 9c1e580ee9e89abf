// Package scheduler runs periodic jobs.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go-boutique-pos/internal/config"
	"go-boutique-pos/pkg/log"

	"github.com/go-co-op/gocron"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
)

// BackupWriter produces a backup archive
type BackupWriter interface {
	WriteBackup(ctx context.Context, w io.Writer) (string, error)
}

type BackupConfig struct {
	CronSchedule string
	Dir          string
	Retention    int
	Enabled      bool
}

type BackupService struct {
	scheduler *gocron.Scheduler
	writer    BackupWriter
	config    BackupConfig

	runMutex sync.Mutex
	running  bool
	lastRun  time.Time
	lastFile string
}

func NewBackupService(writer BackupWriter, cfg *config.Config) *BackupService {
	backupConfig := BackupConfig{
		CronSchedule: cfg.Backup.CronSchedule,
		Dir:          cfg.Backup.Dir,
		Retention:    cfg.Backup.Retention,
		Enabled:      cfg.Backup.Enabled,
	}

	log.L.WithFields(log.Fields{
		"cron_schedule": backupConfig.CronSchedule,
		"dir":           backupConfig.Dir,
		"retention":     backupConfig.Retention,
	}).Info("Backup scheduler configuration loaded")

	return &BackupService{
		scheduler: gocron.NewScheduler(cfg.Location()),
		writer:    writer,
		config:    backupConfig,
	}
}

func (s *BackupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("Scheduled backups disabled by configuration")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Starting scheduled backups")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.RunBackup(ctx); err != nil {
			log.L.WithError(err).Error("Scheduled backup failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule backup job: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Stopping backup scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// RunBackup writes one archive into the backup directory and prunes old ones
func (s *BackupService) RunBackup(ctx context.Context) (string, error) {
	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		log.L.Warn("Backup already running")
		return "", nil
	}
	s.running = true
	s.runMutex.Unlock()
	defer func() {
		s.runMutex.Lock()
		s.running = false
		s.runMutex.Unlock()
	}()

	if err := os.MkdirAll(s.config.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create backup dir")
	}

	suffix, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", 6)
	if err != nil {
		return "", errors.Wrap(err, "generate backup suffix")
	}
	tmp, err := os.CreateTemp(s.config.Dir, ".respaldo-*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	name, err := s.writer.WriteBackup(ctx, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", errors.Wrap(err, "write backup")
	}

	final := filepath.Join(s.config.Dir, strings.TrimSuffix(name, ".zip")+"_"+suffix+".zip")
	if err := os.Rename(tmpName, final); err != nil {
		return "", errors.Wrap(err, "move backup into place")
	}

	s.runMutex.Lock()
	s.lastRun = time.Now()
	s.lastFile = final
	s.runMutex.Unlock()
	log.L.WithField("file", final).Info("Backup written")

	s.prune()
	return final, nil
}

// prune keeps the newest Retention archives. Failures are only logged.
// A non-positive Retention keeps everything.
func (s *BackupService) prune() {
	if s.config.Retention <= 0 {
		return
	}
	matches, err := filepath.Glob(filepath.Join(s.config.Dir, "respaldo_*.zip"))
	if err != nil {
		log.L.WithError(err).Warn("Could not list old backups")
		return
	}
	if len(matches) <= s.config.Retention {
		return
	}

	type archive struct {
		path    string
		modTime time.Time
	}
	archives := make([]archive, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		archives = append(archives, archive{path: path, modTime: info.ModTime()})
	}
	sort.Slice(archives, func(i, j int) bool {
		if archives[i].modTime.Equal(archives[j].modTime) {
			return archives[i].path > archives[j].path
		}
		return archives[i].modTime.After(archives[j].modTime)
	})

	for _, a := range archives[min(s.config.Retention, len(archives)):] {
		if err := os.Remove(a.path); err != nil {
			log.L.WithError(err).WithField("file", a.path).Warn("Could not remove old backup")
		}
	}
}

// LastRun reports the last successful backup
func (s *BackupService) LastRun() (time.Time, string) {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()
	return s.lastRun, s.lastFile
}
