package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/logger"
	"github.com/ShinaSIT/Helix-Telebot/internal/services"
	"github.com/sirupsen/logrus"
)

const (
	resetLockPrefix = "readproxy:reset:"
	resetLockTTL    = 24 * time.Hour
)

// ResetScheduler purges stale usage records when the calendar day rolls
// over in the proxy's configured time zone. The purge only ever deletes
// records for other dates, so it cannot race with in-flight increments for
// today.
type ResetScheduler struct {
	quota         services.QuotaService
	cache         services.CacheService // optional; elects a single purger
	checkInterval time.Duration

	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	isRunning  bool
	lastPurged string
}

func NewResetScheduler(quota services.QuotaService, cache services.CacheService) *ResetScheduler {
	return &ResetScheduler{
		quota:         quota,
		cache:         cache,
		checkInterval: time.Minute,
	}
}

func (s *ResetScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	logger.Logger.WithFields(logrus.Fields{
		"check_interval": s.checkInterval.String(),
	}).Info("Reset scheduler started")
}

func (s *ResetScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	logger.Logger.Info("Reset scheduler stopped")
}

func (s *ResetScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	// The reset is idempotent, so run once on startup too.
	s.runOnce(ctx)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce purges stale records unless this instance already purged for the
// current date.
func (s *ResetScheduler) runOnce(ctx context.Context) {
	today := s.quota.TodayKey()
	if today == s.lastPurged {
		return
	}

	if s.cache != nil {
		hostname, _ := os.Hostname()
		acquired, err := s.cache.SetNX(ctx, resetLockPrefix+today, hostname, resetLockTTL)
		if err != nil {
			logger.Logger.WithFields(logrus.Fields{"error": err}).Warn("Reset lock unavailable, purging anyway")
		} else if !acquired {
			// Another instance owns today's reset.
			s.lastPurged = today
			return
		}
	}

	deleted, err := s.quota.PurgeStale(ctx)
	if err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"error": err,
			"date":  today,
		}).Error("Failed to purge stale usage records")
		return
	}

	s.lastPurged = today
	logger.Logger.WithFields(logrus.Fields{
		"date":    today,
		"deleted": deleted,
	}).Info("Daily usage reset complete")
}
