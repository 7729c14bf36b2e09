package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/logger"
	"github.com/ShinaSIT/Helix-Telebot/internal/models"
	apperrors "github.com/ShinaSIT/Helix-Telebot/internal/pkg/errors"
	"github.com/ShinaSIT/Helix-Telebot/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const usageStatsCacheKey = "readproxy:usage:today"

// UsageStats reports the quota position for the current day.
type UsageStats struct {
	Date      string `json:"date"`
	ReadCount int    `json:"readCount"`
	Cap       int    `json:"cap"`
	Remaining int    `json:"remaining"`
}

type QuotaService interface {
	TodayKey() string
	Cap() int
	Acquire(tx *gorm.DB) (*models.UsageRecord, error)
	Commit(tx *gorm.DB, record *models.UsageRecord, units int) error
	CheckAndIncrement(ctx context.Context, units int) error
	CurrentUsage(ctx context.Context) (*UsageStats, error)
	PurgeStale(ctx context.Context) (int64, error)
}

type quotaService struct {
	db       *gorm.DB
	repo     repository.UsageRepository
	cache    CacheService
	cacheTTL time.Duration
	dailyCap int
	location *time.Location
}

func NewQuotaService(db *gorm.DB, repo repository.UsageRepository, cache CacheService, dailyCap int, location *time.Location) QuotaService {
	return &quotaService{
		db:       db,
		repo:     repo,
		cache:    cache,
		cacheTTL: 30 * time.Second,
		dailyCap: dailyCap,
		location: location,
	}
}

// TodayKey returns the current calendar date in the configured time zone.
func (s *quotaService) TodayKey() string {
	return time.Now().In(s.location).Format("2006-01-02")
}

func (s *quotaService) Cap() int {
	return s.dailyCap
}

// Acquire locks today's usage record for the remainder of tx, creating it
// on first use.
func (s *quotaService) Acquire(tx *gorm.DB) (*models.UsageRecord, error) {
	return s.repo.GetForUpdate(tx, s.TodayKey())
}

// Commit admits or rejects a proposed increment against the locked record.
// Rejection aborts the surrounding transaction in full, so it never leaves
// a partial increment behind.
func (s *quotaService) Commit(tx *gorm.DB, record *models.UsageRecord, units int) error {
	next := record.ReadCount + units
	if next > s.dailyCap {
		return &apperrors.QuotaExceededError{Requested: units, Cap: s.dailyCap}
	}
	return s.repo.AddUnits(tx, record.Date, units)
}

// CheckAndIncrement runs the quota protocol as a standalone transaction.
func (s *quotaService) CheckAndIncrement(ctx context.Context, units int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.Acquire(tx)
		if err != nil {
			return err
		}
		return s.Commit(tx, record, units)
	})
}

func (s *quotaService) CurrentUsage(ctx context.Context) (*UsageStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, usageStatsCacheKey); err == nil && cached != "" {
			var stats UsageStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil && stats.Date == s.TodayKey() {
				return &stats, nil
			}
		}
	}

	date := s.TodayKey()
	record, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	count := 0
	if record != nil {
		count = record.ReadCount
	}
	stats := &UsageStats{
		Date:      date,
		ReadCount: count,
		Cap:       s.dailyCap,
		Remaining: s.dailyCap - count,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, usageStatsCacheKey, stats, s.cacheTTL); err != nil {
			logger.Logger.WithFields(logrus.Fields{"error": err}).Warn("Failed to cache usage stats")
		}
	}
	return stats, nil
}

// PurgeStale deletes every usage record except today's.
func (s *quotaService) PurgeStale(ctx context.Context) (int64, error) {
	return s.repo.DeleteOtherDates(ctx, s.TodayKey())
}
