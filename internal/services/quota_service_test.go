package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/database"
	"github.com/ShinaSIT/Helix-Telebot/internal/models"
	apperrors "github.com/ShinaSIT/Helix-Telebot/internal/pkg/errors"
	"github.com/ShinaSIT/Helix-Telebot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// Keep every query on one connection so the in-memory DB is shared
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// setupFileDB opens a file-backed database where transactions take the
// write lock immediately, so concurrent writers queue instead of failing.
func setupFileDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_txlock=immediate",
		filepath.Join(t.TempDir(), "quota.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newQuotaService(db *gorm.DB, dailyCap int) QuotaService {
	return NewQuotaService(db, repository.NewUsageRepository(db), nil, dailyCap, time.UTC)
}

func currentCount(t *testing.T, db *gorm.DB, quota QuotaService) int {
	t.Helper()

	record, err := repository.NewUsageRepository(db).GetByDate(context.Background(), quota.TodayKey())
	require.NoError(t, err)
	if record == nil {
		return 0
	}
	return record.ReadCount
}

func TestCheckAndIncrementAccumulates(t *testing.T) {
	db := setupTestDB(t)
	quota := newQuotaService(db, 100)
	ctx := context.Background()

	require.NoError(t, quota.CheckAndIncrement(ctx, 5))
	require.NoError(t, quota.CheckAndIncrement(ctx, 6))
	assert.Equal(t, 11, currentCount(t, db, quota))
}

func TestIncrementExactlyAtCapIsAdmitted(t *testing.T) {
	db := setupTestDB(t)
	quota := newQuotaService(db, 10)
	ctx := context.Background()

	require.NoError(t, quota.CheckAndIncrement(ctx, 9))
	require.NoError(t, quota.CheckAndIncrement(ctx, 1))
	assert.Equal(t, 10, currentCount(t, db, quota))

	err := quota.CheckAndIncrement(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrResourceExhausted))
	assert.Equal(t, 10, currentCount(t, db, quota))
}

func TestIncrementPastCapIsRejectedInFull(t *testing.T) {
	db := setupTestDB(t)
	quota := newQuotaService(db, 10)
	ctx := context.Background()

	require.NoError(t, quota.CheckAndIncrement(ctx, 9))

	err := quota.CheckAndIncrement(ctx, 2)
	require.Error(t, err)

	var quotaErr *apperrors.QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 2, quotaErr.Requested)
	assert.Equal(t, 10, quotaErr.Cap)

	// No partial increment
	assert.Equal(t, 9, currentCount(t, db, quota))

	require.NoError(t, quota.CheckAndIncrement(ctx, 1))
	assert.Equal(t, 10, currentCount(t, db, quota))
}

func TestCapInvariantUnderConcurrency(t *testing.T) {
	db := setupFileDB(t)
	quota := newQuotaService(db, 50)
	ctx := context.Background()

	const (
		goroutines = 10
		perWorker  = 10
	)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				err := quota.CheckAndIncrement(ctx, 1)
				mu.Lock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, apperrors.ErrResourceExhausted):
					rejected++
				default:
					mu.Unlock()
					t.Errorf("unexpected error: %v", err)
					return
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, succeeded)
	assert.Equal(t, 50, rejected)
	assert.Equal(t, 50, currentCount(t, db, quota))
}

func TestCurrentUsage(t *testing.T) {
	db := setupTestDB(t)
	quota := newQuotaService(db, 200)
	ctx := context.Background()

	stats, err := quota.CurrentUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, quota.TodayKey(), stats.Date)
	assert.Equal(t, 0, stats.ReadCount)
	assert.Equal(t, 200, stats.Cap)
	assert.Equal(t, 200, stats.Remaining)

	require.NoError(t, quota.CheckAndIncrement(ctx, 25))

	stats, err = quota.CurrentUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, stats.ReadCount)
	assert.Equal(t, 175, stats.Remaining)
}

func TestPurgeStaleIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	quota := newQuotaService(db, 100)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.UsageRecord{Date: "2000-01-01", ReadCount: 12}).Error)
	require.NoError(t, db.Create(&models.UsageRecord{Date: "2000-01-02", ReadCount: 3}).Error)
	require.NoError(t, quota.CheckAndIncrement(ctx, 4))

	deleted, err := quota.PurgeStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 4, currentCount(t, db, quota))

	deleted, err = quota.PurgeStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
	assert.Equal(t, 4, currentCount(t, db, quota))
}

func TestTodayKeyUsesConfiguredZone(t *testing.T) {
	db := setupTestDB(t)

	east := time.FixedZone("UTC+14", 14*60*60)
	west := time.FixedZone("UTC-12", -12*60*60)

	eastKey := NewQuotaService(db, repository.NewUsageRepository(db), nil, 10, east).TodayKey()
	westKey := NewQuotaService(db, repository.NewUsageRepository(db), nil, 10, west).TodayKey()

	assert.Equal(t, time.Now().In(east).Format("2006-01-02"), eastKey)
	assert.Equal(t, time.Now().In(west).Format("2006-01-02"), westKey)
	assert.NotEqual(t, eastKey, westKey)
}
