package repository

import (
	"context"
	"testing"

	"github.com/ShinaSIT/Helix-Telebot/internal/database"
	"github.com/ShinaSIT/Helix-Telebot/internal/models"
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

func TestGetForUpdateCreatesZeroRecord(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		record, err := repo.GetForUpdate(tx, "2026-08-28")
		require.NoError(t, err)
		assert.Equal(t, "2026-08-28", record.Date)
		assert.Equal(t, 0, record.ReadCount)
		return nil
	})
	require.NoError(t, err)

	record, err := repo.GetByDate(context.Background(), "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 0, record.ReadCount)
}

func TestGetForUpdateReturnsExistingRecord(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db)

	require.NoError(t, db.Create(&models.UsageRecord{Date: "2026-08-28", ReadCount: 42}).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		record, err := repo.GetForUpdate(tx, "2026-08-28")
		require.NoError(t, err)
		assert.Equal(t, 42, record.ReadCount)
		return nil
	})
	require.NoError(t, err)
}

func TestAddUnitsAccumulates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db)
	ctx := context.Background()

	for _, units := range []int{5, 6, 1} {
		err := db.Transaction(func(tx *gorm.DB) error {
			if _, err := repo.GetForUpdate(tx, "2026-08-28"); err != nil {
				return err
			}
			return repo.AddUnits(tx, "2026-08-28", units)
		})
		require.NoError(t, err)
	}

	record, err := repo.GetByDate(ctx, "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 12, record.ReadCount)
	assert.False(t, record.UpdatedAt.IsZero())
}

func TestGetByDateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db)

	record, err := repo.GetByDate(context.Background(), "1999-12-31")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestDeleteOtherDatesKeepsOnlyGivenDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db)
	ctx := context.Background()

	for _, date := range []string{"2026-08-26", "2026-08-27", "2026-08-28"} {
		require.NoError(t, db.Create(&models.UsageRecord{Date: date, ReadCount: 7}).Error)
	}

	deleted, err := repo.DeleteOtherDates(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	record, err := repo.GetByDate(ctx, "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 7, record.ReadCount)

	// Re-running on the same day is a no-op
	deleted, err = repo.DeleteOtherDates(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
