package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepository interface {
	GetForUpdate(tx *gorm.DB, date string) (*models.UsageRecord, error)
	AddUnits(tx *gorm.DB, date string, units int) error
	GetByDate(ctx context.Context, date string) (*models.UsageRecord, error)
	DeleteOtherDates(ctx context.Context, date string) (int64, error)
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

// GetForUpdate upserts the zero record for the date and returns it with a
// row lock held for the remainder of tx. Concurrent callers racing on the
// same date serialize here.
func (r *usageRepository) GetForUpdate(tx *gorm.DB, date string) (*models.UsageRecord, error) {
	seed := models.UsageRecord{Date: date}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var record models.UsageRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "date = ?", date).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// AddUnits commits an already-admitted increment on the locked record.
func (r *usageRepository) AddUnits(tx *gorm.DB, date string, units int) error {
	return tx.Model(&models.UsageRecord{}).
		Where("date = ?", date).
		Updates(map[string]interface{}{
			"read_count": gorm.Expr("read_count + ?", units),
			"updated_at": time.Now(),
		}).Error
}

func (r *usageRepository) GetByDate(ctx context.Context, date string) (*models.UsageRecord, error) {
	var record models.UsageRecord
	err := r.db.WithContext(ctx).First(&record, "date = ?", date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteOtherDates removes every usage record except the given date's.
func (r *usageRepository) DeleteOtherDates(ctx context.Context, date string) (int64, error) {
	res := r.db.WithContext(ctx).Where("date <> ?", date).Delete(&models.UsageRecord{})
	return res.RowsAffected, res.Error
}
