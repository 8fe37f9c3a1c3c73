package repository

import (
	"context"
	"time"

	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/pkg/xcontext"
)

type UsageLogRepository interface {
	Create(ctx context.Context, log *entity.UsageLog) error
	GetByKeyID(ctx context.Context, keyID string, offset, limit int) ([]entity.UsageLog, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByKeySince(ctx context.Context, keyID string, since time.Time) (int64, error)
}

type usageLogRepository struct{}

func NewUsageLogRepository() *usageLogRepository {
	return &usageLogRepository{}
}

func (r *usageLogRepository) Create(ctx context.Context, log *entity.UsageLog) error {
	return xcontext.DB(ctx).Create(log).Error
}

func (r *usageLogRepository) GetByKeyID(
	ctx context.Context, keyID string, offset, limit int,
) ([]entity.UsageLog, error) {
	var result []entity.UsageLog
	err := xcontext.DB(ctx).Model(&entity.UsageLog{}).
		Where("key_id=?", keyID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *usageLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.UsageLog{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *usageLogRepository) CountByKeySince(
	ctx context.Context, keyID string, since time.Time,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.UsageLog{}).
		Where("key_id=? AND created_at >= ?", keyID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
