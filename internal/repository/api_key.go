package repository

import (
	"context"
	"time"

	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type APIKeyRepository interface {
	Create(ctx context.Context, key *entity.APIKey) error
	GetByHash(ctx context.Context, keyHash string) (*entity.APIKey, error)
	GetByID(ctx context.Context, id string) (*entity.APIKey, error)
	GetByEmail(ctx context.Context, email string) (*entity.APIKey, error)
	IncreaseUsage(ctx context.Context, id string, usedAt time.Time) error
	ResetDailyUsage(ctx context.Context, id string, resetAt time.Time) error
	Deactivate(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type apiKeyRepository struct{}

func NewAPIKeyRepository() *apiKeyRepository {
	return &apiKeyRepository{}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *entity.APIKey) error {
	return xcontext.DB(ctx).Create(key).Error
}

func (r *apiKeyRepository) GetByHash(ctx context.Context, keyHash string) (*entity.APIKey, error) {
	var result entity.APIKey
	if err := xcontext.DB(ctx).Take(&result, "key_hash=?", keyHash).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *apiKeyRepository) GetByID(ctx context.Context, id string) (*entity.APIKey, error) {
	var result entity.APIKey
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *apiKeyRepository) GetByEmail(ctx context.Context, email string) (*entity.APIKey, error) {
	var result entity.APIKey
	if err := xcontext.DB(ctx).Take(&result, "user_email=?", email).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *apiKeyRepository) IncreaseUsage(ctx context.Context, id string, usedAt time.Time) error {
	return xcontext.DB(ctx).Model(&entity.APIKey{}).
		Where("id=?", id).
		Updates(map[string]any{
			"requests_made": gorm.Expr("requests_made + 1"),
			"last_used_at":  usedAt,
		}).Error
}

func (r *apiKeyRepository) ResetDailyUsage(ctx context.Context, id string, resetAt time.Time) error {
	return xcontext.DB(ctx).Model(&entity.APIKey{}).
		Where("id=?", id).
		Updates(map[string]any{
			"requests_made":  0,
			"limit_reset_at": resetAt,
		}).Error
}

func (r *apiKeyRepository) Deactivate(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Model(&entity.APIKey{}).
		Where("id=?", id).
		Update("is_active", false).Error
}

func (r *apiKeyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.APIKey{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *apiKeyRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.APIKey{}).
		Where("is_active=true AND expires_at > ?", time.Now()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
