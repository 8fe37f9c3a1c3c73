package repository

import (
	"context"

	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type MedicineStatistic struct {
	TotalMedicines      int64
	UniqueCompositions  int64
	UniqueManufacturers int64
}

type MedicineRepository interface {
	Upsert(ctx context.Context, medicine *entity.Medicine) error
	GetByName(ctx context.Context, name string) (*entity.Medicine, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Medicine, error)
	Statistic(ctx context.Context) (*MedicineStatistic, error)
}

type medicineRepository struct{}

func NewMedicineRepository() *medicineRepository {
	return &medicineRepository{}
}

func (r *medicineRepository) Upsert(ctx context.Context, medicine *entity.Medicine) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"salt_composition", "description", "manufacturer",
			"price", "alternatives", "side_effects",
		}),
	}).Create(medicine).Error
}

func (r *medicineRepository) GetByName(ctx context.Context, name string) (*entity.Medicine, error) {
	var result entity.Medicine
	err := xcontext.DB(ctx).Take(&result, "LOWER(name)=LOWER(?)", name).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *medicineRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Medicine, error) {
	var result []entity.Medicine
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *medicineRepository) Statistic(ctx context.Context) (*MedicineStatistic, error) {
	var stat MedicineStatistic
	err := xcontext.DB(ctx).Model(&entity.Medicine{}).
		Count(&stat.TotalMedicines).Error
	if err != nil {
		return nil, err
	}

	err = xcontext.DB(ctx).Model(&entity.Medicine{}).
		Distinct("salt_composition").Count(&stat.UniqueCompositions).Error
	if err != nil {
		return nil, err
	}

	err = xcontext.DB(ctx).Model(&entity.Medicine{}).
		Distinct("manufacturer").Count(&stat.UniqueManufacturers).Error
	if err != nil {
		return nil, err
	}

	return &stat, nil
}
