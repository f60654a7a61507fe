package repository

import (
	"context"
	"time"

	"github.com/pawhaven/platform/internal/model"
	ctxutil "github.com/pawhaven/platform/pkg/context"
	"github.com/pawhaven/platform/pkg/logger"
	"gorm.io/gorm"
)

type PetRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) *PetRepository {
	return &PetRepository{db: db}
}

// CountByStatus counts pets in a given status (nav badge aggregation)
func (r *PetRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "CountByStatus")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Pet{}).Where("status = ?", status).Count(&count).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count pets").
			String("status", status).
			Err(err).
			Log()
		return 0, err
	}
	return count, nil
}

// GetFeatured returns the newest available pets for the home page
func (r *PetRepository) GetFeatured(ctx context.Context, limit int) ([]model.Pet, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetFeatured")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var pets []model.Pet

	result := r.db.WithContext(ctx).
		Preload("Shelter").
		Where("status = ?", model.PetStatusAvailable).
		Order("created_at DESC").
		Limit(limit).
		Find(&pets)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch featured pets").
			Int("limit", limit).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return pets, nil
}
