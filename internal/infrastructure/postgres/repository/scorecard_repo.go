package repository

import (
	"context"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/postgres/mappers"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultScorecardRepository struct {
	db *gorm.DB
}

func NewDefaultScorecardRepository(db *gorm.DB) *DefaultScorecardRepository {
	return &DefaultScorecardRepository{db: db}
}

func (r *DefaultScorecardRepository) ListActive(ctx context.Context) ([]*domain.Scorecard, error) {
	var scorecardModels []models.ScorecardModel
	if err := r.db.WithContext(ctx).Model(&models.ScorecardModel{}).
		Where("is_active = ?", true).
		Order("display_name ASC").
		Find(&scorecardModels).Error; err != nil {
		return nil, err
	}

	scorecards := make([]*domain.Scorecard, len(scorecardModels))
	for i := range scorecardModels {
		scorecards[i] = mappers.ToDomainScorecard(&scorecardModels[i])
	}
	return scorecards, nil
}

var _ domain.ScorecardRepository = (*DefaultScorecardRepository)(nil)
