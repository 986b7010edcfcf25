package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/beauty_shop/services/backend/internal/models"
)

func (r *GormRepo) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	if err := r.DB.WithContext(ctx).Where(&models.Setting{Key: key}).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) PutSetting(ctx context.Context, key, value string) error {
	s := models.Setting{Key: key, Value: value}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
}
