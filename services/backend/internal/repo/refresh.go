package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/beauty_shop/services/backend/internal/models"
)

var ErrRefreshInvalid = errors.New("refresh token expired or revoked")

func (r *GormRepo) AddRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func refreshUsable(tx *gorm.DB, jti, tokenHash string) error {
	var refresh models.RefreshToken
	if err := tx.Where("jti = ? AND token_hash = ?", jti, tokenHash).First(&refresh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRefreshInvalid
		}
		return err
	}
	if refresh.Revoked || refresh.ExpiresAt < time.Now().Unix() {
		return ErrRefreshInvalid
	}
	return nil
}

func revoke(tx *gorm.DB, jti string) error {
	return tx.Model(&models.RefreshToken{}).
		Where("jti = ?", jti).
		Update("revoked", true).Error
}

// RotateRefreshToken revokes the old token and stores its replacement in one
// transaction. A revoked or unknown token cannot be rotated again.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, oldHash string, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := refreshUsable(tx, oldJTI, oldHash); err != nil {
			return err
		}
		if err := revoke(tx, oldJTI); err != nil {
			return err
		}
		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, jti string) error {
	return revoke(r.DB.WithContext(ctx), jti)
}
