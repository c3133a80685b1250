package repository

import (
	"context"

	"github.com/yukikurage/charity-task-api/internal/models"
	"gorm.io/gorm"
)

// GormCharityRepository is a GORM implementation of CharityRepository
type GormCharityRepository struct {
	db *gorm.DB
}

// NewCharityRepository creates a new CharityRepository
func NewCharityRepository(db *gorm.DB) CharityRepository {
	return &GormCharityRepository{db: db}
}

// Create creates a new charity profile
func (r *GormCharityRepository) Create(ctx context.Context, charity *models.Charity) error {
	return r.db.WithContext(ctx).Create(charity).Error
}

// FindByUserID finds the charity profile of a user
func (r *GormCharityRepository) FindByUserID(ctx context.Context, userID uint64) (*models.Charity, error) {
	var charity models.Charity
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&charity).Error; err != nil {
		return nil, err
	}
	return &charity, nil
}

// Delete deletes a charity and all of its tasks in a transaction
func (r *GormCharityRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("charity_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Charity{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
