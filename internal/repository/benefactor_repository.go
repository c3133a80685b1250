package repository

import (
	"context"

	"github.com/yukikurage/charity-task-api/internal/models"
	"gorm.io/gorm"
)

// GormBenefactorRepository is a GORM implementation of BenefactorRepository
type GormBenefactorRepository struct {
	db *gorm.DB
}

// NewBenefactorRepository creates a new BenefactorRepository
func NewBenefactorRepository(db *gorm.DB) BenefactorRepository {
	return &GormBenefactorRepository{db: db}
}

// Create creates a new benefactor profile
func (r *GormBenefactorRepository) Create(ctx context.Context, benefactor *models.Benefactor) error {
	return r.db.WithContext(ctx).Create(benefactor).Error
}

// FindByUserID finds the benefactor profile of a user
func (r *GormBenefactorRepository) FindByUserID(ctx context.Context, userID uint64) (*models.Benefactor, error) {
	var benefactor models.Benefactor
	if err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		First(&benefactor).Error; err != nil {
		return nil, err
	}
	return &benefactor, nil
}

// Delete removes a benefactor in a transaction. Tasks it was waiting on or
// assigned to go back to the open pool; finished tasks only lose the reference.
func (r *GormBenefactorRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("assigned_benefactor_id = ? AND state IN ?", id,
				[]models.TaskState{models.TaskStateWaiting, models.TaskStateAssigned}).
			Updates(map[string]interface{}{
				"state":                  models.TaskStatePending,
				"assigned_benefactor_id": nil,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("assigned_benefactor_id = ?", id).
			Update("assigned_benefactor_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Benefactor{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
