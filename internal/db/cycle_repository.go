package db

import (
	"github.com/terraincognita07/cyclelog/internal/models"
	"gorm.io/gorm"
)

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

// ListByUser returns the user's cycles newest first.
func (repo *CycleRepository) ListByUser(userID uint) ([]models.CycleRecord, error) {
	cycles := make([]models.CycleRecord, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("start_date DESC, created_at DESC").
		Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

func (repo *CycleRepository) FindByIDForUser(cycleID string, userID uint) (models.CycleRecord, bool, error) {
	cycle := models.CycleRecord{}
	result := repo.database.
		Where("id = ? AND user_id = ?", cycleID, userID).
		Limit(1).
		Find(&cycle)
	if result.Error != nil {
		return models.CycleRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CycleRecord{}, false, nil
	}
	return cycle, true, nil
}

func (repo *CycleRepository) Create(cycle *models.CycleRecord) error {
	return repo.database.Create(cycle).Error
}

func (repo *CycleRepository) Save(cycle *models.CycleRecord) error {
	return repo.database.Save(cycle).Error
}

func (repo *CycleRepository) DeleteByIDForUser(cycleID string, userID uint) (int64, error) {
	result := repo.database.Where("id = ? AND user_id = ?", cycleID, userID).Delete(&models.CycleRecord{})
	return result.RowsAffected, result.Error
}

func (repo *CycleRepository) DeleteAllForUser(userID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.CycleRecord{}).Error
}
