package store

import (
	"errors"

	"korsify/backend/models"

	"gorm.io/gorm"
)

func (s *Store) CreateGenerationJob(job *models.AIGenerationJob) error {
	return s.DB.Create(job).Error
}

func (s *Store) GetGenerationJob(id uint) (models.AIGenerationJob, bool, error) {
	var job models.AIGenerationJob
	err := s.DB.First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AIGenerationJob{}, false, nil
	}
	if err != nil {
		return models.AIGenerationJob{}, false, err
	}
	return job, true, nil
}

func (s *Store) UpdateGenerationJob(id uint, updates map[string]interface{}) (models.AIGenerationJob, error) {
	if err := s.DB.Model(&models.AIGenerationJob{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.AIGenerationJob{}, err
	}
	var job models.AIGenerationJob
	err := s.DB.First(&job, id).Error
	return job, err
}
