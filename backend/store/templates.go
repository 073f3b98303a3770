package store

import (
	"errors"

	"korsify/backend/models"

	"gorm.io/gorm"
)

func (s *Store) CreateCourseTemplate(template *models.CourseTemplate) error {
	if len(template.Tags) == 0 {
		template.Tags = []byte("[]")
	}
	return s.DB.Create(template).Error
}

func (s *Store) GetCourseTemplate(id uint) (models.CourseTemplate, bool, error) {
	var template models.CourseTemplate
	err := s.DB.First(&template, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CourseTemplate{}, false, nil
	}
	if err != nil {
		return models.CourseTemplate{}, false, err
	}
	return template, true, nil
}

// GetCourseTemplates возвращает только активные шаблоны по алфавиту.
func (s *Store) GetCourseTemplates() ([]models.CourseTemplate, error) {
	var templates []models.CourseTemplate
	err := s.DB.Where("is_active = ?", true).Order("name").Find(&templates).Error
	return templates, err
}

func (s *Store) GetCourseTemplatesByCategory(category string) ([]models.CourseTemplate, error) {
	var templates []models.CourseTemplate
	err := s.DB.Where("category = ? AND is_active = ?", category, true).
		Order("name").Find(&templates).Error
	return templates, err
}

func (s *Store) UpdateCourseTemplate(id uint, updates map[string]interface{}) error {
	return s.DB.Model(&models.CourseTemplate{}).Where("id = ?", id).
		Updates(updates).Error
}

func (s *Store) DeleteCourseTemplate(id uint) error {
	return s.DB.Delete(&models.CourseTemplate{}, id).Error
}
