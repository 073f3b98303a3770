package store

import (
	"errors"

	"korsify/backend/models"

	"gorm.io/gorm"
)

// Модули

func (s *Store) CreateModule(module *models.Module) error {
	return s.DB.Create(module).Error
}

func (s *Store) GetCourseModules(courseID uint) ([]models.Module, error) {
	var courseModules []models.Module
	err := s.DB.Where("course_id = ?", courseID).
		Order("order_index").Find(&courseModules).Error
	return courseModules, err
}

func (s *Store) UpdateModule(id uint, updates map[string]interface{}) (models.Module, error) {
	if err := s.DB.Model(&models.Module{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.Module{}, err
	}
	var module models.Module
	err := s.DB.First(&module, id).Error
	return module, err
}

func (s *Store) DeleteModule(id uint) error {
	return s.DB.Delete(&models.Module{}, id).Error
}

// Уроки

func (s *Store) CreateLesson(lesson *models.Lesson) error {
	if lesson.Attachments == nil {
		lesson.Attachments = []byte("[]")
	}
	if lesson.SourceReferences == nil {
		lesson.SourceReferences = []byte("[]")
	}
	return s.DB.Create(lesson).Error
}

func (s *Store) GetLesson(id uint) (models.Lesson, bool, error) {
	var lesson models.Lesson
	err := s.DB.First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Lesson{}, false, nil
	}
	if err != nil {
		return models.Lesson{}, false, err
	}
	return lesson, true, nil
}

func (s *Store) GetModuleLessons(moduleID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := s.DB.Where("module_id = ?", moduleID).
		Order("order_index").Find(&lessons).Error
	return lessons, err
}

func (s *Store) UpdateLesson(id uint, updates map[string]interface{}) (models.Lesson, error) {
	if err := s.DB.Model(&models.Lesson{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.Lesson{}, err
	}
	var lesson models.Lesson
	err := s.DB.First(&lesson, id).Error
	return lesson, err
}

func (s *Store) DeleteLesson(id uint) error {
	return s.DB.Delete(&models.Lesson{}, id).Error
}

// Квизы

func (s *Store) CreateQuiz(quiz *models.Quiz) error {
	return s.DB.Create(quiz).Error
}

// GetLessonQuiz возвращает квиз, привязанный к уроку
func (s *Store) GetLessonQuiz(lessonID uint) (models.Quiz, bool, error) {
	var quiz models.Quiz
	err := s.DB.Where("lesson_id = ?", lessonID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Quiz{}, false, nil
	}
	if err != nil {
		return models.Quiz{}, false, err
	}
	return quiz, true, nil
}

// GetModuleQuiz возвращает квиз уровня модуля (lesson_id IS NULL)
func (s *Store) GetModuleQuiz(moduleID uint) (models.Quiz, bool, error) {
	var quiz models.Quiz
	err := s.DB.Where("module_id = ? AND lesson_id IS NULL", moduleID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Quiz{}, false, nil
	}
	if err != nil {
		return models.Quiz{}, false, err
	}
	return quiz, true, nil
}

// GetModuleQuizzes возвращает все квизы модуля, включая поурочные
func (s *Store) GetModuleQuizzes(moduleID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.DB.Where("module_id = ?", moduleID).Find(&quizzes).Error
	return quizzes, err
}

func (s *Store) GetQuiz(id uint) (models.Quiz, bool, error) {
	var quiz models.Quiz
	err := s.DB.First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Quiz{}, false, nil
	}
	if err != nil {
		return models.Quiz{}, false, err
	}
	return quiz, true, nil
}

func (s *Store) UpdateQuiz(id uint, updates map[string]interface{}) (models.Quiz, error) {
	if err := s.DB.Model(&models.Quiz{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.Quiz{}, err
	}
	var quiz models.Quiz
	err := s.DB.First(&quiz, id).Error
	return quiz, err
}

func (s *Store) DeleteQuiz(id uint) error {
	return s.DB.Delete(&models.Quiz{}, id).Error
}
