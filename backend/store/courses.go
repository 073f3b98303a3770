package store

import (
	"errors"
	"strings"

	"korsify/backend/models"

	"gorm.io/gorm"
)

func (s *Store) CreateCourse(course *models.Course) error {
	return s.DB.Create(course).Error
}

func (s *Store) GetCourse(id uint) (models.Course, bool, error) {
	var course models.Course
	err := s.DB.First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Course{}, false, nil
	}
	if err != nil {
		return models.Course{}, false, err
	}
	return course, true, nil
}

// CourseWithDetails — курс вместе с автором и полным деревом модулей/уроков
type CourseWithDetails struct {
	models.Course
	Creator models.User     `json:"creator"`
	Modules []ModuleDetails `json:"modules"`
}

type ModuleDetails struct {
	models.Module
	Lessons []models.Lesson `json:"lessons"`
}

func (s *Store) GetCourseWithDetails(id uint) (CourseWithDetails, bool, error) {
	course, found, err := s.GetCourse(id)
	if err != nil || !found {
		return CourseWithDetails{}, found, err
	}

	creator, found, err := s.GetUser(course.CreatorID)
	if err != nil || !found {
		return CourseWithDetails{}, found, err
	}

	courseModules, err := s.GetCourseModules(id)
	if err != nil {
		return CourseWithDetails{}, false, err
	}

	details := CourseWithDetails{Course: course, Creator: creator}
	for _, m := range courseModules {
		lessons, err := s.GetModuleLessons(m.ID)
		if err != nil {
			return CourseWithDetails{}, false, err
		}
		details.Modules = append(details.Modules, ModuleDetails{Module: m, Lessons: lessons})
	}
	return details, true, nil
}

func (s *Store) GetUserCourses(userID uint) ([]models.Course, error) {
	var courses []models.Course
	err := s.DB.Where("creator_id = ?", userID).
		Order("created_at desc").Find(&courses).Error
	return courses, err
}

// GetPublishedCourses возвращает глобальный каталог опубликованных курсов
// всех авторов, без фильтрации по пользователю.
func (s *Store) GetPublishedCourses() ([]models.Course, error) {
	var courses []models.Course
	err := s.DB.Where("status = ?", "published").
		Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (s *Store) SearchCourses(query string) ([]models.Course, error) {
	term := "%" + strings.ToLower(query) + "%"
	var courses []models.Course
	err := s.DB.Where("status = ?", "published").
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term).
		Order("enrollment_count desc, rating desc").
		Find(&courses).Error
	return courses, err
}

func (s *Store) UpdateCourse(id uint, updates map[string]interface{}) (models.Course, error) {
	if err := s.DB.Model(&models.Course{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.Course{}, err
	}
	var course models.Course
	err := s.DB.First(&course, id).Error
	return course, err
}

func (s *Store) DeleteCourse(id uint) error {
	return s.DB.Delete(&models.Course{}, id).Error
}
