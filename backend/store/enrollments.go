package store

import (
	"errors"

	"korsify/backend/models"

	"gorm.io/gorm"
)

func (s *Store) CreateEnrollment(enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = s.Now()
	}
	if err := s.DB.Create(enrollment).Error; err != nil {
		return err
	}
	// Денормализованный счётчик на курсе
	return s.DB.Model(&models.Course{}).Where("id = ?", enrollment.CourseID).
		Update("enrollment_count", gorm.Expr("enrollment_count + 1")).Error
}

func (s *Store) GetEnrollment(learnerID, courseID uint) (models.Enrollment, bool, error) {
	var enrollment models.Enrollment
	err := s.DB.Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Enrollment{}, false, nil
	}
	if err != nil {
		return models.Enrollment{}, false, err
	}
	return enrollment, true, nil
}

func (s *Store) GetCourseEnrollments(courseID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.DB.Where("course_id = ?", courseID).Find(&enrollments).Error
	return enrollments, err
}

func (s *Store) UpdateEnrollmentProgress(id uint, progressPercentage float64) error {
	return s.DB.Model(&models.Enrollment{}).Where("id = ?", id).
		Update("progress", progressPercentage).Error
}

func (s *Store) CompleteEnrollment(id uint) error {
	now := s.Now()
	return s.DB.Model(&models.Enrollment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"progress": 100.0, "completed_at": &now}).Error
}

func (s *Store) Unenroll(learnerID, courseID uint) error {
	err := s.DB.Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return err
	}
	return s.DB.Model(&models.Course{}).
		Where("id = ? AND enrollment_count > 0", courseID).
		Update("enrollment_count", gorm.Expr("enrollment_count - 1")).Error
}

// LearnerProgress — запись о курсе ученика с вычисленным процентом
// прохождения. Процент всегда выводится из строк progress, а не хранится.
type LearnerProgress struct {
	Enrollment         models.Enrollment `json:"enrollment"`
	Course             models.Course     `json:"course"`
	ProgressPercentage float64           `json:"progressPercentage"`
	CompletedLessons   int               `json:"completedLessons"`
	TotalLessons       int               `json:"totalLessons"`
}

func (s *Store) GetUserEnrollments(userID uint) ([]LearnerProgress, error) {
	var enrollments []models.Enrollment
	err := s.DB.Where("learner_id = ?", userID).
		Order("enrolled_at desc").Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	result := make([]LearnerProgress, 0, len(enrollments))
	for _, e := range enrollments {
		course, found, err := s.GetCourse(e.CourseID)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}

		totalLessons, err := s.CountCourseLessons(e.CourseID)
		if err != nil {
			return nil, err
		}

		var completedLessons int64
		err = s.DB.Model(&models.Progress{}).
			Where("enrollment_id = ? AND completed = ?", e.ID, true).
			Count(&completedLessons).Error
		if err != nil {
			return nil, err
		}

		percentage := 0.0
		if totalLessons > 0 {
			percentage = float64(completedLessons) / float64(totalLessons) * 100
		}

		result = append(result, LearnerProgress{
			Enrollment:         e,
			Course:             course,
			ProgressPercentage: percentage,
			CompletedLessons:   int(completedLessons),
			TotalLessons:       totalLessons,
		})
	}
	return result, nil
}

func (s *Store) CountCourseLessons(courseID uint) (int, error) {
	var count int64
	err := s.DB.Model(&models.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Count(&count).Error
	return int(count), err
}

// Прогресс по урокам

func (s *Store) CreateProgress(progress *models.Progress) error {
	return s.DB.Create(progress).Error
}

// UpdateProgress создаёт или обновляет запись прогресса по уроку.
// TimeSpent накапливается, отметка о завершении ставит/снимает CompletedAt.
func (s *Store) UpdateProgress(enrollmentID, lessonID uint, completed bool, timeSpent int) error {
	var existing models.Progress
	err := s.DB.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := models.Progress{
			EnrollmentID: enrollmentID,
			LessonID:     lessonID,
			Completed:    completed,
			TimeSpent:    timeSpent,
		}
		if completed {
			now := s.Now()
			record.CompletedAt = &now
		}
		return s.DB.Create(&record).Error
	}

	updates := map[string]interface{}{"completed": completed}
	if completed {
		now := s.Now()
		updates["completed_at"] = &now
	} else {
		updates["completed_at"] = nil
	}
	if timeSpent > 0 {
		updates["time_spent"] = existing.TimeSpent + timeSpent
	}
	return s.DB.Model(&models.Progress{}).Where("id = ?", existing.ID).
		Updates(updates).Error
}

func (s *Store) GetEnrollmentProgress(enrollmentID uint) ([]models.Progress, error) {
	var records []models.Progress
	err := s.DB.Where("enrollment_id = ?", enrollmentID).Find(&records).Error
	return records, err
}

// Попытки квизов

func (s *Store) CreateQuizAttempt(attempt *models.QuizAttempt) error {
	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = s.Now()
	}
	return s.DB.Create(attempt).Error
}

func (s *Store) GetUserQuizAttempts(learnerID, quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.DB.Where("learner_id = ? AND quiz_id = ?", learnerID, quizID).
		Order("completed_at desc").Find(&attempts).Error
	return attempts, err
}
