package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Enrollment struct {
	gorm.Model
	LearnerID   uint    `gorm:"index:idx_enrollments_learner_course,unique"`
	CourseID    uint    `gorm:"index:idx_enrollments_learner_course,unique"`
	Progress    float64 `gorm:"default:0"` // 0-100
	EnrolledAt  time.Time
	CompletedAt *time.Time
}

type Progress struct {
	gorm.Model
	EnrollmentID uint `gorm:"index:idx_progress_enrollment_lesson,unique"`
	LessonID     uint `gorm:"index:idx_progress_enrollment_lesson,unique"`
	Completed    bool `gorm:"default:false"`
	CompletedAt  *time.Time
	TimeSpent    int // секунды, только накапливается
}

type QuizAttempt struct {
	gorm.Model
	QuizID      uint `gorm:"index"`
	LearnerID   uint `gorm:"index"`
	Score       float64
	Answers     datatypes.JSON
	CompletedAt time.Time
}
