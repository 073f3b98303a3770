package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	CreatorID         uint `gorm:"index"`
	Title             string
	Description       string
	Status            string  `gorm:"default:draft"` // draft, processing, published
	DifficultyLevel   string  // beginner, intermediate, advanced
	Language          string  `gorm:"default:English"`
	TargetAudience    string
	Rating            float64 `gorm:"default:0"`
	EnrollmentCount   int     `gorm:"default:0"`
	EstimatedDuration int     // минуты
	CoverImageURL     string
	Modules           []Module
}

type Module struct {
	gorm.Model
	CourseID    uint `gorm:"index"`
	Title       string
	Description string
	OrderIndex  int
	Lessons     []Lesson
}

type Lesson struct {
	gorm.Model
	ModuleID          uint `gorm:"index"`
	Title             string
	Content           string
	OrderIndex        int
	EstimatedDuration int // минуты чтения
	Attachments       datatypes.JSON
	SourceReferences  datatypes.JSON
}

// Quiz привязан либо к уроку, либо, при LessonID == NULL,
// к модулю целиком.
type Quiz struct {
	gorm.Model
	ModuleID  uint  `gorm:"index"`
	LessonID  *uint `gorm:"index"`
	Title     string
	Questions datatypes.JSON
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}
