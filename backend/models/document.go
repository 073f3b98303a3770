package models

import "gorm.io/gorm"

type Document struct {
	gorm.Model
	UploadedBy       uint `gorm:"index"`
	FileName         string
	StoredName       string
	FileType         string
	FileSize         int64
	Status           string `gorm:"default:uploaded"` // uploaded, processing, processed, failed
	ProcessedContent string
}

// CourseDocument связывает курс с исходными документами,
// из которых он был сгенерирован.
type CourseDocument struct {
	gorm.Model
	CourseID   uint `gorm:"index:idx_course_documents_pair,unique"`
	DocumentID uint `gorm:"index:idx_course_documents_pair,unique"`
}

type AIGenerationJob struct {
	gorm.Model
	DocumentID   uint
	CourseID     uint
	Provider     string // gemini, korsify
	Status       string `gorm:"default:pending"` // pending, processing, completed, failed
	Progress     int    `gorm:"default:0"`
	CurrentStep  string
	ErrorMessage string
}
