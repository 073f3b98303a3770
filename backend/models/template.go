package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseTemplate — готовая заготовка структуры курса. Неактивные
// шаблоны скрыты из каталога, но остаются в базе.
type CourseTemplate struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Category    string `gorm:"index"`
	Tags        datatypes.JSON
	// Без тега default: GORM не вставил бы явное false
	IsActive bool
}
