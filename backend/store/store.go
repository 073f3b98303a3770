// Package store содержит слой доступа к данным: типизированный CRUD по
// всем таблицам, проверки лимитов подписки, агрегацию аналитики для
// дашборда автора и учёт учебных метрик (стрики, время занятий).
package store

import (
	"time"

	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
	// Now подменяется в тестах для детерминированных дат
	Now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

// startOfDay обрезает время до полуночи локального дня
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween считает количество календарных дней между двумя датами
func daysBetween(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)).Hours() / 24)
}
