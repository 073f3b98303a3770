package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email            string `gorm:"unique;not null"`
	Username         string
	PasswordHash     string // пусто для OAuth-аккаунтов
	FirstName        string
	LastName         string
	ProfileImageURL  string
	AuthProvider     string `gorm:"default:local"` // local, google, apple, linkedin
	GoogleID         string `gorm:"index"`
	AppleID          string `gorm:"index"`
	LinkedInID       string `gorm:"index"`
	EmailVerified    bool   `gorm:"default:false"`
	CurrentRole      string // creator, learner; пусто до выбора роли
	SubscriptionTier string `gorm:"default:free"` // free, pro, enterprise
}

type LearningMetrics struct {
	gorm.Model
	UserID          uint `gorm:"uniqueIndex"`
	TotalStudyTime  int  `gorm:"default:0"` // минуты
	WeeklyStudyTime int  `gorm:"default:0"` // минуты, обнуляется каждые 7 дней
	CurrentStreak   int  `gorm:"default:0"`
	LongestStreak   int  `gorm:"default:0"`
	DailyGoal       int  `gorm:"default:30"` // минуты
	LastActiveDate  *time.Time
	StreakStartDate *time.Time
	WeekStartDate   *time.Time
}

type DailyActivity struct {
	gorm.Model
	UserID           uint      `gorm:"index:idx_daily_activity_user_date,unique"`
	Date             time.Time `gorm:"index:idx_daily_activity_user_date,unique"`
	StudyTime        int       `gorm:"default:0"` // минуты
	LessonsCompleted int       `gorm:"default:0"`
	GoalMet          bool      `gorm:"default:false"`
	CoursesAccessed  datatypes.JSON
}
