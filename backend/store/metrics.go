package store

import (
	"errors"
	"time"

	"korsify/backend/models"

	"gorm.io/gorm"
)

// GetLearningMetrics возвращает метрики пользователя, создавая пустую
// запись при первом обращении.
func (s *Store) GetLearningMetrics(userID uint) (models.LearningMetrics, error) {
	var metrics models.LearningMetrics
	err := s.DB.Where("user_id = ?", userID).First(&metrics).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		weekStart := startOfDay(s.Now())
		metrics = models.LearningMetrics{
			UserID:        userID,
			DailyGoal:     30,
			WeekStartDate: &weekStart,
		}
		if err := s.DB.Create(&metrics).Error; err != nil {
			return models.LearningMetrics{}, err
		}
		return metrics, nil
	}
	if err != nil {
		return models.LearningMetrics{}, err
	}
	return metrics, nil
}

func (s *Store) GetDailyActivity(userID uint, date time.Time) (models.DailyActivity, bool, error) {
	day := startOfDay(date)
	next := day.AddDate(0, 0, 1)

	var activity models.DailyActivity
	err := s.DB.Where("user_id = ? AND date >= ? AND date < ?", userID, day, next).
		First(&activity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DailyActivity{}, false, nil
	}
	if err != nil {
		return models.DailyActivity{}, false, err
	}
	return activity, true, nil
}

// RecordLessonProgress фиксирует учебное событие: обновляет стрик,
// суммарное и недельное время и дневную активность. Время на самом
// уроке сюда не входит — его накапливает UpdateProgress, иначе одно
// событие учитывалось бы дважды.
// Обе строки (метрики и дневная активность) меняются в одной транзакции,
// иначе параллельные события одного дня теряют обновления.
func (s *Store) RecordLessonProgress(userID uint, studyTimeMinutes int, completed bool) error {
	now := s.Now()
	today := startOfDay(now)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		txStore := &Store{DB: tx, Now: s.Now}

		metrics, err := txStore.GetLearningMetrics(userID)
		if err != nil {
			return err
		}

		// Стрик: тот же день — без изменений, следующий день — +1,
		// разрыв больше суток или первое событие — сброс на 1.
		newStreak := metrics.CurrentStreak
		streakStart := metrics.StreakStartDate
		if metrics.LastActiveDate != nil {
			switch gap := daysBetween(*metrics.LastActiveDate, today); {
			case gap == 0:
				// только время
			case gap == 1:
				newStreak++
			default:
				newStreak = 1
				streakStart = &today
			}
		} else {
			newStreak = 1
			streakStart = &today
		}

		longest := metrics.LongestStreak
		if newStreak > longest {
			longest = newStreak
		}

		// Недельное окно: через 7+ дней счётчик начинается заново
		weekStart := metrics.WeekStartDate
		weeklyTime := metrics.WeeklyStudyTime + studyTimeMinutes
		if weekStart == nil {
			weekStart = &today
		} else if daysBetween(*weekStart, today) >= 7 {
			weeklyTime = studyTimeMinutes
			weekStart = &today
		}

		err = tx.Model(&models.LearningMetrics{}).Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"total_study_time":  gorm.Expr("total_study_time + ?", studyTimeMinutes),
				"weekly_study_time": weeklyTime,
				"current_streak":    newStreak,
				"longest_streak":    longest,
				"last_active_date":  &today,
				"streak_start_date": streakStart,
				"week_start_date":   weekStart,
			}).Error
		if err != nil {
			return err
		}

		return txStore.upsertDailyActivity(userID, today, studyTimeMinutes, completed, metrics.DailyGoal)
	})
}

func (s *Store) upsertDailyActivity(userID uint, day time.Time, studyTimeMinutes int, lessonCompleted bool, dailyGoal int) error {
	existing, found, err := s.GetDailyActivity(userID, day)
	if err != nil {
		return err
	}

	if !found {
		activity := models.DailyActivity{
			UserID:          userID,
			Date:            day,
			StudyTime:       studyTimeMinutes,
			GoalMet:         studyTimeMinutes >= dailyGoal,
			CoursesAccessed: []byte("[]"),
		}
		if lessonCompleted {
			activity.LessonsCompleted = 1
		}
		return s.DB.Create(&activity).Error
	}

	updates := map[string]interface{}{
		"study_time": existing.StudyTime + studyTimeMinutes,
		"goal_met":   existing.StudyTime+studyTimeMinutes >= dailyGoal,
	}
	if lessonCompleted {
		updates["lessons_completed"] = existing.LessonsCompleted + 1
	}
	return s.DB.Model(&models.DailyActivity{}).Where("id = ?", existing.ID).
		Updates(updates).Error
}
