package store

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"korsify/backend/models"
)

// CourseUnitPrice — условная цена курса для расчёта выручки,
// пока нет реального биллинга.
const CourseUnitPrice = 10

// Аналитика пересчитывается при каждом вызове из актуальных строк,
// материализованных представлений нет. Любая ошибка запроса прерывает
// весь расчёт: частичная сводка не возвращается.

type CourseStatistics struct {
	TotalModules      int     `json:"totalModules"`
	TotalLessons      int     `json:"totalLessons"`
	EstimatedDuration int     `json:"estimatedDuration"` // minutes
	EnrollmentCount   int     `json:"enrollmentCount"`
	CompletionRate    float64 `json:"completionRate"`
	AverageProgress   float64 `json:"averageProgress"`
}

// GetCourseStatistics собирает базовую статистику курса. Длительность
// оценивается по количеству слов из расчёта 125 слов в минуту.
func (s *Store) GetCourseStatistics(courseID uint) (CourseStatistics, error) {
	courseModules, err := s.GetCourseModules(courseID)
	if err != nil {
		return CourseStatistics{}, err
	}

	stats := CourseStatistics{TotalModules: len(courseModules)}
	for _, m := range courseModules {
		lessons, err := s.GetModuleLessons(m.ID)
		if err != nil {
			return CourseStatistics{}, err
		}
		stats.TotalLessons += len(lessons)
		for _, lesson := range lessons {
			words := len(strings.Fields(lesson.Content))
			stats.EstimatedDuration += int(math.Ceil(float64(words) / 125))
		}
	}

	enrollments, err := s.GetCourseEnrollments(courseID)
	if err != nil {
		return CourseStatistics{}, err
	}
	stats.EnrollmentCount = len(enrollments)

	completed := 0
	totalProgress := 0.0
	for _, e := range enrollments {
		if e.CompletedAt != nil {
			completed++
		}
		totalProgress += e.Progress
	}
	if stats.EnrollmentCount > 0 {
		stats.CompletionRate = float64(completed) / float64(stats.EnrollmentCount) * 100
		stats.AverageProgress = totalProgress / float64(stats.EnrollmentCount)
	}
	return stats, nil
}

type DailyStat struct {
	Date        string `json:"date"`
	Enrollments int    `json:"enrollments"`
	Completions int    `json:"completions"`
}

type CreatorAnalytics struct {
	TotalCourses   int         `json:"totalCourses"`
	TotalLearners  int         `json:"totalLearners"`
	TotalLessons   int         `json:"totalLessons"`
	AverageRating  float64     `json:"averageRating"`
	CompletionRate float64     `json:"completionRate"`
	EngagementRate float64     `json:"engagementRate"`
	RecentActivity []DailyStat `json:"recentActivity"`
}

func (s *Store) GetCreatorAnalytics(creatorID uint) (CreatorAnalytics, error) {
	creatorCourses, err := s.GetUserCourses(creatorID)
	if err != nil {
		return CreatorAnalytics{}, err
	}

	analytics := CreatorAnalytics{TotalCourses: len(creatorCourses)}
	totalRating := 0.0
	totalCompletions := 0
	totalEnrollments := 0

	for _, course := range creatorCourses {
		stats, err := s.GetCourseStatistics(course.ID)
		if err != nil {
			return CreatorAnalytics{}, err
		}
		analytics.TotalLessons += stats.TotalLessons
		analytics.TotalLearners += stats.EnrollmentCount
		totalRating += course.Rating
		totalEnrollments += stats.EnrollmentCount
		totalCompletions += int(math.Floor(stats.CompletionRate / 100 * float64(stats.EnrollmentCount)))
	}

	if len(creatorCourses) > 0 {
		analytics.AverageRating = totalRating / float64(len(creatorCourses))
	}
	if totalEnrollments > 0 {
		analytics.CompletionRate = float64(totalCompletions) / float64(totalEnrollments) * 100
	}
	if analytics.TotalLearners > 0 {
		analytics.EngagementRate = math.Min(float64(totalCompletions)/float64(analytics.TotalLearners)*100, 100)
	}

	// Последние 7 дней, от старых к новым
	today := startOfDay(s.Now())
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		next := day.AddDate(0, 0, 1)

		var enrolled int64
		err := s.DB.Model(&models.Enrollment{}).
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("courses.creator_id = ? AND enrollments.enrolled_at >= ? AND enrollments.enrolled_at < ?",
				creatorID, day, next).
			Count(&enrolled).Error
		if err != nil {
			return CreatorAnalytics{}, err
		}

		var completions int64
		err = s.DB.Model(&models.Enrollment{}).
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("courses.creator_id = ? AND enrollments.completed_at >= ? AND enrollments.completed_at < ?",
				creatorID, day, next).
			Count(&completions).Error
		if err != nil {
			return CreatorAnalytics{}, err
		}

		analytics.RecentActivity = append(analytics.RecentActivity, DailyStat{
			Date:        day.Format("2006-01-02"),
			Enrollments: int(enrolled),
			Completions: int(completions),
		})
	}
	return analytics, nil
}

type CourseAnalyticsRow struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Students       int       `json:"students"`
	Rating         float64   `json:"rating"`
	Revenue        int       `json:"revenue"`
	CompletionRate float64   `json:"completionRate"`
	AvgProgress    float64   `json:"avgProgress"`
	TotalLessons   int       `json:"totalLessons"`
	TotalQuizzes   int       `json:"totalQuizzes"`
	AvgQuizScore   float64   `json:"avgQuizScore"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *Store) GetDetailedCourseAnalytics(creatorID uint) ([]CourseAnalyticsRow, error) {
	creatorCourses, err := s.GetUserCourses(creatorID)
	if err != nil {
		return nil, err
	}

	rows := make([]CourseAnalyticsRow, 0, len(creatorCourses))
	for _, course := range creatorCourses {
		stats, err := s.GetCourseStatistics(course.ID)
		if err != nil {
			return nil, err
		}

		var quizzes []models.Quiz
		err = s.DB.
			Joins("JOIN modules ON modules.id = quizzes.module_id").
			Where("modules.course_id = ?", course.ID).
			Find(&quizzes).Error
		if err != nil {
			return nil, err
		}

		totalScore := 0.0
		attemptCount := 0
		for _, quiz := range quizzes {
			var attempts []models.QuizAttempt
			if err := s.DB.Where("quiz_id = ?", quiz.ID).Find(&attempts).Error; err != nil {
				return nil, err
			}
			for _, a := range attempts {
				totalScore += a.Score
				attemptCount++
			}
		}
		avgScore := 0.0
		if attemptCount > 0 {
			avgScore = totalScore / float64(attemptCount)
		}

		rows = append(rows, CourseAnalyticsRow{
			ID:             course.ID,
			Title:          course.Title,
			Students:       stats.EnrollmentCount,
			Rating:         course.Rating,
			Revenue:        stats.EnrollmentCount * CourseUnitPrice,
			CompletionRate: stats.CompletionRate,
			AvgProgress:    stats.AverageProgress,
			TotalLessons:   stats.TotalLessons,
			TotalQuizzes:   len(quizzes),
			AvgQuizScore:   avgScore,
			Status:         course.Status,
			CreatedAt:      course.CreatedAt,
		})
	}
	return rows, nil
}

type DemographicSlice struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
	Color    string `json:"color"`
}

type GeographicSlice struct {
	Country    string `json:"country"`
	Students   int    `json:"students"`
	Percentage int    `json:"percentage"`
}

type LearningPathStat struct {
	Path       string `json:"path"`
	Completed  int    `json:"completed"`
	InProgress int    `json:"inProgress"`
	NotStarted int    `json:"notStarted"`
}

type StudentDemographics struct {
	AgeGroups            []DemographicSlice `json:"ageGroups"`
	Geographic           []GeographicSlice  `json:"geographic"`
	LearningPaths        []LearningPathStat `json:"learningPaths"`
	TotalStudents        int                `json:"totalStudents"`
	RetentionRate        int                `json:"retentionRate"`
	AvgLifetimeValue     int                `json:"avgLifetimeValue"`
	AvgCoursesPerStudent string             `json:"avgCoursesPerStudent"`
}

// GetStudentDemographics строит демографию аудитории автора.
// Реальных данных о возрасте и стране у нас нет: распределения
// синтезируются из общего числа учеников по фиксированным долям.
// Разбивка learning paths считается из реальных записей по сложности
// курса, но делится на completed/inProgress/notStarted фиксированными
// коэффициентами.
func (s *Store) GetStudentDemographics(creatorID uint) (StudentDemographics, error) {
	creatorCourses, err := s.GetUserCourses(creatorID)
	if err != nil {
		return StudentDemographics{}, err
	}

	learners := map[uint]struct{}{}
	for _, course := range creatorCourses {
		enrollments, err := s.GetCourseEnrollments(course.ID)
		if err != nil {
			return StudentDemographics{}, err
		}
		for _, e := range enrollments {
			learners[e.LearnerID] = struct{}{}
		}
	}
	total := len(learners)

	share := func(ratio float64) int { return int(math.Round(float64(total) * ratio)) }

	demographics := StudentDemographics{
		TotalStudents: total,
		AgeGroups: []DemographicSlice{
			{Category: "18-24", Value: share(0.28), Color: "#818CF8"},
			{Category: "25-34", Value: share(0.42), Color: "#6366F1"},
			{Category: "35-44", Value: share(0.20), Color: "#4F46E5"},
			{Category: "45+", Value: share(0.10), Color: "#4338CA"},
		},
		Geographic: []GeographicSlice{
			{Country: "United States", Students: share(0.35), Percentage: 35},
			{Country: "India", Students: share(0.22), Percentage: 22},
			{Country: "United Kingdom", Students: share(0.15), Percentage: 15},
			{Country: "Canada", Students: share(0.10), Percentage: 10},
			{Country: "Australia", Students: share(0.08), Percentage: 8},
			{Country: "Others", Students: share(0.10), Percentage: 10},
		},
		RetentionRate:    87,
		AvgLifetimeValue: 284,
	}

	if len(creatorCourses) > 0 {
		demographics.AvgCoursesPerStudent = fmt.Sprintf("%.1f", float64(total)/float64(len(creatorCourses)))
	} else {
		demographics.AvgCoursesPerStudent = "0"
	}

	pathSplits := []struct {
		path       string
		difficulty string
		completed  float64
		inProgress float64
		notStarted float64
	}{
		{"Beginner", "beginner", 0.6, 0.3, 0.1},
		{"Intermediate", "intermediate", 0.5, 0.35, 0.15},
		{"Advanced", "advanced", 0.4, 0.4, 0.2},
	}
	for _, split := range pathSplits {
		var count int64
		err := s.DB.Model(&models.Enrollment{}).
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("courses.creator_id = ? AND courses.difficulty_level = ?", creatorID, split.difficulty).
			Count(&count).Error
		if err != nil {
			return StudentDemographics{}, err
		}
		demographics.LearningPaths = append(demographics.LearningPaths, LearningPathStat{
			Path:       split.path,
			Completed:  int(math.Floor(float64(count) * split.completed)),
			InProgress: int(math.Floor(float64(count) * split.inProgress)),
			NotStarted: int(math.Floor(float64(count) * split.notStarted)),
		})
	}
	return demographics, nil
}

type WeekdayEngagement struct {
	Day       string `json:"day"`
	Active    int    `json:"active"`
	Completed int    `json:"completed"`
	Enrolled  int    `json:"enrolled"`
}

type PeakTime struct {
	Time       string `json:"time"`
	Percentage int    `json:"percentage"`
	Label      string `json:"label"`
}

type EngagementMetrics struct {
	WeeklyData []WeekdayEngagement `json:"weeklyData"`
	Metrics    struct {
		AvgSessionDuration int `json:"avgSessionDuration"` // minutes
		QuizParticipation  int `json:"quizParticipation"`  // percent
		ActiveLearners     int `json:"activeLearners"`
	} `json:"metrics"`
	PeakTimes []PeakTime `json:"peakTimes"`
}

func (s *Store) GetEngagementMetrics(creatorID uint) (EngagementMetrics, error) {
	var result EngagementMetrics
	today := startOfDay(s.Now())

	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		next := day.AddDate(0, 0, 1)

		var dayProgress []models.Progress
		err := s.DB.Model(&models.Progress{}).
			Joins("JOIN enrollments ON enrollments.id = progresses.enrollment_id").
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("courses.creator_id = ? AND progresses.completed_at >= ? AND progresses.completed_at < ?",
				creatorID, day, next).
			Find(&dayProgress).Error
		if err != nil {
			return EngagementMetrics{}, err
		}

		activeLearners, err := s.distinctLearnersForDay(creatorID, day, next)
		if err != nil {
			return EngagementMetrics{}, err
		}

		completedLessons := 0
		for _, p := range dayProgress {
			if p.Completed {
				completedLessons++
			}
		}

		var newEnrollments int64
		err = s.DB.Model(&models.Enrollment{}).
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("courses.creator_id = ? AND enrollments.enrolled_at >= ? AND enrollments.enrolled_at < ?",
				creatorID, day, next).
			Count(&newEnrollments).Error
		if err != nil {
			return EngagementMetrics{}, err
		}

		result.WeeklyData = append(result.WeeklyData, WeekdayEngagement{
			Day:       day.Weekday().String()[:3],
			Active:    activeLearners,
			Completed: completedLessons,
			Enrolled:  int(newEnrollments),
		})
	}

	// Средняя длительность сессии: всё накопленное время / число строк
	type progressRow struct {
		TimeSpent   int
		CompletedAt *time.Time
	}
	var allProgress []progressRow
	err := s.DB.Model(&models.Progress{}).
		Select("progresses.time_spent, progresses.completed_at").
		Joins("JOIN enrollments ON enrollments.id = progresses.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.creator_id = ?", creatorID).
		Scan(&allProgress).Error
	if err != nil {
		return EngagementMetrics{}, err
	}

	totalTime := 0
	for _, p := range allProgress {
		totalTime += p.TimeSpent
	}
	if len(allProgress) > 0 {
		result.Metrics.AvgSessionDuration = int(math.Round(float64(totalTime) / float64(len(allProgress)) / 60))
	}

	var totalEnrollments int64
	err = s.DB.Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.creator_id = ?", creatorID).
		Count(&totalEnrollments).Error
	if err != nil {
		return EngagementMetrics{}, err
	}

	var quizTakers int64
	err = s.DB.Model(&models.QuizAttempt{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Joins("JOIN modules ON modules.id = quizzes.module_id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("courses.creator_id = ?", creatorID).
		Distinct("quiz_attempts.learner_id").
		Count(&quizTakers).Error
	if err != nil {
		return EngagementMetrics{}, err
	}
	if totalEnrollments > 0 {
		result.Metrics.QuizParticipation = int(math.Round(float64(quizTakers) / float64(totalEnrollments) * 100))
	}

	lastWeek := s.Now().AddDate(0, 0, -7)
	var activeLearners int64
	err = s.DB.Model(&models.Progress{}).
		Joins("JOIN enrollments ON enrollments.id = progresses.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.creator_id = ? AND progresses.completed_at >= ?", creatorID, lastWeek).
		Distinct("enrollments.learner_id").
		Count(&activeLearners).Error
	if err != nil {
		return EngagementMetrics{}, err
	}
	result.Metrics.ActiveLearners = int(activeLearners)

	// Пики активности по четырём фиксированным окнам, нормированные
	// к самому загруженному часу
	var activityByHour [24]int
	for _, p := range allProgress {
		if p.CompletedAt != nil {
			activityByHour[p.CompletedAt.Hour()]++
		}
	}
	maxActivity := 0
	for _, n := range activityByHour {
		if n > maxActivity {
			maxActivity = n
		}
	}
	window := func(from, to int) int {
		if maxActivity == 0 {
			return 0
		}
		sum := 0
		for h := from; h < to; h++ {
			sum += activityByHour[h]
		}
		return int(math.Round(float64(sum) / float64(maxActivity) * 100))
	}
	result.PeakTimes = []PeakTime{
		{Time: "9:00 AM - 12:00 PM", Percentage: window(9, 12), Label: "Morning Peak"},
		{Time: "2:00 PM - 5:00 PM", Percentage: window(14, 17), Label: "Afternoon"},
		{Time: "7:00 PM - 10:00 PM", Percentage: window(19, 22), Label: "Evening Peak"},
		{Time: "10:00 PM - 12:00 AM", Percentage: window(22, 24), Label: "Late Night"},
	}
	return result, nil
}

func (s *Store) distinctLearnersForDay(creatorID uint, day, next time.Time) (int, error) {
	var count int64
	err := s.DB.Model(&models.Progress{}).
		Joins("JOIN enrollments ON enrollments.id = progresses.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.creator_id = ? AND progresses.completed_at >= ? AND progresses.completed_at < ?",
			creatorID, day, next).
		Distinct("enrollments.learner_id").
		Count(&count).Error
	return int(count), err
}

type MonthlyRevenue struct {
	Month    string `json:"month"`
	Revenue  int    `json:"revenue"`
	Students int    `json:"students"`
}

// GetRevenueAnalytics считает выручку по календарным месяцам:
// записи за месяц умножаются на условную цену курса.
func (s *Store) GetRevenueAnalytics(creatorID uint, months int) ([]MonthlyRevenue, error) {
	if months <= 0 {
		months = 12
	}
	now := s.Now()

	data := make([]MonthlyRevenue, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var count int64
		err := s.DB.Model(&models.Enrollment{}).
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("courses.creator_id = ? AND enrollments.enrolled_at >= ? AND enrollments.enrolled_at < ?",
				creatorID, monthStart, monthEnd).
			Count(&count).Error
		if err != nil {
			return nil, err
		}

		data = append(data, MonthlyRevenue{
			Month:    monthStart.Format("Jan"),
			Revenue:  int(count) * CourseUnitPrice,
			Students: int(count),
		})
	}
	return data, nil
}

type StudentActivity struct {
	ID        string    `json:"id"`
	Student   string    `json:"student"`
	Avatar    string    `json:"avatar,omitempty"`
	Action    string    `json:"action"` // enrolled, completed, scored
	Course    string    `json:"course"`
	Module    string    `json:"module,omitempty"`
	Score     *float64  `json:"score,omitempty"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
}

// GetRecentStudentActivities сливает три вида событий (запись на курс,
// завершение урока, результат квиза) в одну ленту, сортирует по убыванию
// времени и обрезает до limit.
func (s *Store) GetRecentStudentActivities(creatorID uint, limit int) ([]StudentActivity, error) {
	if limit <= 0 {
		limit = 10
	}
	now := s.Now()
	activities := []StudentActivity{}

	type enrollmentRow struct {
		FirstName       string
		LastName        string
		Email           string
		ProfileImageURL string
		CourseTitle     string
		EnrolledAt      time.Time
	}
	var enrollmentRows []enrollmentRow
	err := s.DB.Model(&models.Enrollment{}).
		Select("users.first_name, users.last_name, users.email, users.profile_image_url, courses.title AS course_title, enrollments.enrolled_at").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Joins("JOIN users ON users.id = enrollments.learner_id").
		Where("courses.creator_id = ?", creatorID).
		Order("enrollments.enrolled_at desc").
		Limit(limit).
		Scan(&enrollmentRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range enrollmentRows {
		activities = append(activities, StudentActivity{
			ID:        fmt.Sprintf("enroll-%d", r.EnrolledAt.UnixNano()),
			Student:   displayName(r.FirstName, r.LastName, r.Email),
			Avatar:    r.ProfileImageURL,
			Action:    "enrolled",
			Course:    r.CourseTitle,
			Time:      timeAgo(now, r.EnrolledAt),
			Timestamp: r.EnrolledAt,
		})
	}

	type completionRow struct {
		FirstName       string
		LastName        string
		Email           string
		ProfileImageURL string
		CourseTitle     string
		ModuleTitle     string
		CompletedAt     *time.Time
	}
	var completionRows []completionRow
	err = s.DB.Model(&models.Progress{}).
		Select("users.first_name, users.last_name, users.email, users.profile_image_url, courses.title AS course_title, modules.title AS module_title, progresses.completed_at").
		Joins("JOIN enrollments ON enrollments.id = progresses.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Joins("JOIN users ON users.id = enrollments.learner_id").
		Joins("JOIN lessons ON lessons.id = progresses.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("courses.creator_id = ? AND progresses.completed = ?", creatorID, true).
		Order("progresses.completed_at desc").
		Limit(limit).
		Scan(&completionRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range completionRows {
		if r.CompletedAt == nil {
			continue
		}
		activities = append(activities, StudentActivity{
			ID:        fmt.Sprintf("complete-%d", r.CompletedAt.UnixNano()),
			Student:   displayName(r.FirstName, r.LastName, r.Email),
			Avatar:    r.ProfileImageURL,
			Action:    "completed",
			Course:    r.CourseTitle,
			Module:    r.ModuleTitle,
			Time:      timeAgo(now, *r.CompletedAt),
			Timestamp: *r.CompletedAt,
		})
	}

	type quizRow struct {
		FirstName       string
		LastName        string
		Email           string
		ProfileImageURL string
		CourseTitle     string
		QuizTitle       string
		Score           float64
		CompletedAt     time.Time
	}
	var quizRows []quizRow
	err = s.DB.Model(&models.QuizAttempt{}).
		Select("users.first_name, users.last_name, users.email, users.profile_image_url, courses.title AS course_title, quizzes.title AS quiz_title, quiz_attempts.score, quiz_attempts.completed_at").
		Joins("JOIN users ON users.id = quiz_attempts.learner_id").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Joins("JOIN modules ON modules.id = quizzes.module_id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("courses.creator_id = ?", creatorID).
		Order("quiz_attempts.completed_at desc").
		Limit(limit).
		Scan(&quizRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range quizRows {
		score := r.Score
		activities = append(activities, StudentActivity{
			ID:        fmt.Sprintf("quiz-%d", r.CompletedAt.UnixNano()),
			Student:   displayName(r.FirstName, r.LastName, r.Email),
			Avatar:    r.ProfileImageURL,
			Action:    "scored",
			Course:    r.CourseTitle,
			Module:    r.QuizTitle,
			Score:     &score,
			Time:      timeAgo(now, r.CompletedAt),
			Timestamp: r.CompletedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

type LearnerAnalytics struct {
	TotalEnrolledCourses int                `json:"totalEnrolledCourses"`
	CompletedCourses     int                `json:"completedCourses"`
	TotalLearningTime    int                `json:"totalLearningTime"` // minutes
	AverageProgress      float64            `json:"averageProgress"`
	StreakDays           int                `json:"streakDays"`
	Achievements         int                `json:"achievements"`
	RecentActivity       []LearnerDailyStat `json:"recentActivity"`
}

type LearnerDailyStat struct {
	Date             string `json:"date"`
	MinutesLearned   int    `json:"minutesLearned"`
	LessonsCompleted int    `json:"lessonsCompleted"`
}

func (s *Store) GetLearnerAnalytics(learnerID uint) (LearnerAnalytics, error) {
	enrollments, err := s.GetUserEnrollments(learnerID)
	if err != nil {
		return LearnerAnalytics{}, err
	}

	analytics := LearnerAnalytics{TotalEnrolledCourses: len(enrollments)}
	totalProgress := 0.0
	totalSeconds := 0
	for _, lp := range enrollments {
		if lp.Enrollment.CompletedAt != nil {
			analytics.CompletedCourses++
		}
		totalProgress += lp.ProgressPercentage

		records, err := s.GetEnrollmentProgress(lp.Enrollment.ID)
		if err != nil {
			return LearnerAnalytics{}, err
		}
		for _, r := range records {
			totalSeconds += r.TimeSpent
		}
	}
	analytics.TotalLearningTime = int(math.Round(float64(totalSeconds) / 60))
	if len(enrollments) > 0 {
		analytics.AverageProgress = totalProgress / float64(len(enrollments))
	}

	// Стрик: сканируем последние 30 дней, разрыв после сегодняшнего
	// дня прерывает подсчёт
	type completionDay struct{ CompletedAt *time.Time }
	var completions []completionDay
	err = s.DB.Model(&models.Progress{}).
		Select("progresses.completed_at").
		Joins("JOIN enrollments ON enrollments.id = progresses.enrollment_id").
		Where("enrollments.learner_id = ? AND progresses.completed_at IS NOT NULL", learnerID).
		Scan(&completions).Error
	if err != nil {
		return LearnerAnalytics{}, err
	}

	activeDays := map[string]bool{}
	for _, c := range completions {
		if c.CompletedAt != nil {
			activeDays[startOfDay(*c.CompletedAt).Format("2006-01-02")] = true
		}
	}
	today := startOfDay(s.Now())
	for i := 0; i < 30; i++ {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		if activeDays[day] {
			analytics.StreakDays++
		} else if i > 0 {
			break
		}
	}

	// Достижения по простым порогам
	milestones := []bool{
		analytics.CompletedCourses >= 1,
		analytics.CompletedCourses >= 5,
		analytics.CompletedCourses >= 10,
		analytics.StreakDays >= 7,
		analytics.StreakDays >= 30,
		analytics.TotalLearningTime >= 600,
	}
	for _, reached := range milestones {
		if reached {
			analytics.Achievements++
		}
	}

	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		next := day.AddDate(0, 0, 1)

		type dayRow struct {
			TimeSpent int
			Completed bool
		}
		var dayRows []dayRow
		err := s.DB.Model(&models.Progress{}).
			Select("progresses.time_spent, progresses.completed").
			Joins("JOIN enrollments ON enrollments.id = progresses.enrollment_id").
			Where("enrollments.learner_id = ? AND progresses.completed_at >= ? AND progresses.completed_at < ?",
				learnerID, day, next).
			Scan(&dayRows).Error
		if err != nil {
			return LearnerAnalytics{}, err
		}

		stat := LearnerDailyStat{Date: day.Format("2006-01-02")}
		seconds := 0
		for _, r := range dayRows {
			seconds += r.TimeSpent
			if r.Completed {
				stat.LessonsCompleted++
			}
		}
		stat.MinutesLearned = int(math.Round(float64(seconds) / 60))
		analytics.RecentActivity = append(analytics.RecentActivity, stat)
	}
	return analytics, nil
}

func displayName(firstName, lastName, email string) string {
	name := strings.TrimSpace(firstName + " " + lastName)
	if name == "" {
		return email
	}
	return name
}

// timeAgo форматирует относительное время события для ленты активности
func timeAgo(now, t time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%d minutes ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	case seconds < 604800:
		return fmt.Sprintf("%d days ago", seconds/86400)
	default:
		return t.Format("1/2/2006")
	}
}
