package store

import "korsify/backend/models"

// Лимиты бесплатного тарифа. Pro и enterprise не ограничены.
const (
	FreeCourseLimit  = 3  // опубликованных курсов на автора
	FreeStudentLimit = 10 // учеников на один курс
)

// LimitDecision — структурированный результат проверки лимита.
// Отказ (в том числе из-за отсутствия пользователя или курса) — это не
// ошибка: проверки только читают данные и возвращают причину, которую
// обработчик показывает пользователю перед блокировкой операции.
type LimitDecision struct {
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
	CoursesCreated   *int   `json:"coursesCreated,omitempty"`
	StudentsEnrolled *int   `json:"studentsEnrolled,omitempty"`
	Limit            *int   `json:"limit,omitempty"`
}

func deny(reason string) LimitDecision {
	return LimitDecision{Allowed: false, Reason: reason}
}

// CanCreateCourse проверяет, может ли автор опубликовать ещё один курс.
// Считаются только опубликованные курсы, черновики не учитываются.
func (s *Store) CanCreateCourse(userID uint) (LimitDecision, error) {
	user, found, err := s.GetUser(userID)
	if err != nil {
		return LimitDecision{}, err
	}
	if !found {
		return deny("User not found"), nil
	}

	if user.SubscriptionTier == "pro" || user.SubscriptionTier == "enterprise" {
		return LimitDecision{Allowed: true}, nil
	}

	published, err := s.countPublishedCourses(userID)
	if err != nil {
		return LimitDecision{}, err
	}

	limit := FreeCourseLimit
	if published >= FreeCourseLimit {
		return LimitDecision{
			Allowed:        false,
			Reason:         "Free tier users can only publish up to 3 courses. Upgrade to Pro for unlimited courses.",
			CoursesCreated: &published,
			Limit:          &limit,
		}, nil
	}
	return LimitDecision{Allowed: true, CoursesCreated: &published, Limit: &limit}, nil
}

// CanEnrollStudent проверяет лимит учеников на курсе. Решение зависит от
// тарифа автора курса, а не записывающегося ученика.
func (s *Store) CanEnrollStudent(courseID uint) (LimitDecision, error) {
	course, found, err := s.GetCourse(courseID)
	if err != nil {
		return LimitDecision{}, err
	}
	if !found {
		return deny("Course not found"), nil
	}

	creator, found, err := s.GetUser(course.CreatorID)
	if err != nil {
		return LimitDecision{}, err
	}
	if !found {
		return deny("Course creator not found"), nil
	}

	if creator.SubscriptionTier == "pro" || creator.SubscriptionTier == "enterprise" {
		return LimitDecision{Allowed: true}, nil
	}

	var count int64
	if err := s.DB.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return LimitDecision{}, err
	}

	students := int(count)
	limit := FreeStudentLimit
	if students >= FreeStudentLimit {
		return LimitDecision{
			Allowed:          false,
			Reason:           "Free tier courses are limited to 10 students. Course creator needs to upgrade to Pro for unlimited students.",
			StudentsEnrolled: &students,
			Limit:            &limit,
		}, nil
	}
	return LimitDecision{Allowed: true, StudentsEnrolled: &students, Limit: &limit}, nil
}

// SubscriptionInfo — сводка по тарифу для страницы подписки.
// Нулевые указатели лимитов сериализуются в null — «без ограничений».
type SubscriptionInfo struct {
	Tier                  string `json:"tier"`
	CoursesCreated        int    `json:"coursesCreated"`
	CourseLimit           *int   `json:"courseLimit"`
	TotalStudents         int    `json:"totalStudents"`
	StudentLimitPerCourse *int   `json:"studentLimitPerCourse"`
}

func (s *Store) GetUserSubscriptionInfo(userID uint) (SubscriptionInfo, bool, error) {
	user, found, err := s.GetUser(userID)
	if err != nil || !found {
		return SubscriptionInfo{}, found, err
	}

	tier := user.SubscriptionTier
	if tier == "" {
		tier = "free"
	}

	published, err := s.countPublishedCourses(userID)
	if err != nil {
		return SubscriptionInfo{}, false, err
	}

	var totalStudents int64
	err = s.DB.Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.creator_id = ?", userID).
		Count(&totalStudents).Error
	if err != nil {
		return SubscriptionInfo{}, false, err
	}

	info := SubscriptionInfo{
		Tier:           tier,
		CoursesCreated: published,
		TotalStudents:  int(totalStudents),
	}
	if tier == "free" {
		courseLimit := FreeCourseLimit
		studentLimit := FreeStudentLimit
		info.CourseLimit = &courseLimit
		info.StudentLimitPerCourse = &studentLimit
	}
	return info, true, nil
}

func (s *Store) countPublishedCourses(userID uint) (int, error) {
	var count int64
	err := s.DB.Model(&models.Course{}).
		Where("creator_id = ? AND status = ?", userID, "published").
		Count(&count).Error
	return int(count), err
}
