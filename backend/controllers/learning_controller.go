package controllers

import (
	"encoding/json"
	"math"

	"korsify/backend/config"
	"korsify/backend/models"
	"korsify/backend/store"
	"korsify/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// LearningController обслуживает сторону ученика: записи на курсы,
// прогресс по урокам, квизы и учебные метрики.
type LearningController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewLearningController(s *store.Store, cfg *config.Config) *LearningController {
	return &LearningController{Store: s, Cfg: cfg}
}

// [+] Enroll godoc
// @Summary Enroll in a published course
// @Description Checks the course creator's student limit before enrolling
// @Tags learning
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /courses/{id}/enroll [post]
func (lc *LearningController) Enroll(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, found, err := lc.Store.GetCourse(courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found || course.Status != "published" {
		return utils.NotFound(c, "Course not found")
	}

	_, exists, err := lc.Store.GetEnrollment(userID, courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if exists {
		return utils.Error(c, fiber.StatusConflict, "Already enrolled in this course")
	}

	decision, err := lc.Store.CanEnrollStudent(courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not check enrollment limits")
	}
	if !decision.Allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Enrollment limit reached",
			"limit":   decision,
		})
	}

	enrollment := models.Enrollment{
		LearnerID: userID,
		CourseID:  courseID,
	}
	if err := lc.Store.CreateEnrollment(&enrollment); err != nil {
		return utils.InternalServerError(c, "Could not enroll")
	}

	return utils.Created(c, enrollment)
}

// [+] Unenroll godoc
// @Summary Leave a course
// @Tags learning
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses/{id}/enroll [delete]
func (lc *LearningController) Unenroll(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	_, found, err := lc.Store.GetEnrollment(userID, courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Enrollment not found")
	}

	if err := lc.Store.Unenroll(userID, courseID); err != nil {
		return utils.InternalServerError(c, "Could not unenroll")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// [+] MyLearning godoc
// @Summary List the learner's courses with derived progress
// @Tags learning
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /learning/courses [get]
func (lc *LearningController) MyLearning(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	enrollments, err := lc.Store.GetUserEnrollments(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, enrollments)
}

// [+] UpdateLessonProgress godoc
// @Summary Record progress on a lesson
// @Description Updates the lesson progress row, the learning metrics and
// the enrollment completion percentage in one call
// @Tags learning
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /lessons/{id}/progress [post]
func (lc *LearningController) UpdateLessonProgress(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	lessonID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	type ProgressInput struct {
		Completed        bool `json:"completed"`
		StudyTimeMinutes int  `json:"study_time_minutes"`
	}

	var input ProgressInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.StudyTimeMinutes < 0 {
		return utils.BadRequest(c, "Study time cannot be negative")
	}

	lesson, found, err := lc.Store.GetLesson(lessonID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Lesson not found")
	}

	var module models.Module
	if err := lc.Store.DB.First(&module, lesson.ModuleID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment, found, err := lc.Store.GetEnrollment(userID, module.CourseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.Forbidden(c, "Not enrolled in this course")
	}

	if err := lc.Store.UpdateProgress(enrollment.ID, lessonID, input.Completed, input.StudyTimeMinutes*60); err != nil {
		return utils.InternalServerError(c, "Could not update progress")
	}

	// Учебные метрики (стрик, дневная активность) обновляются отдельной
	// транзакцией: их сбой не откатывает сам прогресс по уроку
	if err := lc.Store.RecordLessonProgress(userID, input.StudyTimeMinutes, input.Completed); err != nil {
		return utils.InternalServerError(c, "Could not update learning metrics")
	}

	// Пересчитываем процент прохождения курса
	total, err := lc.Store.CountCourseLessons(module.CourseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var completedCount int64
	err = lc.Store.DB.Model(&models.Progress{}).
		Where("enrollment_id = ? AND completed = ?", enrollment.ID, true).
		Count(&completedCount).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(completedCount) / float64(total) * 100
	}

	if total > 0 && int(completedCount) >= total {
		if err := lc.Store.CompleteEnrollment(enrollment.ID); err != nil {
			return utils.InternalServerError(c, "Could not complete enrollment")
		}
	} else {
		if err := lc.Store.UpdateEnrollmentProgress(enrollment.ID, percentage); err != nil {
			return utils.InternalServerError(c, "Could not update enrollment")
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"completed":           input.Completed,
		"progress_percentage": percentage,
		"completed_lessons":   completedCount,
		"total_lessons":       total,
	})
}

// [+] SubmitQuizAttempt godoc
// @Summary Submit answers for a quiz
// @Description Grades the attempt against the stored questions
// @Tags learning
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /quizzes/{id}/attempts [post]
func (lc *LearningController) SubmitQuizAttempt(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	type AttemptInput struct {
		Answers []string `json:"answers"`
	}

	var input AttemptInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	quiz, found, err := lc.Store.GetQuiz(quizID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Quiz not found")
	}

	var questions []models.QuizQuestion
	if err := json.Unmarshal(quiz.Questions, &questions); err != nil {
		return utils.InternalServerError(c, "Quiz questions are malformed")
	}
	if len(input.Answers) != len(questions) {
		return utils.BadRequest(c, "Answer count does not match question count")
	}

	correct := 0
	for i, q := range questions {
		if input.Answers[i] == q.CorrectAnswer {
			correct++
		}
	}

	score := 0.0
	if len(questions) > 0 {
		score = math.Round(float64(correct) / float64(len(questions)) * 100)
	}

	answers, _ := json.Marshal(input.Answers)
	attempt := models.QuizAttempt{
		QuizID:    quizID,
		LearnerID: userID,
		Score:     score,
		Answers:   answers,
	}
	if err := lc.Store.CreateQuizAttempt(&attempt); err != nil {
		return utils.InternalServerError(c, "Could not save attempt")
	}

	return utils.Created(c, fiber.Map{
		"attempt": attempt,
		"correct": correct,
		"total":   len(questions),
	})
}

// [+] QuizAttempts godoc
// @Summary List the learner's attempts for a quiz
// @Tags learning
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /quizzes/{id}/attempts [get]
func (lc *LearningController) QuizAttempts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	attempts, err := lc.Store.GetUserQuizAttempts(userID, quizID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, attempts)
}

// [+] Metrics godoc
// @Summary Get the learner's study metrics
// @Tags learning
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /learning/metrics [get]
func (lc *LearningController) Metrics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	metrics, err := lc.Store.GetLearningMetrics(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, metrics)
}

// [+] TodayActivity godoc
// @Summary Get today's study activity
// @Tags learning
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /learning/activity/today [get]
func (lc *LearningController) TodayActivity(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	activity, found, err := lc.Store.GetDailyActivity(userID, lc.Store.Now())
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		// День без активности — нулевые значения, не 404
		return utils.Success(c, fiber.StatusOK, models.DailyActivity{
			UserID:          userID,
			CoursesAccessed: []byte("[]"),
		})
	}

	return utils.Success(c, fiber.StatusOK, activity)
}
