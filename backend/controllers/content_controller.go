package controllers

import (
	"encoding/json"

	"korsify/backend/config"
	"korsify/backend/models"
	"korsify/backend/store"
	"korsify/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// ContentController управляет модулями, уроками и квизами курса
type ContentController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewContentController(s *store.Store, cfg *config.Config) *ContentController {
	return &ContentController{Store: s, Cfg: cfg}
}

// ownsCourse проверяет, что курс принадлежит текущему пользователю
func (cc *ContentController) ownsCourse(c *fiber.Ctx, courseID uint) bool {
	userID := c.Locals("userID").(uint)

	course, found, err := cc.Store.GetCourse(courseID)
	if err != nil {
		utils.InternalServerError(c, "Could not query database")
		return false
	}
	if !found {
		utils.NotFound(c, "Course not found")
		return false
	}
	if course.CreatorID != userID {
		utils.Forbidden(c, "You do not own this course")
		return false
	}
	return true
}

// ownsModule поднимается от модуля к курсу и проверяет владельца
func (cc *ContentController) ownsModule(c *fiber.Ctx, moduleID uint) (models.Module, bool) {
	var module models.Module
	if err := cc.Store.DB.First(&module, moduleID).Error; err != nil {
		utils.NotFound(c, "Module not found")
		return models.Module{}, false
	}
	if !cc.ownsCourse(c, module.CourseID) {
		return models.Module{}, false
	}
	return module, true
}

// Модули

// [+] CreateModule godoc
// @Summary Add a module to a course
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Router /courses/{id}/modules [post]
func (cc *ContentController) CreateModule(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	if !cc.ownsCourse(c, courseID) {
		return nil
	}

	type ModuleInput struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		OrderIndex  int    `json:"order_index"`
	}

	var input ModuleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	module := models.Module{
		CourseID:    courseID,
		Title:       input.Title,
		Description: input.Description,
		OrderIndex:  input.OrderIndex,
	}
	if err := cc.Store.CreateModule(&module); err != nil {
		return utils.InternalServerError(c, "Could not create module")
	}

	return utils.Created(c, module)
}

// [+] ListModules godoc
// @Summary List course modules in order
// @Tags content
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses/{id}/modules [get]
func (cc *ContentController) ListModules(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	courseModules, err := cc.Store.GetCourseModules(courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, courseModules)
}

func (cc *ContentController) UpdateModule(c *fiber.Ctx) error {
	moduleID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}
	if _, ok := cc.ownsModule(c, moduleID); !ok {
		return nil
	}

	type ModuleInput struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		OrderIndex  *int    `json:"order_index"`
	}

	var input ModuleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.OrderIndex != nil {
		updates["order_index"] = *input.OrderIndex
	}
	if len(updates) == 0 {
		return utils.BadRequest(c, "Nothing to update")
	}

	module, err := cc.Store.UpdateModule(moduleID, updates)
	if err != nil {
		return utils.InternalServerError(c, "Could not update module")
	}

	return utils.Success(c, fiber.StatusOK, module)
}

func (cc *ContentController) DeleteModule(c *fiber.Ctx) error {
	moduleID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}
	if _, ok := cc.ownsModule(c, moduleID); !ok {
		return nil
	}

	if err := cc.Store.DeleteModule(moduleID); err != nil {
		return utils.InternalServerError(c, "Could not delete module")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// Уроки

func (cc *ContentController) CreateLesson(c *fiber.Ctx) error {
	moduleID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}
	if _, ok := cc.ownsModule(c, moduleID); !ok {
		return nil
	}

	type LessonInput struct {
		Title             string `json:"title"`
		Content           string `json:"content"`
		OrderIndex        int    `json:"order_index"`
		EstimatedDuration int    `json:"estimated_duration"`
	}

	var input LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	lesson := models.Lesson{
		ModuleID:          moduleID,
		Title:             input.Title,
		Content:           input.Content,
		OrderIndex:        input.OrderIndex,
		EstimatedDuration: input.EstimatedDuration,
	}
	if err := cc.Store.CreateLesson(&lesson); err != nil {
		return utils.InternalServerError(c, "Could not create lesson")
	}

	return utils.Created(c, lesson)
}

func (cc *ContentController) GetLesson(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	lesson, found, err := cc.Store.GetLesson(lessonID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Lesson not found")
	}

	return utils.Success(c, fiber.StatusOK, lesson)
}

func (cc *ContentController) UpdateLesson(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	lesson, found, err := cc.Store.GetLesson(lessonID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Lesson not found")
	}
	if _, ok := cc.ownsModule(c, lesson.ModuleID); !ok {
		return nil
	}

	type LessonInput struct {
		Title             *string `json:"title"`
		Content           *string `json:"content"`
		OrderIndex        *int    `json:"order_index"`
		EstimatedDuration *int    `json:"estimated_duration"`
	}

	var input LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.OrderIndex != nil {
		updates["order_index"] = *input.OrderIndex
	}
	if input.EstimatedDuration != nil {
		updates["estimated_duration"] = *input.EstimatedDuration
	}
	if len(updates) == 0 {
		return utils.BadRequest(c, "Nothing to update")
	}

	lesson, err = cc.Store.UpdateLesson(lessonID, updates)
	if err != nil {
		return utils.InternalServerError(c, "Could not update lesson")
	}

	return utils.Success(c, fiber.StatusOK, lesson)
}

func (cc *ContentController) DeleteLesson(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	lesson, found, err := cc.Store.GetLesson(lessonID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Lesson not found")
	}
	if _, ok := cc.ownsModule(c, lesson.ModuleID); !ok {
		return nil
	}

	if err := cc.Store.DeleteLesson(lessonID); err != nil {
		return utils.InternalServerError(c, "Could not delete lesson")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// Квизы

func (cc *ContentController) CreateQuiz(c *fiber.Ctx) error {
	moduleID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}
	if _, ok := cc.ownsModule(c, moduleID); !ok {
		return nil
	}

	type QuizInput struct {
		Title     string                `json:"title"`
		LessonID  *uint                 `json:"lesson_id"`
		Questions []models.QuizQuestion `json:"questions"`
	}

	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if len(input.Questions) == 0 {
		return utils.BadRequest(c, "Quiz needs at least one question")
	}

	questions, err := json.Marshal(input.Questions)
	if err != nil {
		return utils.BadRequest(c, "Invalid questions payload")
	}

	quiz := models.Quiz{
		ModuleID:  moduleID,
		LessonID:  input.LessonID,
		Title:     input.Title,
		Questions: questions,
	}
	if err := cc.Store.CreateQuiz(&quiz); err != nil {
		return utils.InternalServerError(c, "Could not create quiz")
	}

	return utils.Created(c, quiz)
}

func (cc *ContentController) GetModuleQuizzes(c *fiber.Ctx) error {
	moduleID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	quizzes, err := cc.Store.GetModuleQuizzes(moduleID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, quizzes)
}

func (cc *ContentController) GetQuiz(c *fiber.Ctx) error {
	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	quiz, found, err := cc.Store.GetQuiz(quizID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Quiz not found")
	}

	return utils.Success(c, fiber.StatusOK, quiz)
}

// ownsQuiz поднимается от квиза через модуль к курсу
func (cc *ContentController) ownsQuiz(c *fiber.Ctx, quizID uint) (models.Quiz, bool) {
	quiz, found, err := cc.Store.GetQuiz(quizID)
	if err != nil {
		utils.InternalServerError(c, "Could not query database")
		return models.Quiz{}, false
	}
	if !found {
		utils.NotFound(c, "Quiz not found")
		return models.Quiz{}, false
	}
	if _, ok := cc.ownsModule(c, quiz.ModuleID); !ok {
		return models.Quiz{}, false
	}
	return quiz, true
}

func (cc *ContentController) UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}
	if _, ok := cc.ownsQuiz(c, quizID); !ok {
		return nil
	}

	type QuizInput struct {
		Title     *string               `json:"title"`
		Questions []models.QuizQuestion `json:"questions"`
	}

	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Questions != nil {
		questions, err := json.Marshal(input.Questions)
		if err != nil {
			return utils.BadRequest(c, "Invalid questions payload")
		}
		updates["questions"] = questions
	}
	if len(updates) == 0 {
		return utils.BadRequest(c, "Nothing to update")
	}

	quiz, err := cc.Store.UpdateQuiz(quizID, updates)
	if err != nil {
		return utils.InternalServerError(c, "Could not update quiz")
	}

	return utils.Success(c, fiber.StatusOK, quiz)
}

func (cc *ContentController) DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}
	if _, ok := cc.ownsQuiz(c, quizID); !ok {
		return nil
	}

	if err := cc.Store.DeleteQuiz(quizID); err != nil {
		return utils.InternalServerError(c, "Could not delete quiz")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
