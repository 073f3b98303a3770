package controllers

import (
	"strconv"

	"korsify/backend/config"
	"korsify/backend/models"
	"korsify/backend/store"
	"korsify/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewCoursesController(s *store.Store, cfg *config.Config) *CoursesController {
	return &CoursesController{Store: s, Cfg: cfg}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	return uint(id), err
}

// ownedCourse загружает курс и проверяет, что он принадлежит автору
func (cc *CoursesController) ownedCourse(c *fiber.Ctx, courseID uint) (models.Course, bool) {
	userID := c.Locals("userID").(uint)

	course, found, err := cc.Store.GetCourse(courseID)
	if err != nil {
		utils.InternalServerError(c, "Could not query database")
		return models.Course{}, false
	}
	if !found {
		utils.NotFound(c, "Course not found")
		return models.Course{}, false
	}
	if course.CreatorID != userID {
		utils.Forbidden(c, "You do not own this course")
		return models.Course{}, false
	}
	return course, true
}

// [+] Create godoc
// @Summary Create a draft course
// @Tags courses
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /courses [post]
func (cc *CoursesController) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type CourseInput struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		DifficultyLevel string `json:"difficulty_level"`
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	course := models.Course{
		CreatorID:       userID,
		Title:           input.Title,
		Description:     input.Description,
		DifficultyLevel: input.DifficultyLevel,
		Status:          "draft",
	}

	if err := cc.Store.CreateCourse(&course); err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.Created(c, course)
}

// [+] MyCourses godoc
// @Summary List courses created by the current user
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /courses/mine [get]
func (cc *CoursesController) MyCourses(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	courses, err := cc.Store.GetUserCourses(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, courses)
}

// [+] Catalog godoc
// @Summary Browse the published course catalog
// @Description Returns published courses, optionally filtered by ?q= search
// @Tags courses
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses [get]
func (cc *CoursesController) Catalog(c *fiber.Ctx) error {
	query := c.Query("q")

	var (
		courses []models.Course
		err     error
	)
	if query != "" {
		courses, err = cc.Store.SearchCourses(query)
	} else {
		courses, err = cc.Store.GetPublishedCourses()
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, courses)
}

// [+] Details godoc
// @Summary Get a course with its full module and lesson tree
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) Details(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	details, found, err := cc.Store.GetCourseWithDetails(courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Course not found")
	}

	// Черновики видны только автору
	if details.Status != "published" {
		userID, _ := c.Locals("userID").(uint)
		if details.CreatorID != userID {
			return utils.NotFound(c, "Course not found")
		}
	}

	return utils.Success(c, fiber.StatusOK, details)
}

// [+] Update godoc
// @Summary Update course fields
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /courses/{id} [put]
func (cc *CoursesController) Update(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	if _, ok := cc.ownedCourse(c, courseID); !ok {
		return nil
	}

	type CourseInput struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		DifficultyLevel *string `json:"difficulty_level"`
	}

	var input CourseInput
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
	if input.DifficultyLevel != nil {
		updates["difficulty_level"] = *input.DifficultyLevel
	}
	if len(updates) == 0 {
		return utils.BadRequest(c, "Nothing to update")
	}

	course, err := cc.Store.UpdateCourse(courseID, updates)
	if err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return utils.Success(c, fiber.StatusOK, course)
}

// [+] Publish godoc
// @Summary Publish a draft course
// @Description Checks the creator's subscription limits before publishing
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /courses/{id}/publish [post]
func (cc *CoursesController) Publish(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	course, ok := cc.ownedCourse(c, courseID)
	if !ok {
		return nil
	}

	if course.Status == "published" {
		return utils.Success(c, fiber.StatusOK, course)
	}

	decision, err := cc.Store.CanCreateCourse(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not check subscription limits")
	}
	if !decision.Allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Subscription limit reached",
			"limit":   decision,
		})
	}

	course, err = cc.Store.UpdateCourse(courseID, map[string]interface{}{"status": "published"})
	if err != nil {
		return utils.InternalServerError(c, "Could not publish course")
	}

	return utils.Success(c, fiber.StatusOK, course)
}

// [+] Unpublish godoc
// @Summary Return a published course to draft
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses/{id}/unpublish [post]
func (cc *CoursesController) Unpublish(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	if _, ok := cc.ownedCourse(c, courseID); !ok {
		return nil
	}

	course, err := cc.Store.UpdateCourse(courseID, map[string]interface{}{"status": "draft"})
	if err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return utils.Success(c, fiber.StatusOK, course)
}

// [+] Delete godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses/{id} [delete]
func (cc *CoursesController) Delete(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	if _, ok := cc.ownedCourse(c, courseID); !ok {
		return nil
	}

	if err := cc.Store.DeleteCourse(courseID); err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// [+] Statistics godoc
// @Summary Per-course statistics for the creator dashboard
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses/{id}/statistics [get]
func (cc *CoursesController) Statistics(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	if _, ok := cc.ownedCourse(c, courseID); !ok {
		return nil
	}

	stats, err := cc.Store.GetCourseStatistics(courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute statistics")
	}

	return utils.Success(c, fiber.StatusOK, stats)
}

// [+] Documents godoc
// @Summary List documents linked to a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses/{id}/documents [get]
func (cc *CoursesController) Documents(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	if _, ok := cc.ownedCourse(c, courseID); !ok {
		return nil
	}

	docs, err := cc.Store.GetCourseDocuments(courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, docs)
}

// [+] AttachDocuments godoc
// @Summary Link uploaded documents to a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Router /courses/{id}/documents [post]
func (cc *CoursesController) AttachDocuments(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	if _, ok := cc.ownedCourse(c, courseID); !ok {
		return nil
	}

	type AttachInput struct {
		DocumentIDs []uint `json:"document_ids"`
	}

	var input AttachInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if len(input.DocumentIDs) == 0 {
		return utils.BadRequest(c, "No documents provided")
	}

	links, err := cc.Store.AddDocumentsToCourse(courseID, input.DocumentIDs)
	if err != nil {
		return utils.InternalServerError(c, "Could not link documents")
	}

	return utils.Created(c, links)
}

// [+] DetachDocument godoc
// @Summary Unlink a document from a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Param documentId path int true "Document ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses/{id}/documents/{documentId} [delete]
func (cc *CoursesController) DetachDocument(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	if _, ok := cc.ownedCourse(c, courseID); !ok {
		return nil
	}

	documentID, err := paramID(c, "documentId")
	if err != nil {
		return utils.BadRequest(c, "Invalid document ID")
	}

	if err := cc.Store.RemoveDocumentFromCourse(courseID, documentID); err != nil {
		return utils.InternalServerError(c, "Could not unlink document")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
