package controllers

import (
	"korsify/backend/config"
	"korsify/backend/services"
	"korsify/backend/store"
	"korsify/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// GenerationController запускает генерацию курса из документа
type GenerationController struct {
	Store     *store.Store
	Cfg       *config.Config
	Generator *services.Generator
}

func NewGenerationController(s *store.Store, cfg *config.Config, gen *services.Generator) *GenerationController {
	return &GenerationController{Store: s, Cfg: cfg, Generator: gen}
}

// [+] Generate godoc
// @Summary Generate course content from an uploaded document
// @Description Runs the AI pipeline synchronously and returns the job record
// @Tags generation
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /courses/{id}/generate [post]
func (gc *GenerationController) Generate(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, found, err := gc.Store.GetCourse(courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if course.CreatorID != userID {
		return utils.Forbidden(c, "You do not own this course")
	}
	if course.Status == "processing" {
		return utils.Error(c, fiber.StatusConflict, "Generation already in progress")
	}

	type GenerateInput struct {
		DocumentID uint                       `json:"document_id"`
		Options    services.GenerationOptions `json:"options"`
	}

	var input GenerateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.DocumentID == 0 {
		return utils.BadRequest(c, "document_id is required")
	}

	doc, found, err := gc.Store.GetDocument(input.DocumentID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found || doc.UploadedBy != userID {
		return utils.NotFound(c, "Document not found")
	}
	if doc.ProcessedContent == "" {
		return utils.BadRequest(c, "Document has no extracted content yet")
	}

	job, err := gc.Generator.GenerateCourse(courseID, input.DocumentID, input.Options)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Course generation failed",
			"job":     job,
		})
	}

	return utils.Success(c, fiber.StatusOK, job)
}

// [+] JobStatus godoc
// @Summary Get the status of a generation job
// @Tags generation
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /generation/jobs/{id} [get]
func (gc *GenerationController) JobStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	jobID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid job ID")
	}

	job, found, err := gc.Store.GetGenerationJob(jobID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Job not found")
	}

	// Джоб виден только автору курса
	course, found, err := gc.Store.GetCourse(job.CourseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found || course.CreatorID != userID {
		return utils.NotFound(c, "Job not found")
	}

	return utils.Success(c, fiber.StatusOK, job)
}

// [+] ProcessDocument godoc
// @Summary Store extracted text for a document
// @Description Marks the document ready for generation
// @Tags documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /documents/{id}/content [put]
func (gc *GenerationController) ProcessDocument(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	docID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid document ID")
	}

	doc, found, err := gc.Store.GetDocument(docID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found || doc.UploadedBy != userID {
		return utils.NotFound(c, "Document not found")
	}

	type ContentInput struct {
		Content string `json:"content"`
	}

	var input ContentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Content == "" {
		return utils.BadRequest(c, "Content is required")
	}

	err = gc.Store.UpdateDocument(docID, map[string]interface{}{
		"processed_content": input.Content,
		"status":            "processed",
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not update document")
	}

	doc, _, err = gc.Store.GetDocument(docID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, doc)
}
