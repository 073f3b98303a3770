package controllers

import (
	"encoding/json"

	"korsify/backend/config"
	"korsify/backend/models"
	"korsify/backend/store"
	"korsify/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// TemplatesController управляет каталогом шаблонов курсов.
type TemplatesController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewTemplatesController(s *store.Store, cfg *config.Config) *TemplatesController {
	return &TemplatesController{Store: s, Cfg: cfg}
}

// [+] List godoc
// @Summary List active course templates
// @Description Optionally filtered by category, ordered by name
// @Tags templates
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} utils.SuccessResponse
// @Router /templates [get]
func (tc *TemplatesController) List(c *fiber.Ctx) error {
	category := c.Query("category")

	var (
		templates []models.CourseTemplate
		err       error
	)
	if category != "" {
		templates, err = tc.Store.GetCourseTemplatesByCategory(category)
	} else {
		templates, err = tc.Store.GetCourseTemplates()
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, templates)
}

// [+] Get godoc
// @Summary Get a course template
// @Tags templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /templates/{id} [get]
func (tc *TemplatesController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid template ID")
	}

	template, found, err := tc.Store.GetCourseTemplate(id)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Template not found")
	}

	return utils.Success(c, fiber.StatusOK, template)
}

type templateInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"is_active"`
}

// [+] Create godoc
// @Summary Create a course template
// @Tags templates
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /templates [post]
func (tc *TemplatesController) Create(c *fiber.Ctx) error {
	var input templateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" {
		return utils.BadRequest(c, "Template name is required")
	}

	tags, _ := json.Marshal(input.Tags)
	template := models.CourseTemplate{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Tags:        tags,
		IsActive:    true,
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if err := tc.Store.CreateCourseTemplate(&template); err != nil {
		return utils.InternalServerError(c, "Could not create template")
	}

	return utils.Created(c, template)
}

// [+] Update godoc
// @Summary Update a course template
// @Tags templates
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /templates/{id} [put]
func (tc *TemplatesController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid template ID")
	}

	_, found, err := tc.Store.GetCourseTemplate(id)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Template not found")
	}

	var input templateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.Category != "" {
		updates["category"] = input.Category
	}
	if input.Tags != nil {
		tags, _ := json.Marshal(input.Tags)
		updates["tags"] = tags
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := tc.Store.UpdateCourseTemplate(id, updates); err != nil {
			return utils.InternalServerError(c, "Could not update template")
		}
	}

	template, _, err := tc.Store.GetCourseTemplate(id)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, template)
}

// [+] Delete godoc
// @Summary Delete a course template
// @Tags templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /templates/{id} [delete]
func (tc *TemplatesController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid template ID")
	}

	_, found, err := tc.Store.GetCourseTemplate(id)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "Template not found")
	}

	if err := tc.Store.DeleteCourseTemplate(id); err != nil {
		return utils.InternalServerError(c, "Could not delete template")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
