package controllers

import (
	"strconv"

	"korsify/backend/config"
	"korsify/backend/store"
	"korsify/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsController отдаёт сводки для дашбордов автора и ученика.
// Все значения считаются по базе на каждый запрос, кэша нет.
type AnalyticsController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewAnalyticsController(s *store.Store, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{Store: s, Cfg: cfg}
}

// [+] CreatorSummary godoc
// @Summary Creator dashboard summary
// @Tags analytics
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /analytics/creator [get]
func (ac *AnalyticsController) CreatorSummary(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	analytics, err := ac.Store.GetCreatorAnalytics(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute analytics")
	}

	return utils.Success(c, fiber.StatusOK, analytics)
}

// [+] DetailedCourses godoc
// @Summary Per-course analytics rows for the creator
// @Tags analytics
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /analytics/creator/courses [get]
func (ac *AnalyticsController) DetailedCourses(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	rows, err := ac.Store.GetDetailedCourseAnalytics(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute analytics")
	}

	return utils.Success(c, fiber.StatusOK, rows)
}

// [+] Demographics godoc
// @Summary Student demographics breakdown
// @Tags analytics
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /analytics/creator/demographics [get]
func (ac *AnalyticsController) Demographics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	demographics, err := ac.Store.GetStudentDemographics(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute analytics")
	}

	return utils.Success(c, fiber.StatusOK, demographics)
}

// [+] Engagement godoc
// @Summary Weekly engagement metrics
// @Tags analytics
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /analytics/creator/engagement [get]
func (ac *AnalyticsController) Engagement(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	engagement, err := ac.Store.GetEngagementMetrics(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute analytics")
	}

	return utils.Success(c, fiber.StatusOK, engagement)
}

// [+] Revenue godoc
// @Summary Monthly revenue series
// @Tags analytics
// @Produce json
// @Param months query int false "Number of months, default 6"
// @Success 200 {object} utils.SuccessResponse
// @Router /analytics/creator/revenue [get]
func (ac *AnalyticsController) Revenue(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	months := 6
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 24 {
			return utils.BadRequest(c, "months must be between 1 and 24")
		}
		months = parsed
	}

	revenue, err := ac.Store.GetRevenueAnalytics(userID, months)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute analytics")
	}

	return utils.Success(c, fiber.StatusOK, revenue)
}

// [+] RecentActivity godoc
// @Summary Recent student activity feed
// @Tags analytics
// @Produce json
// @Param limit query int false "Max items, default 10"
// @Success 200 {object} utils.SuccessResponse
// @Router /analytics/creator/activity [get]
func (ac *AnalyticsController) RecentActivity(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return utils.BadRequest(c, "limit must be between 1 and 100")
		}
		limit = parsed
	}

	activities, err := ac.Store.GetRecentStudentActivities(userID, limit)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute analytics")
	}

	return utils.Success(c, fiber.StatusOK, activities)
}

// [+] LearnerSummary godoc
// @Summary Learner dashboard summary
// @Tags analytics
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /analytics/learner [get]
func (ac *AnalyticsController) LearnerSummary(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	analytics, err := ac.Store.GetLearnerAnalytics(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute analytics")
	}

	return utils.Success(c, fiber.StatusOK, analytics)
}
