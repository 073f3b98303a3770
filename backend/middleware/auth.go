package middleware

import (
	"korsify/backend/config"
	"korsify/backend/store"
	"korsify/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		// Сохраняем ID пользователя для обработчиков ниже по цепочке
		c.Locals("userID", userID)
		return c.Next()
	}
}

// RoleMiddleware пропускает только пользователей с указанной текущей ролью
func RoleMiddleware(cfg *config.Config, s *store.Store, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		user, found, err := s.GetUser(userID)
		if err != nil || !found {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if user.CurrentRole != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden - " + role + " access required",
			})
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}
