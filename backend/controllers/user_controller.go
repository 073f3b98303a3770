package controllers

import (
	"korsify/backend/config"
	"korsify/backend/store"
	"korsify/backend/utils"

	"golang.org/x/crypto/bcrypt"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewUserController(s *store.Store, cfg *config.Config) *UserController {
	return &UserController{Store: s, Cfg: cfg}
}

// [+] GetProfile godoc
// @Summary Get current user profile
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /users/me [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, found, err := uc.Store.GetUser(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.StatusOK, userPayload(&user))
}

// [+] UpdateProfile godoc
// @Summary Update current user profile
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /users/me [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type ProfileInput struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
	}

	var input ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if len(updates) == 0 {
		return utils.BadRequest(c, "Nothing to update")
	}

	user, err := uc.Store.UpdateUser(userID, updates)
	if err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Success(c, fiber.StatusOK, userPayload(&user))
}

// [+] SelectRole godoc
// @Summary Switch between creator and learner roles
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /users/me/role [put]
func (uc *UserController) SelectRole(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type RoleInput struct {
		Role string `json:"role"`
	}

	var input RoleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Role != "creator" && input.Role != "learner" {
		return utils.BadRequest(c, "Role must be creator or learner")
	}

	if err := uc.Store.UpdateUserRole(userID, input.Role); err != nil {
		return utils.InternalServerError(c, "Could not update role")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"current_role": input.Role})
}

// [+] ChangePassword godoc
// @Summary Change account password
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /users/me/password [put]
func (uc *UserController) ChangePassword(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type PasswordInput struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var input PasswordInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if len(input.NewPassword) < 8 {
		return utils.BadRequest(c, "Password must be at least 8 characters")
	}

	user, found, err := uc.Store.GetUser(userID)
	if err != nil || !found {
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return utils.Unauthorized(c, "Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	if err := uc.Store.UpdateUserPassword(userID, string(hashed)); err != nil {
		return utils.InternalServerError(c, "Could not update password")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"updated": true})
}

// [+] GetSubscription godoc
// @Summary Get subscription tier and usage against free limits
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /users/me/subscription [get]
func (uc *UserController) GetSubscription(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	info, found, err := uc.Store.GetUserSubscriptionInfo(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.StatusOK, info)
}
