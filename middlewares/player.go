package middlewares

import (
	"trio/database"
	"trio/helpers"
	"trio/models"

	"github.com/gofiber/fiber/v2"
)

// PlayerAuth resolves the acting player from the X-User-Code header and
// stashes it in locals for the handlers.
func PlayerAuth(c *fiber.Ctx) error {
	userCode := c.Get("X-User-Code")
	if userCode == "" {
		return helpers.JSONError(c, "USER_CODE_REQUIRED")
	}

	var user models.User
	if err := database.DB.Where("user_code = ? AND is_active = true", userCode).First(&user).Error; err != nil {
		return helpers.JSONError(c, "INVALID_USER_CREDENTIALS")
	}

	c.Locals("user", user)
	return c.Next()
}
