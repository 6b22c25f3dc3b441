package user

import (
	"regexp"
	"strings"
	"trio/database"
	"trio/helpers"
	"trio/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RegisterUserRequest struct {
	UserCode string `json:"user_code"`
}

var userCodePattern = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	userCode := strings.ToLower(strings.TrimSpace(req.UserCode))
	if !userCodePattern.MatchString(userCode) {
		return helpers.JSONError(c, "INVALID_USER_CODE")
	}

	var existing models.User
	if err := database.DB.Where("user_code = ?", userCode).First(&existing).Error; err == nil {
		return helpers.JSONError(c, "USER_ALREADY_EXISTS")
	}

	user := models.User{
		UserCode: userCode,
		Balance:  decimal.Zero,
		IsActive: true,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_REGISTER_USER")
	}

	return helpers.JSONSuccess(c, "User registered successfully", fiber.Map{
		"user_code": user.UserCode,
		"balance":   user.Balance,
	})
}
