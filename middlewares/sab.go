package middlewares

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"pintu/database"
	"pintu/models"
)

// SabAuth validates the SAB shared key carried in the request body. SAB is a
// key-only operator; there is no signature. An unknown key answers with the
// bare auth envelope, not the business status envelope.
func SabAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Key string `json:"key"`
		}

		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"error": fiber.Map{"id": 422, "msg": "INVALID_JSON"},
			})
		}

		if !operatorKeyValid("sab", body.Key, os.Getenv("SAB_OPERATOR_KEY")) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"error": fiber.Map{"id": 4, "msg": "Invalid key"},
			})
		}

		return c.Next()
	}
}

func operatorKeyValid(provider, key, envKey string) bool {
	if key == "" {
		return false
	}
	if envKey != "" && key == envKey {
		return true
	}

	var n int64
	database.DB.Model(&models.Operator{}).
		Where("provider = ? AND api_key = ? AND is_active = ?", provider, key, true).
		Count(&n)
	return n > 0
}
