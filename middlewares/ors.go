package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/gofiber/fiber/v2"

	"pintu/database"
	"pintu/models"
)

// OrsAuth validates the ORS operator key from the X-Oper-Key header and the
// request signature before anything else touches the database. Invalid key
// answers with a bare envelope; a bad signature gets the business E-102
// code. The signature covers operatorCode|timestamp|playerId with
// HMAC-SHA256 over the operator secret.
func OrsAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		op, ok := orsOperator(c.Get("X-Oper-Key"))
		if !ok {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"message": "Invalid key",
			})
		}

		playerID, timestamp, signature := orsSignatureFields(c)
		if signature != OrsSignature(op.SecretKey, op.Code, timestamp, playerID) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"rs_code":    "E-102",
				"rs_message": "invalid signature",
			})
		}

		c.Locals("operator", op.Code)
		return c.Next()
	}
}

// OrsSignature computes the expected request signature.
func OrsSignature(secret, operatorCode, timestamp, playerID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(operatorCode + "|" + timestamp + "|" + playerID))
	return hex.EncodeToString(h.Sum(nil))
}

func orsSignatureFields(c *fiber.Ctx) (playerID, timestamp, signature string) {
	if c.Method() == fiber.MethodGet {
		return c.Query("player_id"), c.Query("timestamp"), c.Query("signature")
	}

	var body struct {
		PlayerID  string `json:"player_id"`
		Timestamp string `json:"timestamp"`
		Signature string `json:"signature"`
	}
	_ = c.BodyParser(&body)
	return body.PlayerID, body.Timestamp, body.Signature
}

func orsOperator(key string) (models.Operator, bool) {
	if key == "" {
		return models.Operator{}, false
	}

	if envKey := os.Getenv("ORS_OPERATOR_KEY"); envKey != "" && key == envKey {
		return models.Operator{
			Code:      os.Getenv("ORS_OPERATOR_CODE"),
			SecretKey: os.Getenv("ORS_OPERATOR_SECRET"),
		}, true
	}

	var op models.Operator
	err := database.DB.
		Where("provider = ? AND api_key = ? AND is_active = ?", "ors", key, true).
		First(&op).Error
	if err != nil {
		return models.Operator{}, false
	}
	return op, true
}
