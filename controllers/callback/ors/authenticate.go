package ors

import (
	"github.com/gofiber/fiber/v2"

	"pintu/helpers"
	"pintu/ledger"
)

type authenticateRequest struct {
	PlayerID  string `json:"player_id" validate:"required"`
	Token     string `json:"token" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// Authenticate checks a launch token against the player directory. The key
// and signature were already verified by the middleware.
func (h *Handler) Authenticate(c *fiber.Ctx) error {
	var req authenticateRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	p, found, err := h.Ledger.Player(c.Context(), req.PlayerID)
	if err != nil {
		return respond(c, codeInternal, "internal error", fiber.Map{})
	}
	if !found {
		rc := codes[ledger.PlayerNotFound]
		return respond(c, rc.Code, rc.Message, fiber.Map{})
	}
	if p.Token != req.Token {
		return respond(c, codeInvalidToken, "invalid token", fiber.Map{})
	}

	status := "activate"
	if !p.IsActive {
		status = "deactivate"
	}

	return respond(c, "S-100", "success", fiber.Map{
		"player_status": status,
		"token":         p.Token,
		"currency":      p.Currency,
	})
}
