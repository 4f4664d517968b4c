package ors

import (
	"github.com/gofiber/fiber/v2"

	"pintu/helpers"
)

type balanceRequest struct {
	PlayerID  string `json:"player_id" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// Balance answers the player's wallet credit in provider units. ORS calls
// this both as a POST with a JSON body and as a GET with query params.
func (h *Handler) Balance(c *fiber.Ctx) error {
	var req balanceRequest
	if c.Method() == fiber.MethodGet {
		req.PlayerID = c.Query("player_id")
		req.Timestamp = c.Query("timestamp")
		req.Signature = c.Query("signature")
	} else if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	out, err := h.Ledger.Balance(c.Context(), req.PlayerID)
	if err != nil {
		return respond(c, codeInternal, "internal error", fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{
		"player_id": req.PlayerID,
	})
}
