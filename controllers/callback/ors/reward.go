package ors

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pintu/helpers"
	"pintu/ledger"
)

type creditRequest struct {
	PlayerID      string  `json:"player_id" validate:"required"`
	TransactionID string  `json:"transaction_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Timestamp     string  `json:"timestamp" validate:"required"`
	Signature     string  `json:"signature" validate:"required"`
}

// Credit records a one-off promotional reward.
func (h *Handler) Credit(c *fiber.Ctx) error {
	var req creditRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	out, err := h.Ledger.Reward(c.Context(), ledger.RewardInput{
		Username:      req.PlayerID,
		TransactionID: req.TransactionID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Time:          parseTimestamp(req.Timestamp),
	})
	if err != nil {
		return respond(c, codeInternal, "internal error", fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{
		"transaction_id": req.TransactionID,
	})
}

// parseTimestamp accepts unix seconds or RFC3339; ORS sends unix seconds.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	return time.Now().UTC()
}
