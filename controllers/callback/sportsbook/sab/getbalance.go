package sab

import (
	"github.com/gofiber/fiber/v2"

	"pintu/helpers"
)

type getBalanceRequest struct {
	Key     string `json:"key" validate:"required"`
	Message struct {
		OperationID string `json:"operationId" validate:"required"`
		UserID      string `json:"userId" validate:"required"`
	} `json:"message"`
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	var req getBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	out, err := h.Ledger.Balance(c.Context(), req.Message.UserID)
	if err != nil {
		return respond(c, StatusInternalError, fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{
		"userId": req.Message.UserID,
	})
}
