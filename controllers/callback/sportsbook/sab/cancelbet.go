package sab

import (
	"github.com/gofiber/fiber/v2"

	"pintu/helpers"
	"pintu/ledger"
)

type cancelBetRequest struct {
	Key     string `json:"key" validate:"required"`
	Message struct {
		OperationID string `json:"operationId" validate:"required"`
		UserID      string `json:"userId" validate:"required"`
		Txns        []struct {
			RefID string `json:"refId" validate:"required"`
		} `json:"txns" validate:"required,min=1,dive"`
	} `json:"message"`
}

// CancelBet reverses the named legs as one batch: one bad leg rejects every
// leg before any wallet call.
func (h *Handler) CancelBet(c *fiber.Ctx) error {
	var req cancelBetRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	msg := req.Message
	refIDs := make([]string, 0, len(msg.Txns))
	for _, t := range msg.Txns {
		refIDs = append(refIDs, t.RefID)
	}

	out, err := h.Ledger.CancelBet(c.Context(), ledger.CancelInput{
		OperationID: msg.OperationID,
		Username:    msg.UserID,
		RefIDs:      refIDs,
	})
	if err != nil {
		return respond(c, StatusInternalError, fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{})
}
