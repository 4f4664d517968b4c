package sab

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pintu/helpers"
	"pintu/ledger"
)

type resettleRequest struct {
	Key     string `json:"key" validate:"required"`
	Message struct {
		OperationID string `json:"operationId" validate:"required"`
		Txns        []struct {
			UserID     string  `json:"userId" validate:"required"`
			TxID       string  `json:"txId" validate:"required"`
			Payout     float64 `json:"payout"`
			UpdateTime string  `json:"updateTime" validate:"required"`
		} `json:"txns" validate:"required,min=1,dive"`
	} `json:"message"`
}

func (h *Handler) Resettle(c *fiber.Ctx) error {
	var req resettleRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	msg := req.Message
	txns := make([]ledger.ResettleTxn, 0, len(msg.Txns))
	for _, t := range msg.Txns {
		txns = append(txns, ledger.ResettleTxn{
			Username:   t.UserID,
			TxID:       t.TxID,
			Payout:     decimal.NewFromFloat(t.Payout),
			UpdateTime: parseTime(t.UpdateTime),
		})
	}

	out, err := h.Ledger.Resettle(c.Context(), ledger.ResettleInput{
		OperationID: msg.OperationID,
		Txns:        txns,
	})
	if err != nil {
		return respond(c, StatusInternalError, fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{})
}
