package sab

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pintu/helpers"
	"pintu/ledger"
)

type settleRequest struct {
	Key     string `json:"key" validate:"required"`
	Message struct {
		OperationID string `json:"operationId" validate:"required"`
		Txns        []struct {
			UserID string  `json:"userId" validate:"required"`
			TxID   string  `json:"txId" validate:"required"`
			Payout float64 `json:"payout"`
		} `json:"txns" validate:"required,min=1,dive"`
	} `json:"message"`
}

func (h *Handler) Settle(c *fiber.Ctx) error {
	var req settleRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	msg := req.Message
	txns := make([]ledger.SettleTxn, 0, len(msg.Txns))
	for _, t := range msg.Txns {
		txns = append(txns, ledger.SettleTxn{
			Username: t.UserID,
			TxID:     t.TxID,
			Payout:   decimal.NewFromFloat(t.Payout),
		})
	}

	out, err := h.Ledger.Settle(c.Context(), ledger.SettleInput{
		OperationID: msg.OperationID,
		Txns:        txns,
	})
	if err != nil {
		return respond(c, StatusInternalError, fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{})
}
