package sab

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pintu/helpers"
	"pintu/ledger"
)

type confirmBetRequest struct {
	Key     string `json:"key" validate:"required"`
	Message struct {
		OperationID string `json:"operationId" validate:"required"`
		UserID      string `json:"userId" validate:"required"`
		Txns        []struct {
			RefID        string  `json:"refId" validate:"required"`
			TxID         string  `json:"txId" validate:"required"`
			ActualAmount float64 `json:"actualAmount" validate:"required"`
		} `json:"txns" validate:"required,min=1,dive"`
	} `json:"message"`
}

func (h *Handler) ConfirmBet(c *fiber.Ctx) error {
	var req confirmBetRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	msg := req.Message
	txns := make([]ledger.ConfirmTxn, 0, len(msg.Txns))
	for _, t := range msg.Txns {
		txns = append(txns, ledger.ConfirmTxn{
			RefID:        t.RefID,
			TxID:         t.TxID,
			ActualAmount: decimal.NewFromFloat(t.ActualAmount),
		})
	}

	out, err := h.Ledger.ConfirmBet(c.Context(), ledger.ConfirmInput{
		OperationID: msg.OperationID,
		Username:    msg.UserID,
		Txns:        txns,
	})
	if err != nil {
		return respond(c, StatusInternalError, fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{})
}
