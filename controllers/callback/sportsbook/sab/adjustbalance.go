package sab

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pintu/helpers"
	"pintu/ledger"
)

type adjustBalanceRequest struct {
	Key     string `json:"key" validate:"required"`
	Message struct {
		OperationID  string  `json:"operationId" validate:"required"`
		UserID       string  `json:"userId" validate:"required"`
		TxID         string  `json:"txId" validate:"required"`
		RefNo        string  `json:"refNo" validate:"required"`
		Time         string  `json:"time" validate:"required"`
		BetType      string  `json:"betType"`
		CreditAmount float64 `json:"creditAmount"`
		DebitAmount  float64 `json:"debitAmount"`
	} `json:"message"`
}

// AdjustBalance applies a standalone credit or debit outside the bet chain.
// Exactly one of creditAmount/debitAmount must be positive.
func (h *Handler) AdjustBalance(c *fiber.Ctx) error {
	var req adjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	msg := req.Message
	if (msg.CreditAmount > 0) == (msg.DebitAmount > 0) {
		return missingParam(c, "creditAmount/debitAmount")
	}

	out, err := h.Ledger.AdjustBalance(c.Context(), ledger.AdjustInput{
		OperationID: msg.OperationID,
		Username:    msg.UserID,
		TxID:        msg.TxID,
		RefNo:       msg.RefNo,
		Time:        parseTime(msg.Time),
		BetType:     msg.BetType,
		Credit:      decimal.NewFromFloat(msg.CreditAmount),
		Debit:       decimal.NewFromFloat(msg.DebitAmount),
	})
	if err != nil {
		return respond(c, StatusInternalError, fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{
		"txId": msg.TxID,
	})
}
