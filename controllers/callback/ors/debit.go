package ors

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pintu/helpers"
	"pintu/ledger"
)

type debitRecord struct {
	TransactionID string  `json:"transaction_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	BetTime       string  `json:"bet_time" validate:"required"`
}

type bulkDebitRequest struct {
	OperationID string        `json:"operation_id" validate:"required"`
	PlayerID    string        `json:"player_id" validate:"required"`
	Type        string        `json:"type" validate:"required,oneof=debit rollback"`
	Records     []debitRecord `json:"records" validate:"required,min=1,dive"`
	Timestamp   string        `json:"timestamp" validate:"required"`
	Signature   string        `json:"signature" validate:"required"`
}

// BulkDebit handles both the wager and rollback batch shapes, selected by
// the type field.
func (h *Handler) BulkDebit(c *fiber.Ctx) error {
	var req bulkDebitRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	in := ledger.BulkDebitInput{
		Type:        req.Type,
		OperationID: req.OperationID,
		Username:    req.PlayerID,
	}
	for _, r := range req.Records {
		in.Records = append(in.Records, ledger.DebitRecord{
			ID:      r.TransactionID,
			Amount:  decimal.NewFromFloat(r.Amount),
			BetTime: parseTimestamp(r.BetTime),
		})
	}

	out, err := h.Ledger.BulkDebit(c.Context(), in)
	if err != nil {
		return respond(c, codeInternal, "internal error", fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{
		"operation_id": req.OperationID,
	})
}
