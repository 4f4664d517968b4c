package sab

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pintu/helpers"
	"pintu/ledger"
)

type placeBetRequest struct {
	Key     string `json:"key" validate:"required"`
	Message struct {
		OperationID  string  `json:"operationId" validate:"required"`
		RefID        string  `json:"refId" validate:"required"`
		UserID       string  `json:"userId" validate:"required"`
		BetTime      string  `json:"betTime" validate:"required"`
		ActualAmount float64 `json:"actualAmount" validate:"required"`
		BetType      int     `json:"betType" validate:"required"`
		IP           string  `json:"IP" validate:"required"`
	} `json:"message"`
}

func (h *Handler) PlaceBet(c *fiber.Ctx) error {
	var req placeBetRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	msg := req.Message
	out, err := h.Ledger.PlaceBet(c.Context(), ledger.PlaceBetInput{
		OperationID: msg.OperationID,
		Username:    msg.UserID,
		Legs: []ledger.PlaceBetLeg{{
			RefID:   msg.RefID,
			Amount:  decimal.NewFromFloat(msg.ActualAmount),
			BetTime: parseTime(msg.BetTime),
			IP:      msg.IP,
			Raw:     rawBody(c),
		}},
	})
	if err != nil {
		return respond(c, StatusInternalError, fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{
		"refId":        msg.RefID,
		"licenseeTxId": msg.RefID,
	})
}

type placeBetParlayRequest struct {
	Key     string `json:"key" validate:"required"`
	Message struct {
		OperationID string `json:"operationId" validate:"required"`
		UserID      string `json:"userId" validate:"required"`
		Txns        []struct {
			RefID        string  `json:"refId" validate:"required"`
			BetTime      string  `json:"betTime" validate:"required"`
			ActualAmount float64 `json:"actualAmount" validate:"required"`
			IP           string  `json:"IP"`
		} `json:"txns" validate:"required,min=1,dive"`
	} `json:"message"`
}

// PlaceBetParlay places every leg of a multi-bet under one operation id.
// One leg already on file rejects the whole request as a duplicate before
// any wallet call.
func (h *Handler) PlaceBetParlay(c *fiber.Ctx) error {
	var req placeBetParlayRequest
	if err := c.BodyParser(&req); err != nil {
		return missingParam(c, "body")
	}
	if field, ok := helpers.Validate(req); !ok {
		return missingParam(c, field)
	}

	msg := req.Message
	legs := make([]ledger.PlaceBetLeg, 0, len(msg.Txns))
	raw := rawBody(c)
	refIDs := make([]string, 0, len(msg.Txns))
	for _, t := range msg.Txns {
		legs = append(legs, ledger.PlaceBetLeg{
			RefID:   t.RefID,
			Amount:  decimal.NewFromFloat(t.ActualAmount),
			BetTime: parseTime(t.BetTime),
			IP:      t.IP,
			Raw:     raw,
		})
		refIDs = append(refIDs, t.RefID)
	}

	out, err := h.Ledger.PlaceBet(c.Context(), ledger.PlaceBetInput{
		OperationID: msg.OperationID,
		Username:    msg.UserID,
		Legs:        legs,
	})
	if err != nil {
		return respond(c, StatusInternalError, fiber.Map{})
	}

	return respondOutcome(c, out, fiber.Map{
		"refId": refIDs,
	})
}
