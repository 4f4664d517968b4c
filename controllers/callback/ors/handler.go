package ors

import (
	"github.com/gofiber/fiber/v2"

	"pintu/currency"
	"pintu/helpers"
	"pintu/ledger"
)

// Handler serves the ORS operator callbacks. ORS speaks a string status
// vocabulary (rs_code) instead of SAB's numeric one.
type Handler struct {
	Ledger *ledger.Service
}

func New(svc *ledger.Service) *Handler {
	return &Handler{Ledger: svc}
}

type rsCode struct {
	Code    string
	Message string
}

var codes = map[ledger.Kind]rsCode{
	ledger.OK:                  {"S-100", "success"},
	ledger.Duplicate:           {"S-100", "success"},
	ledger.InsufficientFunds:   {"S-103", "insufficient balance"},
	ledger.PlayerNotFound:      {"E-104", "player not found"},
	ledger.TransactionNotFound: {"E-105", "transaction not found"},
	ledger.InvalidStatus:       {"E-106", "invalid transaction status"},
	ledger.ResultSourceFailed:  {"E-107", "third party api error"},
	ledger.WalletFailed:        {"E-500", "wallet error"},
}

const (
	codeMissingParameter = "E-101"
	codeInvalidToken     = "E-108"
	codeInternal         = "E-500"
)

func respond(c *fiber.Ctx, code, message string, extra fiber.Map) error {
	m := fiber.Map{"rs_code": code, "rs_message": message}
	for k, v := range extra {
		m[k] = v
	}
	return c.Status(fiber.StatusOK).JSON(m)
}

func respondOutcome(c *fiber.Ctx, out ledger.Outcome, extra fiber.Map) error {
	rc, ok := codes[out.Kind]
	if !ok {
		rc = rsCode{codeInternal, "internal error"}
	}
	m := fiber.Map{}
	for k, v := range extra {
		m[k] = v
	}
	if out.Player != nil {
		m["balance"] = helpers.FormatFloat(currency.FromWallet(out.Balance, out.Player.Currency).InexactFloat64(), 2)
		m["currency"] = out.Player.Currency
	}
	return respond(c, rc.Code, rc.Message, m)
}

func missingParam(c *fiber.Ctx, field string) error {
	return respond(c, codeMissingParameter, "missing parameter: "+field, fiber.Map{})
}
