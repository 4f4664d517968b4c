package sab

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pintu/currency"
	"pintu/helpers"
	"pintu/ledger"
)

// Handler serves the SAB sportsbook callback family. All state lives in the
// ledger service; the handlers only translate between the SAB wire format
// and ledger outcomes.
type Handler struct {
	Ledger *ledger.Service
}

func New(svc *ledger.Service) *Handler {
	return &Handler{Ledger: svc}
}

// SAB status vocabulary.
const (
	StatusSuccess          = 0
	StatusMissingParameter = 101
	StatusPlayerNotFound   = 203
	StatusInvalidStatus    = 309
	StatusNotFound         = 504
	StatusInsufficient     = 901
	StatusInternalError    = 999
)

var statusMessages = map[int]string{
	StatusSuccess:          "Success",
	StatusMissingParameter: "Missing Parameter",
	StatusPlayerNotFound:   "Player Not Found",
	StatusInvalidStatus:    "Invalid Transaction Status",
	StatusNotFound:         "Transaction Not Found",
	StatusInsufficient:     "Insufficient Balance",
	StatusInternalError:    "Internal Error",
}

func statusOf(k ledger.Kind) int {
	switch k {
	case ledger.OK, ledger.Duplicate:
		return StatusSuccess
	case ledger.PlayerNotFound:
		return StatusPlayerNotFound
	case ledger.TransactionNotFound:
		return StatusNotFound
	case ledger.InvalidStatus:
		return StatusInvalidStatus
	case ledger.InsufficientFunds:
		return StatusInsufficient
	default:
		return StatusInternalError
	}
}

// Business errors still return HTTP 200; only the status field tells the
// caller what happened.
func respond(c *fiber.Ctx, status int, extra fiber.Map) error {
	m := fiber.Map{"status": status, "msg": statusMessages[status]}
	for k, v := range extra {
		m[k] = v
	}
	return c.Status(fiber.StatusOK).JSON(m)
}

func missingParam(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": StatusMissingParameter,
		"msg":    "Missing Parameter: " + field,
	})
}

func respondOutcome(c *fiber.Ctx, out ledger.Outcome, extra fiber.Map) error {
	m := fiber.Map{}
	for k, v := range extra {
		m[k] = v
	}
	if out.Player != nil {
		m["balance"] = helpers.FormatFloat(currency.FromWallet(out.Balance, out.Player.Currency).InexactFloat64(), 2)
	}
	return respond(c, statusOf(out.Kind), m)
}

func parseTime(s string) time.Time {
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Now()
}

// rawBody copies the request body for the report snapshot; fiber reuses the
// underlying buffer after the handler returns.
func rawBody(c *fiber.Ctx) []byte {
	return append([]byte(nil), c.Body()...)
}
