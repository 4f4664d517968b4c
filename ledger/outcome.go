package ledger

import (
	"github.com/shopspring/decimal"

	"pintu/models"
)

// Kind classifies the result of a ledger operation. Every kind maps onto a
// provider-specific wire code in the controllers; none of them carries a
// transport-level meaning.
type Kind int

const (
	OK Kind = iota
	// Duplicate means the idempotence key already exists. The effect of the
	// original request already happened, so callers answer success-shaped.
	Duplicate
	PlayerNotFound
	TransactionNotFound
	InvalidStatus
	InsufficientFunds
	WalletFailed
	ResultSourceFailed
)

// Outcome is what every ledger operation hands back to its controller.
// Balance is in wallet units; controllers convert to provider units.
type Outcome struct {
	Kind    Kind
	Balance decimal.Decimal
	Player  *models.Player
}

func outcome(k Kind, p *models.Player, balance decimal.Decimal) Outcome {
	return Outcome{Kind: k, Balance: balance, Player: p}
}
