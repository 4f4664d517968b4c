package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lifecycle flags of a report row.
const (
	FlagWaiting   = "waiting"   // stake placed, belum dikonfirmasi provider
	FlagRunning   = "running"   // stake confirmed, bet is live
	FlagCancelled = "cancelled" // terminal
	FlagSettled   = "settled"   // payout recorded, reversible via unsettle/resettle
	FlagUnsettled = "unsettled" // settlement reversed, awaiting re-settlement
	FlagResettled = "resettled" // correction after settlement
	FlagBonus     = "bonus"     // standalone adjustment, outside the chain
)

// Ref id prefixes. Prefix + external transaction id is the idempotence key.
const (
	PrefixWager    = "wager"
	PrefixCancel   = "cancel"
	PrefixSettle   = "settle"
	PrefixResettle = "resettle"
	PrefixUnsettle = "unsettle"
	PrefixAdjust   = "adjust"
	PrefixBonus    = "bonus"
)

// Placeholder for descriptive fields that do not apply (casino/slot bets).
const FieldNone = "-"

// Report is one ledger entry: a durable record of one monetary event tied to
// one external transaction. Monetary columns are stored in wallet units,
// never in the provider's request unit.
type Report struct {
	gorm.Model

	RefID       string `gorm:"uniqueIndex;size:96"` // {prefix}-{externalTxId}, idempotency check
	OperationID string `gorm:"size:64;index"`
	RoundID     string `gorm:"size:64;index"` // original refId, groups wager/cancel/settle legs
	TxID        string `gorm:"size:64;index"` // provider transaction id, set at confirm

	PlayID   string `gorm:"size:32;index"`
	WebID    int
	Currency string `gorm:"size:8"`

	BetAmount    float64 `json:"bet_amount"`
	PayoutAmount float64 `json:"payout_amount"`

	EventTime time.Time

	Selection string `gorm:"size:255"`
	GameCode  string `gorm:"size:64"`
	HomeName  string `gorm:"size:128"`
	AwayName  string `gorm:"size:128"`
	Odds      string `gorm:"size:32"`
	OddsType  string `gorm:"size:16"`
	Result    string `gorm:"size:32"`

	Flag   string `gorm:"size:16;index"`
	Status int    `gorm:"index"`

	IPAddress *string        `gorm:"size:45"`
	Raw       datatypes.JSON `gorm:"type:jsonb"`
}

// RefKey builds the composite external identifier.
func RefKey(prefix, externalID string) string {
	return prefix + "-" + externalID
}

// NewReport returns a report with the descriptive fields set to the
// placeholder sentinel.
func NewReport() Report {
	return Report{
		Selection: FieldNone,
		GameCode:  FieldNone,
		HomeName:  FieldNone,
		AwayName:  FieldNone,
		Odds:      FieldNone,
		OddsType:  FieldNone,
		Result:    FieldNone,
	}
}
