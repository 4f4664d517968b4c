package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pintu/currency"
	"pintu/models"
	"pintu/wallet"
)

// PlaceBetLeg is one stake inside a place-bet request. Single bets carry one
// leg; parlays carry one per selection, each with its own idempotence key.
type PlaceBetLeg struct {
	RefID   string
	Amount  decimal.Decimal // provider units
	BetTime time.Time
	IP      string
	Raw     []byte
}

type PlaceBetInput struct {
	OperationID string
	Username    string
	Legs        []PlaceBetLeg
}

// PlaceBet records the wager legs of one operation. A duplicate on any leg
// short-circuits the whole request before any wallet call; once wallet calls
// begin, every committed leg gets its row even if a later leg fails, because
// the wallet has already moved that leg's balance.
func (s *Service) PlaceBet(ctx context.Context, in PlaceBetInput) (Outcome, error) {
	p, found, err := s.Player(ctx, in.Username)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return outcome(PlayerNotFound, nil, decimal.Zero), nil
	}

	// Duplicate detection selalu sebelum panggilan wallet.
	for _, leg := range in.Legs {
		dup, err := refExists(s.db.WithContext(ctx), models.RefKey(models.PrefixWager, leg.RefID))
		if err != nil {
			return Outcome{}, err
		}
		if dup {
			return outcome(Duplicate, p, s.displayBalance(ctx, p)), nil
		}
	}

	var credit decimal.Decimal
	for _, leg := range in.Legs {
		refID := models.RefKey(models.PrefixWager, leg.RefID)
		stake := currency.ToWallet(leg.Amount, p.Currency)

		res, err := s.wallet.Wager(ctx, creds(p), p.PlayID, p.Currency, refID, stake, wallet.Report{
			BetTime: leg.BetTime.Format(time.RFC3339),
		})
		if err != nil || !res.OK() {
			return outcome(WalletFailed, p, credit), nil
		}
		credit = res.Credit

		row := models.NewReport()
		row.RefID = refID
		row.OperationID = in.OperationID
		row.RoundID = leg.RefID
		row.PlayID = p.PlayID
		row.WebID = p.WebID
		row.Currency = p.Currency
		row.BetAmount = stake.InexactFloat64()
		row.Flag = models.FlagWaiting
		row.EventTime = leg.BetTime
		if leg.IP != "" {
			ip := leg.IP
			row.IPAddress = &ip
		}
		row.Raw = leg.Raw

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&row).Error
		})
		if isDuplicateKey(err) {
			// Lost a race against a retry; the wallet already holds this
			// leg's stake under the same transaction id, so the existing row
			// covers it.
			continue
		}
		if err != nil {
			return Outcome{}, err
		}
	}

	return outcome(OK, p, credit), nil
}
