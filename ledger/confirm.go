package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pintu/currency"
	"pintu/models"
	"pintu/wallet"
)

type ConfirmTxn struct {
	RefID        string
	TxID         string
	ActualAmount decimal.Decimal // provider units
}

type ConfirmInput struct {
	OperationID string
	Username    string
	Txns        []ConfirmTxn
}

// ConfirmBet promotes waiting rows to running. The composite identifier is
// rewritten from the provisional refId key to {operationId}-{txId}; a row
// already carrying the promoted key means the confirm was applied before and
// the leg replays as success.
func (s *Service) ConfirmBet(ctx context.Context, in ConfirmInput) (Outcome, error) {
	p, found, err := s.Player(ctx, in.Username)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return outcome(PlayerNotFound, nil, decimal.Zero), nil
	}

	// Pre-flight eligibility scan over the whole batch, no side effects yet.
	skip := make([]bool, len(in.Txns))
	for i, t := range in.Txns {
		promoted := in.OperationID + "-" + t.TxID
		dup, err := refExists(s.db.WithContext(ctx), promoted)
		if err != nil {
			return Outcome{}, err
		}
		if dup {
			skip[i] = true
			continue
		}

		var row models.Report
		err = s.db.WithContext(ctx).
			Where("round_id = ? AND flag = ?", t.RefID, models.FlagWaiting).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return outcome(TransactionNotFound, p, s.displayBalance(ctx, p)), nil
		}
		if err != nil {
			return Outcome{}, err
		}
	}

	credit := decimal.Zero
	settledAny := false
	for i, t := range in.Txns {
		if skip[i] {
			continue
		}

		var row models.Report
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := forUpdate(tx).
				Where("round_id = ? AND flag = ?", t.RefID, models.FlagWaiting).
				First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Promoted meanwhile; nothing to do for this leg.
				return nil
			}
			if err != nil {
				return err
			}

			promoted := in.OperationID + "-" + t.TxID
			newStake := currency.ToWallet(t.ActualAmount, p.Currency)
			diff := newStake.Sub(decimal.NewFromFloat(row.BetAmount))

			// The provider may adjust the stake at confirmation; the delta
			// has to reach the wallet before the row changes.
			if diff.IsPositive() {
				res, werr := s.wallet.Wager(ctx, creds(p), p.PlayID, p.Currency, promoted, diff, wallet.Report{})
				if werr != nil || !res.OK() {
					return errWalletFailed
				}
				credit = res.Credit
				settledAny = true
			} else if diff.IsNegative() {
				res, werr := s.wallet.Cancel(ctx, creds(p), promoted, diff.Abs(), row.RefID)
				if werr != nil || !res.OK() {
					return errWalletFailed
				}
				credit = res.Credit
				settledAny = true
			}

			res := tx.Model(&row).
				Where("id = ? AND flag = ?", row.ID, models.FlagWaiting).
				Updates(map[string]any{
					"ref_id":       promoted,
					"tx_id":        t.TxID,
					"operation_id": in.OperationID,
					"flag":         models.FlagRunning,
					"bet_amount":   newStake.InexactFloat64(),
				})
			if res.Error != nil {
				return res.Error
			}
			return nil
		})
		if errors.Is(err, errWalletFailed) {
			return outcome(WalletFailed, p, credit), nil
		}
		if err != nil {
			return Outcome{}, err
		}
	}

	if !settledAny {
		credit = s.displayBalance(ctx, p)
	}
	return outcome(OK, p, credit), nil
}

var errWalletFailed = errors.New("wallet rejected the operation")
