package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pintu/models"
)

type CancelInput struct {
	OperationID string
	Username    string
	RefIDs      []string
}

// CancelBet reverses waiting or running legs. The whole batch is vetted
// before any wallet call: one missing or ineligible leg rejects everything.
// A leg whose cancel key already exists replays as success without touching
// the wallet again.
func (s *Service) CancelBet(ctx context.Context, in CancelInput) (Outcome, error) {
	p, found, err := s.Player(ctx, in.Username)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return outcome(PlayerNotFound, nil, decimal.Zero), nil
	}

	skip := make([]bool, len(in.RefIDs))
	for i, refID := range in.RefIDs {
		done, err := refExists(s.db.WithContext(ctx), models.RefKey(models.PrefixCancel, refID))
		if err != nil {
			return Outcome{}, err
		}
		if done {
			skip[i] = true
			continue
		}

		var row models.Report
		err = s.db.WithContext(ctx).Where("round_id = ?", refID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return outcome(TransactionNotFound, p, s.displayBalance(ctx, p)), nil
		}
		if err != nil {
			return Outcome{}, err
		}
		if row.Flag != models.FlagWaiting && row.Flag != models.FlagRunning {
			return outcome(InvalidStatus, p, s.displayBalance(ctx, p)), nil
		}
	}

	credit := decimal.Zero
	cancelledAny := false
	for i, refID := range in.RefIDs {
		if skip[i] {
			continue
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row models.Report
			err := forUpdate(tx).
				Where("round_id = ? AND flag IN (?)", refID, []string{models.FlagWaiting, models.FlagRunning}).
				First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Cancelled meanwhile; the reversal already happened.
				return nil
			}
			if err != nil {
				return err
			}

			stake := decimal.NewFromFloat(row.BetAmount)
			cancelKey := models.RefKey(models.PrefixCancel, refID)

			res, werr := s.wallet.Cancel(ctx, creds(p), cancelKey, stake, row.RefID)
			if werr != nil || !res.OK() {
				return errWalletFailed
			}
			credit = res.Credit
			cancelledAny = true

			// The cancellation row is the old row re-keyed: stake moves to
			// payout_amount as the refund.
			upd := tx.Model(&row).
				Where("id = ? AND flag IN (?)", row.ID, []string{models.FlagWaiting, models.FlagRunning}).
				Updates(map[string]any{
					"ref_id":        cancelKey,
					"operation_id":  in.OperationID,
					"flag":          models.FlagCancelled,
					"bet_amount":    0,
					"payout_amount": row.BetAmount,
				})
			return upd.Error
		})
		if errors.Is(err, errWalletFailed) {
			return outcome(WalletFailed, p, credit), nil
		}
		if err != nil {
			return Outcome{}, err
		}
	}

	if !cancelledAny {
		credit = s.displayBalance(ctx, p)
	}
	return outcome(OK, p, credit), nil
}
