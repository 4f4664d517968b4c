package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pintu/currency"
	"pintu/models"
	"pintu/wallet"
)

// Debit batch types.
const (
	DebitTypeDebit    = "debit"
	DebitTypeRollback = "rollback"
)

type DebitRecord struct {
	ID      string
	Amount  decimal.Decimal // provider units
	BetTime time.Time
}

type BulkDebitInput struct {
	Type        string
	OperationID string
	Username    string
	Records     []DebitRecord
}

// BulkDebit covers both wager and rollback batches under one operation,
// selected by the type field. Debit batches validate the wallet balance once
// up front against the whole converted total; rollback batches reverse
// previously written wager rows. Either way a wallet failure mid-batch stops
// further legs while keeping the rows already committed, because those
// wallet calls cannot be taken back.
func (s *Service) BulkDebit(ctx context.Context, in BulkDebitInput) (Outcome, error) {
	p, found, err := s.Player(ctx, in.Username)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return outcome(PlayerNotFound, nil, decimal.Zero), nil
	}

	switch in.Type {
	case DebitTypeDebit:
		return s.bulkWager(ctx, p, in)
	case DebitTypeRollback:
		return s.bulkRollback(ctx, p, in)
	default:
		return Outcome{}, errors.New("bulk debit: unknown type " + in.Type)
	}
}

func (s *Service) bulkWager(ctx context.Context, p *models.Player, in BulkDebitInput) (Outcome, error) {
	for _, r := range in.Records {
		dup, err := refExists(s.db.WithContext(ctx), models.RefKey(models.PrefixWager, r.ID))
		if err != nil {
			return Outcome{}, err
		}
		if dup {
			return outcome(Duplicate, p, s.displayBalance(ctx, p)), nil
		}
	}

	bres, err := s.wallet.Balance(ctx, creds(p), p.PlayID)
	if err != nil || !bres.OK() {
		return outcome(WalletFailed, p, decimal.Zero), nil
	}

	total := decimal.Zero
	for _, r := range in.Records {
		total = total.Add(currency.ToWallet(r.Amount, p.Currency))
	}
	if total.GreaterThan(bres.Credit) {
		return outcome(InsufficientFunds, p, bres.Credit), nil
	}

	credit := bres.Credit
	for _, r := range in.Records {
		refID := models.RefKey(models.PrefixWager, r.ID)
		stake := currency.ToWallet(r.Amount, p.Currency)

		res, werr := s.wallet.Wager(ctx, creds(p), p.PlayID, p.Currency, refID, stake, wallet.Report{
			BetTime: r.BetTime.Format(time.RFC3339),
		})
		if werr != nil || !res.OK() {
			return outcome(WalletFailed, p, credit), nil
		}
		credit = res.Credit

		row := models.NewReport()
		row.RefID = refID
		row.OperationID = in.OperationID
		row.RoundID = r.ID
		row.TxID = r.ID
		row.PlayID = p.PlayID
		row.WebID = p.WebID
		row.Currency = p.Currency
		row.BetAmount = stake.InexactFloat64()
		row.Flag = models.FlagRunning
		row.EventTime = r.BetTime

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&row).Error
		})
		if err != nil && !isDuplicateKey(err) {
			return Outcome{}, err
		}
	}

	return outcome(OK, p, credit), nil
}

func (s *Service) bulkRollback(ctx context.Context, p *models.Player, in BulkDebitInput) (Outcome, error) {
	skip := make([]bool, len(in.Records))
	priors := make([]models.Report, len(in.Records))
	for i, r := range in.Records {
		done, err := refExists(s.db.WithContext(ctx), models.RefKey(models.PrefixCancel, r.ID))
		if err != nil {
			return Outcome{}, err
		}
		if done {
			skip[i] = true
			continue
		}

		var prior models.Report
		err = s.db.WithContext(ctx).
			Where("ref_id = ?", models.RefKey(models.PrefixWager, r.ID)).
			First(&prior).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return outcome(TransactionNotFound, p, s.displayBalance(ctx, p)), nil
		}
		if err != nil {
			return Outcome{}, err
		}
		if prior.Flag != models.FlagRunning {
			return outcome(InvalidStatus, p, s.displayBalance(ctx, p)), nil
		}
		priors[i] = prior
	}

	credit := decimal.Zero
	reversedAny := false
	for i, r := range in.Records {
		if skip[i] {
			continue
		}
		prior := priors[i]
		stake := decimal.NewFromFloat(prior.BetAmount)
		cancelKey := models.RefKey(models.PrefixCancel, r.ID)

		res, werr := s.wallet.Cancel(ctx, creds(p), cancelKey, stake, prior.RefID)
		if werr != nil || !res.OK() {
			return outcome(WalletFailed, p, credit), nil
		}
		credit = res.Credit
		reversedAny = true

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			reversal := models.NewReport()
			reversal.RefID = cancelKey
			reversal.OperationID = in.OperationID
			reversal.RoundID = r.ID
			reversal.TxID = r.ID
			reversal.PlayID = p.PlayID
			reversal.WebID = p.WebID
			reversal.Currency = p.Currency
			reversal.PayoutAmount = prior.BetAmount
			reversal.Flag = models.FlagCancelled
			reversal.EventTime = r.BetTime
			if err := tx.Create(&reversal).Error; err != nil {
				if isDuplicateKey(err) {
					return nil
				}
				return err
			}

			return tx.Model(&models.Report{}).
				Where("id = ? AND flag = ?", prior.ID, models.FlagRunning).
				Updates(map[string]any{
					"flag":          models.FlagCancelled,
					"bet_amount":    0,
					"payout_amount": prior.BetAmount,
				}).Error
		})
		if err != nil {
			return Outcome{}, err
		}
	}

	if !reversedAny {
		credit = s.displayBalance(ctx, p)
	}
	return outcome(OK, p, credit), nil
}
