package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pintu/currency"
	"pintu/models"
	"pintu/wallet"
)

type AdjustInput struct {
	OperationID string
	Username    string
	TxID        string
	RefNo       string
	Time        time.Time
	BetType     string
	Credit      decimal.Decimal // provider units, mutually exclusive with Debit
	Debit       decimal.Decimal
}

// AdjustBalance writes a standalone correction row outside the bet chain.
// Exactly one of credit/debit must be positive; controllers validate that
// before calling in.
func (s *Service) AdjustBalance(ctx context.Context, in AdjustInput) (Outcome, error) {
	if in.Credit.IsPositive() == in.Debit.IsPositive() {
		return Outcome{}, fmt.Errorf("adjust %s: exactly one of credit/debit required", in.TxID)
	}

	p, found, err := s.Player(ctx, in.Username)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return outcome(PlayerNotFound, nil, decimal.Zero), nil
	}

	adjustKey := models.RefKey(models.PrefixAdjust, in.TxID)
	dup, err := refExists(s.db.WithContext(ctx), adjustKey)
	if err != nil {
		return Outcome{}, err
	}
	if dup {
		return outcome(Duplicate, p, s.displayBalance(ctx, p)), nil
	}

	var res wallet.Result
	var delta decimal.Decimal
	if in.Credit.IsPositive() {
		delta = currency.ToWallet(in.Credit, p.Currency)
		res, err = s.wallet.TransferIn(ctx, creds(p), p.PlayID, p.Currency, adjustKey, delta, in.Time)
	} else {
		delta = currency.ToWallet(in.Debit, p.Currency).Neg()
		res, err = s.wallet.TransferOut(ctx, creds(p), p.PlayID, p.Currency, adjustKey, delta.Abs(), in.Time)
	}
	if err != nil || !res.OK() {
		return outcome(WalletFailed, p, decimal.Zero), nil
	}

	row := models.NewReport()
	row.RefID = adjustKey
	row.OperationID = in.OperationID
	row.RoundID = in.RefNo
	row.TxID = in.TxID
	row.PlayID = p.PlayID
	row.WebID = p.WebID
	row.Currency = p.Currency
	row.PayoutAmount = delta.InexactFloat64()
	row.Flag = models.FlagBonus
	row.EventTime = in.Time
	row.GameCode = fieldOr(in.BetType)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil && !isDuplicateKey(err) {
		return Outcome{}, err
	}

	return outcome(OK, p, res.Credit), nil
}

type RewardInput struct {
	Username      string
	TransactionID string
	Amount        decimal.Decimal // provider units
	Time          time.Time
}

// Reward credits a one-off promotional amount through the wallet's bonus
// operation.
func (s *Service) Reward(ctx context.Context, in RewardInput) (Outcome, error) {
	p, found, err := s.Player(ctx, in.Username)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return outcome(PlayerNotFound, nil, decimal.Zero), nil
	}

	bonusKey := models.RefKey(models.PrefixBonus, in.TransactionID)
	dup, err := refExists(s.db.WithContext(ctx), bonusKey)
	if err != nil {
		return Outcome{}, err
	}
	if dup {
		return outcome(Duplicate, p, s.displayBalance(ctx, p)), nil
	}

	amount := currency.ToWallet(in.Amount, p.Currency)
	res, err := s.wallet.Bonus(ctx, creds(p), p.PlayID, p.Currency, bonusKey, amount, wallet.Report{
		BetTime: in.Time.Format(time.RFC3339),
	})
	if err != nil || !res.OK() {
		return outcome(WalletFailed, p, decimal.Zero), nil
	}

	row := models.NewReport()
	row.RefID = bonusKey
	row.RoundID = in.TransactionID
	row.TxID = in.TransactionID
	row.PlayID = p.PlayID
	row.WebID = p.WebID
	row.Currency = p.Currency
	row.PayoutAmount = amount.InexactFloat64()
	row.Flag = models.FlagBonus
	row.EventTime = in.Time

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil && !isDuplicateKey(err) {
		return Outcome{}, err
	}

	return outcome(OK, p, res.Credit), nil
}
