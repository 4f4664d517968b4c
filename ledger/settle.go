package ledger

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pintu/currency"
	"pintu/models"
	"pintu/services"
	"pintu/wallet"
)

type SettleTxn struct {
	Username string
	TxID     string
	Payout   decimal.Decimal // provider units
}

type SettleInput struct {
	OperationID string
	Txns        []SettleTxn
}

// Settle pays out running (or previously unsettled) legs. The pre-flight
// pass resolves players, checks every leg's flag and fetches the bet detail
// from the result source; any disqualified leg or detail failure rejects the
// batch before the first wallet call. After that, each leg commits in its
// own transaction.
func (s *Service) Settle(ctx context.Context, in SettleInput) (Outcome, error) {
	type settleLeg struct {
		player *models.Player
		row    models.Report
		detail *services.BetDetail
		txn    SettleTxn
	}

	legs := make([]settleLeg, 0, len(in.Txns))
	for _, t := range in.Txns {
		p, found, err := s.Player(ctx, t.Username)
		if err != nil {
			return Outcome{}, err
		}
		if !found {
			return outcome(PlayerNotFound, nil, decimal.Zero), nil
		}

		out, row, ok, err := s.chainRow(ctx, p, t.TxID, []string{models.FlagRunning, models.FlagUnsettled})
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			return out, nil
		}

		detail, err := s.results.Fetch(ctx, t.TxID)
		if err != nil {
			return outcome(ResultSourceFailed, p, decimal.Zero), nil
		}

		legs = append(legs, settleLeg{player: p, row: row, detail: detail, txn: t})
	}

	credit := decimal.Zero
	var last *models.Player
	for _, leg := range legs {
		p := leg.player
		last = p
		payout := currency.ToWallet(leg.txn.Payout, p.Currency)

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row models.Report
			err := forUpdate(tx).
				Where("id = ? AND flag IN (?)", leg.row.ID, []string{models.FlagRunning, models.FlagUnsettled}).
				First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Settled by a concurrent retry.
				return nil
			}
			if err != nil {
				return err
			}

			settleKey := models.RefKey(models.PrefixSettle, leg.txn.TxID)
			switch row.Flag {
			case models.FlagRunning:
				res, werr := s.wallet.Payout(ctx, creds(p), p.PlayID, p.Currency, settleKey, payout, wallet.Report{
					GameCode:  leg.detail.SportType,
					Selection: leg.detail.Selection,
					League:    leg.detail.LeagueName,
					BetTime:   row.EventTime.Format(time.RFC3339),
				})
				if werr != nil || !res.OK() {
					return errWalletFailed
				}
				credit = res.Credit
			case models.FlagUnsettled:
				// Re-settlement after an unsettle: the wallet gets the delta
				// against what was already paid (zero after unsettle).
				delta := payout.Sub(decimal.NewFromFloat(row.PayoutAmount))
				res, werr := s.wallet.Resettle(ctx, creds(p), p.PlayID, p.Currency, settleKey, delta, row.RefID, leg.txn.TxID, row.EventTime)
				if werr != nil || !res.OK() {
					return errWalletFailed
				}
				credit = res.Credit
			}

			upd := tx.Model(&models.Report{}).
				Where("id = ? AND flag = ?", row.ID, row.Flag).
				Updates(map[string]any{
					"flag":          models.FlagSettled,
					"payout_amount": payout.InexactFloat64(),
					"selection":     fieldOr(leg.detail.Selection),
					"game_code":     fieldOr(leg.detail.SportType),
					"home_name":     fieldOr(leg.detail.HomeName),
					"away_name":     fieldOr(leg.detail.AwayName),
					"odds":          strconv.FormatFloat(leg.detail.Odds, 'f', -1, 64),
					"odds_type":     fieldOr(leg.detail.OddsType),
					"result":        fieldOr(leg.detail.WinLostStatus),
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

	return outcome(OK, last, credit), nil
}

type ResettleTxn struct {
	Username   string
	TxID       string
	Payout     decimal.Decimal // provider units
	UpdateTime time.Time
}

type ResettleInput struct {
	OperationID string
	Txns        []ResettleTxn
}

// Resettle amends the payout of settled legs. The wallet receives only the
// delta between the new payout and what the row already holds; the amendment
// itself lands as a fresh resettle row.
func (s *Service) Resettle(ctx context.Context, in ResettleInput) (Outcome, error) {
	skip := make([]bool, len(in.Txns))
	rows := make([]models.Report, len(in.Txns))
	players := make([]*models.Player, len(in.Txns))
	for i, t := range in.Txns {
		p, found, err := s.Player(ctx, t.Username)
		if err != nil {
			return Outcome{}, err
		}
		if !found {
			return outcome(PlayerNotFound, nil, decimal.Zero), nil
		}
		players[i] = p

		done, err := refExists(s.db.WithContext(ctx), models.RefKey(models.PrefixResettle, t.TxID))
		if err != nil {
			return Outcome{}, err
		}
		if done {
			skip[i] = true
			continue
		}

		out, row, ok, err := s.chainRow(ctx, p, t.TxID, []string{models.FlagSettled, models.FlagResettled})
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			return out, nil
		}
		rows[i] = row
	}

	credit := decimal.Zero
	var last *models.Player
	touched := false
	for i, t := range in.Txns {
		p := players[i]
		last = p
		if skip[i] {
			continue
		}

		newPayout := currency.ToWallet(t.Payout, p.Currency)
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row models.Report
			err := forUpdate(tx).Where("id = ?", rows[i].ID).First(&row).Error
			if err != nil {
				return err
			}

			delta := newPayout.Sub(decimal.NewFromFloat(row.PayoutAmount))
			resettleKey := models.RefKey(models.PrefixResettle, t.TxID)

			res, werr := s.wallet.Resettle(ctx, creds(p), p.PlayID, p.Currency, resettleKey, delta, row.RefID, t.TxID, row.EventTime)
			if werr != nil || !res.OK() {
				return errWalletFailed
			}
			credit = res.Credit
			touched = true

			amend := models.NewReport()
			amend.RefID = resettleKey
			amend.OperationID = in.OperationID
			amend.RoundID = row.RoundID
			amend.TxID = t.TxID
			amend.PlayID = p.PlayID
			amend.WebID = p.WebID
			amend.Currency = p.Currency
			amend.PayoutAmount = delta.InexactFloat64()
			amend.Flag = models.FlagResettled
			amend.EventTime = t.UpdateTime
			if err := tx.Create(&amend).Error; err != nil {
				if isDuplicateKey(err) {
					return nil
				}
				return err
			}

			return tx.Model(&models.Report{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{
					"flag":          models.FlagResettled,
					"payout_amount": newPayout.InexactFloat64(),
				}).Error
		})
		if errors.Is(err, errWalletFailed) {
			return outcome(WalletFailed, p, credit), nil
		}
		if err != nil {
			return Outcome{}, err
		}
	}

	if !touched && last != nil {
		credit = s.displayBalance(ctx, last)
	}
	return outcome(OK, last, credit), nil
}

type UnsettleTxn struct {
	Username   string
	TxID       string
	UpdateTime time.Time
}

type UnsettleInput struct {
	OperationID string
	Txns        []UnsettleTxn
}

// Unsettle reverses a settlement: the wallet takes back the paid amount and
// the chain row drops to unsettled with a zeroed payout, ready for the next
// settle.
func (s *Service) Unsettle(ctx context.Context, in UnsettleInput) (Outcome, error) {
	skip := make([]bool, len(in.Txns))
	rows := make([]models.Report, len(in.Txns))
	players := make([]*models.Player, len(in.Txns))
	for i, t := range in.Txns {
		p, found, err := s.Player(ctx, t.Username)
		if err != nil {
			return Outcome{}, err
		}
		if !found {
			return outcome(PlayerNotFound, nil, decimal.Zero), nil
		}
		players[i] = p

		done, err := refExists(s.db.WithContext(ctx), models.RefKey(models.PrefixUnsettle, t.TxID))
		if err != nil {
			return Outcome{}, err
		}
		if done {
			skip[i] = true
			continue
		}

		out, row, ok, err := s.chainRow(ctx, p, t.TxID, []string{models.FlagSettled, models.FlagResettled})
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			return out, nil
		}
		rows[i] = row
	}

	credit := decimal.Zero
	var last *models.Player
	touched := false
	for i, t := range in.Txns {
		p := players[i]
		last = p
		if skip[i] {
			continue
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row models.Report
			err := forUpdate(tx).Where("id = ?", rows[i].ID).First(&row).Error
			if err != nil {
				return err
			}

			paid := decimal.NewFromFloat(row.PayoutAmount)
			unsettleKey := models.RefKey(models.PrefixUnsettle, t.TxID)

			res, werr := s.wallet.Resettle(ctx, creds(p), p.PlayID, p.Currency, unsettleKey, paid.Neg(), row.RefID, t.TxID, row.EventTime)
			if werr != nil || !res.OK() {
				return errWalletFailed
			}
			credit = res.Credit
			touched = true

			reversal := models.NewReport()
			reversal.RefID = unsettleKey
			reversal.OperationID = in.OperationID
			reversal.RoundID = row.RoundID
			reversal.TxID = t.TxID
			reversal.PlayID = p.PlayID
			reversal.WebID = p.WebID
			reversal.Currency = p.Currency
			reversal.PayoutAmount = paid.Neg().InexactFloat64()
			reversal.Flag = models.FlagUnsettled
			reversal.EventTime = t.UpdateTime
			if err := tx.Create(&reversal).Error; err != nil {
				if isDuplicateKey(err) {
					return nil
				}
				return err
			}

			return tx.Model(&models.Report{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{
					"flag":          models.FlagUnsettled,
					"payout_amount": 0,
				}).Error
		})
		if errors.Is(err, errWalletFailed) {
			return outcome(WalletFailed, p, credit), nil
		}
		if err != nil {
			return Outcome{}, err
		}
	}

	if !touched && last != nil {
		credit = s.displayBalance(ctx, last)
	}
	return outcome(OK, last, credit), nil
}

// chainRow finds the settlement-chain row for a provider txId and checks its
// flag against the eligible set. Not-found and wrong-state stay distinct
// outcomes.
func (s *Service) chainRow(ctx context.Context, p *models.Player, txID string, eligible []string) (Outcome, models.Report, bool, error) {
	var row models.Report
	err := s.db.WithContext(ctx).
		Where("tx_id = ? AND ref_id NOT LIKE 'resettle-%' AND ref_id NOT LIKE 'unsettle-%'", txID).
		Order("id ASC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return outcome(TransactionNotFound, p, s.displayBalance(ctx, p)), models.Report{}, false, nil
	}
	if err != nil {
		return Outcome{}, models.Report{}, false, err
	}
	for _, f := range eligible {
		if row.Flag == f {
			return Outcome{}, row, true, nil
		}
	}
	return outcome(InvalidStatus, p, s.displayBalance(ctx, p)), models.Report{}, false, nil
}

func fieldOr(v string) string {
	if v == "" {
		return models.FieldNone
	}
	return v
}
