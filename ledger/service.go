package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pintu/models"
	"pintu/services"
	"pintu/wallet"
)

// Service is the transaction reconciliation core. It owns the report table
// and is the only code path allowed to call the wallet for balance-changing
// operations. The wallet gateway and the bet-result source are constructor
// dependencies so tests can substitute fakes.
type Service struct {
	db      *gorm.DB
	wallet  wallet.Gateway
	results services.BetResultSource
}

func New(db *gorm.DB, w wallet.Gateway, r services.BetResultSource) *Service {
	return &Service{db: db, wallet: w, results: r}
}

// Player resolves an external username to its player record. Not-found is a
// first-class outcome, never an error.
func (s *Service) Player(ctx context.Context, username string) (*models.Player, bool, error) {
	var p models.Player
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

// PlayerByToken resolves a stored session token to its player record.
func (s *Service) PlayerByToken(ctx context.Context, token string) (*models.Player, bool, error) {
	var p models.Player
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

// Balance fetches the player's wallet credit.
func (s *Service) Balance(ctx context.Context, username string) (Outcome, error) {
	p, found, err := s.Player(ctx, username)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return outcome(PlayerNotFound, nil, decimal.Zero), nil
	}

	res, err := s.wallet.Balance(ctx, creds(p), p.PlayID)
	if err != nil || !res.OK() {
		return outcome(WalletFailed, p, decimal.Zero), nil
	}
	return outcome(OK, p, res.Credit), nil
}

func creds(p *models.Player) wallet.Credentials {
	return wallet.Credentials{Agent: p.WalletAgent, Key: p.WalletKey}
}

// forUpdate adds a row lock on dialects that support it. The sqlite test
// database has no FOR UPDATE; the unique ref_id index and the status-guarded
// updates still hold the invariants there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// refExists reports whether a report row with the given composite id exists.
func refExists(tx *gorm.DB, refID string) (bool, error) {
	var n int64
	if err := tx.Model(&models.Report{}).Where("ref_id = ?", refID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// displayBalance is a best-effort wallet credit fetch used on paths that
// answer without a balance-changing call (duplicates, idempotent replays).
func (s *Service) displayBalance(ctx context.Context, p *models.Player) decimal.Decimal {
	res, err := s.wallet.Balance(ctx, creds(p), p.PlayID)
	if err != nil || !res.OK() {
		return decimal.Zero
	}
	return res.Credit
}
