package sab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pintu/database"
	"pintu/ledger"
	"pintu/middlewares"
	"pintu/models"
	"pintu/services"
	"pintu/wallet"
)

const testKey = "sab-test-key"

type stubWallet struct {
	credit decimal.Decimal
	wagers int
}

func (s *stubWallet) ok() (wallet.Result, error) {
	return wallet.Result{Credit: s.credit, Code: wallet.SuccessCode}, nil
}

func (s *stubWallet) Balance(ctx context.Context, creds wallet.Credentials, playID string) (wallet.Result, error) {
	return s.ok()
}

func (s *stubWallet) Wager(ctx context.Context, creds wallet.Credentials, playID, currency, txID string, amount decimal.Decimal, report wallet.Report) (wallet.Result, error) {
	s.wagers++
	return s.ok()
}

func (s *stubWallet) Payout(ctx context.Context, creds wallet.Credentials, playID, currency, txID string, amount decimal.Decimal, report wallet.Report) (wallet.Result, error) {
	return s.ok()
}

func (s *stubWallet) Bonus(ctx context.Context, creds wallet.Credentials, playID, currency, txID string, amount decimal.Decimal, report wallet.Report) (wallet.Result, error) {
	return s.ok()
}

func (s *stubWallet) Cancel(ctx context.Context, creds wallet.Credentials, txID string, amount decimal.Decimal, refTxID string) (wallet.Result, error) {
	return s.ok()
}

func (s *stubWallet) Resettle(ctx context.Context, creds wallet.Credentials, playID, currency, txID string, amount decimal.Decimal, betID, settledTxID string, betTime time.Time) (wallet.Result, error) {
	return s.ok()
}

func (s *stubWallet) TransferIn(ctx context.Context, creds wallet.Credentials, playID, currency, txID string, amount decimal.Decimal, betTime time.Time) (wallet.Result, error) {
	return s.ok()
}

func (s *stubWallet) TransferOut(ctx context.Context, creds wallet.Credentials, playID, currency, txID string, amount decimal.Decimal, betTime time.Time) (wallet.Result, error) {
	return s.ok()
}

type stubResults struct{}

func (stubResults) Fetch(ctx context.Context, txID string) (*services.BetDetail, error) {
	return &services.BetDetail{TransID: txID, WinLostStatus: "win", Odds: 1.9}, nil
}

func setupApp(t *testing.T) (*fiber.App, *stubWallet, *gorm.DB) {
	t.Helper()
	t.Setenv("SAB_OPERATOR_KEY", testKey)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Player{}, &models.Operator{}, &models.Report{}))
	database.DB = db

	require.NoError(t, db.Create(&models.Player{
		Username: "testUserID",
		PlayID:   "testPlayID",
		Currency: "IDR",
		WebID:    1,
		IsActive: true,
	}).Error)

	sw := &stubWallet{credit: decimal.NewFromInt(1000)}
	h := New(ledger.New(db, sw, stubResults{}))

	app := fiber.New()
	grp := app.Group("/seamless/sportsbook/sab", middlewares.SabAuth())
	grp.Post("/getbalance", h.GetBalance)
	grp.Post("/placebet", h.PlaceBet)
	grp.Post("/cancelbet", h.CancelBet)
	grp.Post("/settle", h.Settle)

	return app, sw, db
}

func post(t *testing.T, app *fiber.App, path, body string) map[string]any {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestPlaceBetEndpoint(t *testing.T) {
	app, sw, db := setupApp(t)

	body := fmt.Sprintf(`{
		"key": %q,
		"message": {
			"operationId": "op1",
			"refId": "testTransactionID",
			"userId": "testUserID",
			"betTime": "2026-01-02T10:00:00Z",
			"actualAmount": 1,
			"betType": 1,
			"IP": "10.0.0.1"
		}
	}`, testKey)

	out := post(t, app, "/seamless/sportsbook/sab/placebet", body)
	assert.EqualValues(t, 0, out["status"])
	assert.Equal(t, "testTransactionID", out["refId"])
	assert.Equal(t, "testTransactionID", out["licenseeTxId"])
	assert.EqualValues(t, 1, out["balance"]) // 1000 wallet units back in IDR provider units
	assert.Equal(t, 1, sw.wagers)

	var row models.Report
	require.NoError(t, db.Where("ref_id = ?", "wager-testTransactionID").First(&row).Error)
	assert.Equal(t, models.FlagWaiting, row.Flag)
	assert.InDelta(t, 1000, row.BetAmount, 0.001)

	// Replay is a duplicate: still success-shaped, still one wallet wager.
	out = post(t, app, "/seamless/sportsbook/sab/placebet", body)
	assert.EqualValues(t, 0, out["status"])
	assert.Equal(t, 1, sw.wagers)
}

func TestPlaceBetMissingParameter(t *testing.T) {
	app, _, _ := setupApp(t)

	body := fmt.Sprintf(`{"key": %q, "message": {"operationId": "op1", "userId": "testUserID"}}`, testKey)
	out := post(t, app, "/seamless/sportsbook/sab/placebet", body)
	assert.EqualValues(t, 101, out["status"])
}

func TestInvalidKeyBareEnvelope(t *testing.T) {
	app, _, _ := setupApp(t)

	out := post(t, app, "/seamless/sportsbook/sab/getbalance", `{"key": "wrong", "message": {"operationId": "op1", "userId": "testUserID"}}`)
	errEnv, ok := out["error"].(map[string]any)
	require.True(t, ok, "invalid key answers the bare auth envelope, got %v", out)
	assert.EqualValues(t, 4, errEnv["id"])
	assert.Equal(t, "Invalid key", errEnv["msg"])
	assert.NotContains(t, out, "status")
}

func TestCancelBetBothLegsEndpoint(t *testing.T) {
	app, _, db := setupApp(t)

	for _, refID := range []string{"ref1", "ref2"} {
		body := fmt.Sprintf(`{
			"key": %q,
			"message": {
				"operationId": "op1",
				"refId": %q,
				"userId": "testUserID",
				"betTime": "2026-01-02T10:00:00Z",
				"actualAmount": 1,
				"betType": 1,
				"IP": "10.0.0.1"
			}
		}`, testKey, refID)
		out := post(t, app, "/seamless/sportsbook/sab/placebet", body)
		require.EqualValues(t, 0, out["status"])
	}

	body := fmt.Sprintf(`{
		"key": %q,
		"message": {
			"operationId": "op2",
			"userId": "testUserID",
			"txns": [{"refId": "ref1"}, {"refId": "ref2"}]
		}
	}`, testKey)
	out := post(t, app, "/seamless/sportsbook/sab/cancelbet", body)
	assert.EqualValues(t, 0, out["status"])
	assert.EqualValues(t, 1, out["balance"])

	for _, refID := range []string{"ref1", "ref2"} {
		var row models.Report
		require.NoError(t, db.Where("ref_id = ?", "cancel-"+refID).First(&row).Error)
		assert.Equal(t, models.FlagCancelled, row.Flag)
	}
}

func TestSettleInvalidStatusEndpoint(t *testing.T) {
	app, _, db := setupApp(t)

	// One leg still waiting: settle is not a legal transition from there.
	body := fmt.Sprintf(`{
		"key": %q,
		"message": {
			"operationId": "op1",
			"refId": "ref1",
			"userId": "testUserID",
			"betTime": "2026-01-02T10:00:00Z",
			"actualAmount": 1,
			"betType": 1,
			"IP": "10.0.0.1"
		}
	}`, testKey)
	out := post(t, app, "/seamless/sportsbook/sab/placebet", body)
	require.EqualValues(t, 0, out["status"])

	require.NoError(t, db.Model(&models.Report{}).
		Where("ref_id = ?", "wager-ref1").
		Update("tx_id", "tx1").Error)

	settle := fmt.Sprintf(`{
		"key": %q,
		"message": {
			"operationId": "op2",
			"txns": [{"userId": "testUserID", "txId": "tx1", "payout": 2}]
		}
	}`, testKey)
	out = post(t, app, "/seamless/sportsbook/sab/settle", settle)
	assert.EqualValues(t, 309, out["status"])
	assert.Equal(t, "Invalid Transaction Status", out["msg"])

	var row models.Report
	require.NoError(t, db.Where("ref_id = ?", "wager-ref1").First(&row).Error)
	assert.Equal(t, models.FlagWaiting, row.Flag)
	assert.Zero(t, row.PayoutAmount)
}
