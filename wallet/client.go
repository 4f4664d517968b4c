package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client talks to the wallet API over HTTP. One POST per operation; the
// wallet answers with a credit amount and a status code.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    http.DefaultClient,
	}
}

func (c *Client) post(ctx context.Context, op string, payload map[string]any) (Result, error) {
	payload["request_id"] = uuid.NewString()

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := c.BaseURL + "/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("wallet %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read wallet response: %w", err)
	}

	if resp.StatusCode != 200 {
		return Result{}, fmt.Errorf("wallet %s failed, status: %s", op, resp.Status)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, fmt.Errorf("failed to decode wallet response: %w", err)
	}

	if !result.OK() {
		log.Printf("⚠️ [Wallet] %s rejected | status_code=%s | body=%s", op, result.RawCode, string(raw))
	}

	return result, nil
}

func creds(payload map[string]any, cr Credentials) map[string]any {
	payload["agent_code"] = cr.Agent
	payload["agent_key"] = cr.Key
	return payload
}

func (c *Client) Balance(ctx context.Context, cr Credentials, playID string) (Result, error) {
	return c.post(ctx, "balance", creds(map[string]any{
		"play_id": playID,
	}, cr))
}

func (c *Client) Wager(ctx context.Context, cr Credentials, playID, currency, txID string, amount decimal.Decimal, report Report) (Result, error) {
	return c.post(ctx, "wager", creds(map[string]any{
		"play_id":        playID,
		"currency":       currency,
		"transaction_id": txID,
		"amount":         amount,
		"report":         report,
	}, cr))
}

func (c *Client) Payout(ctx context.Context, cr Credentials, playID, currency, txID string, amount decimal.Decimal, report Report) (Result, error) {
	return c.post(ctx, "payout", creds(map[string]any{
		"play_id":        playID,
		"currency":       currency,
		"transaction_id": txID,
		"amount":         amount,
		"report":         report,
	}, cr))
}

func (c *Client) Bonus(ctx context.Context, cr Credentials, playID, currency, txID string, amount decimal.Decimal, report Report) (Result, error) {
	return c.post(ctx, "bonus", creds(map[string]any{
		"play_id":        playID,
		"currency":       currency,
		"transaction_id": txID,
		"amount":         amount,
		"report":         report,
	}, cr))
}

func (c *Client) Cancel(ctx context.Context, cr Credentials, txID string, amount decimal.Decimal, refTxID string) (Result, error) {
	return c.post(ctx, "cancel", creds(map[string]any{
		"transaction_id":     txID,
		"amount":             amount,
		"ref_transaction_id": refTxID,
	}, cr))
}

func (c *Client) Resettle(ctx context.Context, cr Credentials, playID, currency, txID string, amount decimal.Decimal, betID, settledTxID string, betTime time.Time) (Result, error) {
	return c.post(ctx, "resettle", creds(map[string]any{
		"play_id":                playID,
		"currency":               currency,
		"transaction_id":         txID,
		"amount":                 amount,
		"bet_id":                 betID,
		"settled_transaction_id": settledTxID,
		"bet_time":               betTime.Format(time.RFC3339),
	}, cr))
}

func (c *Client) TransferIn(ctx context.Context, cr Credentials, playID, currency, txID string, amount decimal.Decimal, betTime time.Time) (Result, error) {
	return c.post(ctx, "transferIn", creds(map[string]any{
		"play_id":        playID,
		"currency":       currency,
		"transaction_id": txID,
		"amount":         amount,
		"bet_time":       betTime.Format(time.RFC3339),
	}, cr))
}

func (c *Client) TransferOut(ctx context.Context, cr Credentials, playID, currency, txID string, amount decimal.Decimal, betTime time.Time) (Result, error) {
	return c.post(ctx, "transferOut", creds(map[string]any{
		"play_id":        playID,
		"currency":       currency,
		"transaction_id": txID,
		"amount":         amount,
		"bet_time":       betTime.Format(time.RFC3339),
	}, cr))
}
