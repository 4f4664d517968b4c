package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// BetDetail is the opaque bet-result record returned by the odds provider.
// Only the descriptive fields land in the report row; no business rules are
// derived from it.
type BetDetail struct {
	TransID       string  `json:"trans_id"`
	SportType     string  `json:"sport_type"`
	LeagueName    string  `json:"league_name"`
	HomeName      string  `json:"home_name"`
	AwayName      string  `json:"away_name"`
	BetType       string  `json:"bet_type"`
	Selection     string  `json:"bet_team"`
	Odds          float64 `json:"odds"`
	OddsType      string  `json:"odds_type"`
	Handicap      string  `json:"hdp"`
	WinLostStatus string  `json:"winlost_status"` // win / lose / draw / void
}

// BetResultSource resolves an external transaction id to its bet detail.
type BetResultSource interface {
	Fetch(ctx context.Context, txID string) (*BetDetail, error)
}

// BetResultClient fetches bet details from the odds provider's report API.
type BetResultClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewBetResultClient(baseURL, apiKey string) *BetResultClient {
	return &BetResultClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    http.DefaultClient,
	}
}

func (c *BetResultClient) Fetch(ctx context.Context, txID string) (*BetDetail, error) {
	payload := map[string]any{
		"key":      c.APIKey,
		"trans_id": txID,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/GetBetDetail", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bet detail request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read bet detail response: %w", err)
	}

	var result struct {
		ErrorCode int `json:"error_code"`
		Data      *struct {
			BetDetails             []BetDetail `json:"BetDetails"`
			BetVirtualSportDetails []BetDetail `json:"BetVirtualSportDetails"`
			BetNumberDetails       []BetDetail `json:"BetNumberDetails"`
		} `json:"Data"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode error: %v", err)
	}

	if result.ErrorCode != 0 {
		return nil, fmt.Errorf("bet detail API error: error_code=%d", result.ErrorCode)
	}
	if result.Data == nil {
		return nil, fmt.Errorf("bet detail API returned no data for %s", txID)
	}

	for _, list := range [][]BetDetail{
		result.Data.BetDetails,
		result.Data.BetVirtualSportDetails,
		result.Data.BetNumberDetails,
	} {
		if len(list) > 0 {
			d := list[0]
			return &d, nil
		}
	}

	return nil, fmt.Errorf("bet detail API returned empty detail for %s", txID)
}
