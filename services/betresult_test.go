package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetResultFetch(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/GetBetDetail", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{
			"error_code": 0,
			"Data": {
				"BetDetails": [{
					"trans_id": "tx1",
					"sport_type": "soccer",
					"league_name": "Premier League",
					"home_name": "Home FC",
					"away_name": "Away FC",
					"bet_team": "h",
					"odds": 1.95,
					"odds_type": "MY",
					"winlost_status": "win"
				}]
			}
		}`))
	}))
	defer srv.Close()

	c := NewBetResultClient(srv.URL, "api-key")
	d, err := c.Fetch(context.Background(), "tx1")
	require.NoError(t, err)
	assert.Equal(t, "tx1", d.TransID)
	assert.Equal(t, "h", d.Selection)
	assert.Equal(t, "win", d.WinLostStatus)
	assert.Equal(t, "api-key", got["key"])
	assert.Equal(t, "tx1", got["trans_id"])
}

func TestBetResultFetchVirtualSportFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"error_code": 0,
			"Data": {
				"BetDetails": [],
				"BetVirtualSportDetails": [{"trans_id": "tx2", "winlost_status": "lose"}]
			}
		}`))
	}))
	defer srv.Close()

	c := NewBetResultClient(srv.URL, "api-key")
	d, err := c.Fetch(context.Background(), "tx2")
	require.NoError(t, err)
	assert.Equal(t, "tx2", d.TransID)
	assert.Equal(t, "lose", d.WinLostStatus)
}

func TestBetResultFetchErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code": 4}`))
	}))
	defer srv.Close()

	c := NewBetResultClient(srv.URL, "api-key")
	_, err := c.Fetch(context.Background(), "tx1")
	require.Error(t, err)
}

func TestBetResultFetchEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code": 0, "Data": {"BetDetails": []}}`))
	}))
	defer srv.Close()

	c := NewBetResultClient(srv.URL, "api-key")
	_, err := c.Fetch(context.Background(), "tx1")
	require.Error(t, err)
}
