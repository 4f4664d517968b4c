package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultDecodeSuccess(t *testing.T) {
	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{"credit_amount": 1500.25, "status_code": 2100}`), &r))
	assert.True(t, r.OK())
	assert.True(t, r.Credit.Equal(decimal.NewFromFloat(1500.25)))
}

func TestResultDecodeFailureCodes(t *testing.T) {
	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{"credit_amount": 0, "status_code": 5003}`), &r))
	assert.False(t, r.OK())
	assert.Equal(t, "5003", r.RawCode)

	// Non-numeric sentinel the wallet sometimes returns.
	require.NoError(t, json.Unmarshal([]byte(`{"credit_amount": 0, "status_code": "invalid"}`), &r))
	assert.False(t, r.OK())
	assert.Equal(t, "invalid", r.RawCode)

	// String-typed success still counts.
	require.NoError(t, json.Unmarshal([]byte(`{"credit_amount": 10, "status_code": "2100"}`), &r))
	assert.True(t, r.OK())
}

func TestClientWager(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wager", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"credit_amount": 900, "status_code": 2100}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Wager(context.Background(), Credentials{Agent: "a1", Key: "k1"}, "p1", "IDR", "wager-tx1", decimal.NewFromInt(100), Report{BetTime: "2026-01-01T00:00:00Z"})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.True(t, res.Credit.Equal(decimal.NewFromInt(900)))

	assert.Equal(t, "a1", got["agent_code"])
	assert.Equal(t, "k1", got["agent_key"])
	assert.Equal(t, "p1", got["play_id"])
	assert.Equal(t, "wager-tx1", got["transaction_id"])
	assert.NotEmpty(t, got["request_id"])
}

func TestClientRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"credit_amount": 0, "status_code": 4005}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Balance(context.Background(), Credentials{}, "p1")
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "4005", res.RawCode)
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Cancel(context.Background(), Credentials{}, "cancel-tx1", decimal.NewFromInt(10), "wager-tx1")
	require.Error(t, err)
}
