package wallet

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SuccessCode is the wallet's only documented success status.
const SuccessCode = 2100

// Credentials identify the agent account the wallet call runs under.
type Credentials struct {
	Agent string
	Key   string
}

// Report carries the descriptive context the wallet stores alongside a
// balance-changing call.
type Report struct {
	GameCode  string `json:"game_code,omitempty"`
	Selection string `json:"selection,omitempty"`
	League    string `json:"league,omitempty"`
	BetTime   string `json:"bet_time,omitempty"`
}

// Result is the wallet's answer to any call. The wallet sometimes returns a
// non-numeric status_code sentinel; those land in RawCode with Code left 0,
// so "not a success code" stays a single branch.
type Result struct {
	Credit  decimal.Decimal
	Code    int
	RawCode string
}

// OK reports whether the wallet committed the operation.
func (r Result) OK() bool {
	return r.Code == SuccessCode
}

// UnmarshalJSON decodes the wallet envelope {"credit_amount": ..., "status_code": ...}
// tolerating both numeric and string-typed status codes.
func (r *Result) UnmarshalJSON(data []byte) error {
	var env struct {
		Credit decimal.Decimal `json:"credit_amount"`
		Code   json.RawMessage `json:"status_code"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	r.Credit = env.Credit
	r.Code = 0
	r.RawCode = strings.Trim(string(env.Code), `"`)
	if n, err := strconv.Atoi(r.RawCode); err == nil {
		r.Code = n
	}
	return nil
}

// Gateway is the external balance-of-record system. Every credit/debit truth
// lives there; the report table is only a reconciliation journal. Any
// implementation must treat every non-2100 status as a failure without
// interpreting its business meaning.
type Gateway interface {
	Balance(ctx context.Context, creds Credentials, playID string) (Result, error)
	Wager(ctx context.Context, creds Credentials, playID, currency, txID string, amount decimal.Decimal, report Report) (Result, error)
	Payout(ctx context.Context, creds Credentials, playID, currency, txID string, amount decimal.Decimal, report Report) (Result, error)
	Bonus(ctx context.Context, creds Credentials, playID, currency, txID string, amount decimal.Decimal, report Report) (Result, error)
	Cancel(ctx context.Context, creds Credentials, txID string, amount decimal.Decimal, refTxID string) (Result, error)
	Resettle(ctx context.Context, creds Credentials, playID, currency, txID string, amount decimal.Decimal, betID, settledTxID string, betTime time.Time) (Result, error)
	TransferIn(ctx context.Context, creds Credentials, playID, currency, txID string, amount decimal.Decimal, betTime time.Time) (Result, error)
	TransferOut(ctx context.Context, creds Credentials, playID, currency, txID string, amount decimal.Decimal, betTime time.Time) (Result, error)
}
