package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Static unit factor per currency code. IDR/VND callbacks carry amounts in
// thousands relative to the wallet unit; everything else is 1:1.
var factors = map[string]int64{
	"IDR": 1000,
	"VND": 1000,
	"USD": 1,
	"THB": 1,
	"BRL": 1,
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Factor returns the unit multiplier for a currency code. Unknown codes are
// treated as 1:1.
func Factor(code string) decimal.Decimal {
	if f, ok := factors[normalize(code)]; ok {
		return decimal.NewFromInt(f)
	}
	return decimal.NewFromInt(1)
}

// ToWallet converts a provider-unit amount into wallet units. Wallet amounts
// are kept at 2 decimals with banker's rounding.
func ToWallet(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Mul(Factor(code)).RoundBank(2)
}

// FromWallet converts a wallet-unit amount back into provider units.
func FromWallet(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.DivRound(Factor(code), 8).RoundBank(2)
}
