package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFactor(t *testing.T) {
	assert.True(t, Factor("IDR").Equal(decimal.NewFromInt(1000)))
	assert.True(t, Factor("vnd").Equal(decimal.NewFromInt(1000)))
	assert.True(t, Factor("USD").Equal(decimal.NewFromInt(1)))
	assert.True(t, Factor("XXX").Equal(decimal.NewFromInt(1)), "unknown codes fall back to 1:1")
}

func TestRoundTrip(t *testing.T) {
	for code := range factors {
		amount := decimal.NewFromFloat(12.5)
		back := FromWallet(ToWallet(amount, code), code)
		assert.True(t, back.Equal(amount), "%s: %s != %s", code, back, amount)
	}
}

func TestToWallet(t *testing.T) {
	got := ToWallet(decimal.NewFromInt(1), "IDR")
	assert.True(t, got.Equal(decimal.NewFromInt(1000)))

	got = ToWallet(decimal.NewFromFloat(2.5), "THB")
	assert.True(t, got.Equal(decimal.NewFromFloat(2.5)))
}

func TestBankersRounding(t *testing.T) {
	// Half-to-even at the wallet's 2-decimal boundary.
	got := ToWallet(decimal.NewFromFloat(0.125), "USD")
	assert.Equal(t, "0.12", got.StringFixed(2))

	got = ToWallet(decimal.NewFromFloat(0.135), "USD")
	assert.Equal(t, "0.14", got.StringFixed(2))
}
