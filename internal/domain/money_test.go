package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	cents, err := ToCents(decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.Equal(t, int64(250), cents)

	cents, err = ToCents(decimal.RequireFromString("0.30"))
	require.NoError(t, err)
	assert.Equal(t, int64(30), cents)

	_, err = ToCents(decimal.RequireFromString("0.305"))
	assert.Error(t, err)

	cents, err = ToCents(decimal.RequireFromString("92233720368547758.07"))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), cents)
}

func TestToCentsRejectsOverflow(t *testing.T) {
	for _, amount := range []string{
		"92233720368547758.08",
		"184467440737095515.16",
		"-92233720368547758.09",
		"1e30",
	} {
		_, err := ToCents(decimal.RequireFromString(amount))
		assert.Error(t, err, amount)

		_, err = PositiveCents(decimal.RequireFromString(amount))
		assert.Error(t, err, amount)
	}
}

func TestFromCentsKeepsExactSums(t *testing.T) {
	var total int64
	for i := 0; i < 1000; i++ {
		c, err := ToCents(decimal.RequireFromString("0.1"))
		require.NoError(t, err)
		total += c
	}
	assert.Equal(t, "100.00", FromCents(total).StringFixed(2))
}

func TestPositiveCents(t *testing.T) {
	_, err := PositiveCents(decimal.Zero)
	assert.Error(t, err)
	_, err = PositiveCents(decimal.RequireFromString("-1"))
	assert.Error(t, err)

	cents, err := PositiveCents(decimal.RequireFromString("20"))
	require.NoError(t, err)
	assert.Equal(t, int64(2000), cents)
}

func TestOutcomeOK(t *testing.T) {
	assert.True(t, OutcomeCredited.OK())
	assert.True(t, OutcomeClaimed.OK())
	assert.True(t, OutcomeRequested.OK())
	assert.False(t, OutcomeInsufficientFunds.OK())
	assert.False(t, OutcomeAlreadyReferred.OK())
}

func TestReferralCodeFor(t *testing.T) {
	assert.Equal(t, "REF42", ReferralCodeFor(42))
	assert.Equal(t, "REF42", NewUser(42, "Ann", "ann").ReferralCode)
}
