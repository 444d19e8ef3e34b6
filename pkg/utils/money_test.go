package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRound2_HalfUp(t *testing.T) {
	assert.Equal(t, "33.33", Round2(dec("33.333333")).String())
	assert.Equal(t, "33.34", Round2(dec("33.335")).String())
	assert.Equal(t, "0.01", Round2(dec("0.005")).String())
	assert.Equal(t, "-0.01", Round2(dec("-0.005")).String())
	assert.Equal(t, "10", Round2(dec("10")).String())
}

func TestApproxEqual_WithinOneCent(t *testing.T) {
	assert.True(t, ApproxEqual(dec("100"), dec("100")))
	assert.True(t, ApproxEqual(dec("100.00"), dec("99.99")))
	assert.True(t, ApproxEqual(dec("99.99"), dec("100.00")))

	// Exactly one cent apart still matches, two cents does not
	assert.True(t, ApproxEqual(dec("50.01"), dec("50.00")))
	assert.False(t, ApproxEqual(dec("50.02"), dec("50.00")))
}

func TestApproxEqual_RoundsBeforeComparing(t *testing.T) {
	// 33.333 + 33.333 + 33.333 style sums land a fraction of a cent off
	sum := dec("33.33").Add(dec("33.33")).Add(dec("33.33"))
	require.Equal(t, "99.99", sum.String())
	assert.True(t, ApproxEqual(sum, dec("100")))

	assert.True(t, ApproxEqual(dec("10.0049"), dec("10.00")))
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, "25", PercentOf(dec("25"), dec("100")).String())
	assert.Equal(t, "33.33", PercentOf(dec("1"), dec("3")).String())
	assert.Equal(t, "66.67", PercentOf(dec("2"), dec("3")).String())
}

func TestPercentOf_ZeroTotal(t *testing.T) {
	assert.True(t, PercentOf(dec("10"), decimal.Zero).IsZero())
}
