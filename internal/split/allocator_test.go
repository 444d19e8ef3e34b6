package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeledger/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func shareInputs(ids ...string) []ShareInput {
	out := make([]ShareInput, 0, len(ids))
	for _, id := range ids {
		out = append(out, ShareInput{MemberUserID: id})
	}
	return out
}

func TestAllocate_EqualTwoWays(t *testing.T) {
	shares, err := Allocate(dec("100"), shareInputs("alice", "bob"), ModeEqual)
	require.NoError(t, err)
	require.Len(t, shares, 2)

	for _, s := range shares {
		assert.Equal(t, "50", s.Amount.String())
		assert.Equal(t, "50", s.Percentage.String())
	}
	assert.Equal(t, "alice", shares[0].MemberUserID)
	assert.Equal(t, "bob", shares[1].MemberUserID)
}

func TestAllocate_EqualThreeWaysKeepsRoundingDrift(t *testing.T) {
	shares, err := Allocate(dec("100"), shareInputs("a", "b", "c"), ModeEqual)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	// Every share is rounded independently; no member absorbs the
	// missing cent.
	sum := decimal.Zero
	for _, s := range shares {
		assert.Equal(t, "33.33", s.Amount.String())
		assert.Equal(t, "33.33", s.Percentage.String())
		sum = sum.Add(s.Amount)
	}
	assert.Equal(t, "99.99", sum.String())
}

func TestAllocate_ManualKeepsAmountsThatFit(t *testing.T) {
	inputs := []ShareInput{
		{MemberUserID: "alice", Amount: dec("40")},
		{MemberUserID: "bob", Amount: dec("60")},
	}

	shares, err := Allocate(dec("100"), inputs, ModeManual)
	require.NoError(t, err)
	require.Len(t, shares, 2)

	assert.Equal(t, "40", shares[0].Amount.String())
	assert.Equal(t, "40", shares[0].Percentage.String())
	assert.Equal(t, "60", shares[1].Amount.String())
	assert.Equal(t, "60", shares[1].Percentage.String())
}

func TestAllocate_ManualKeepsAmountsWithinOneCent(t *testing.T) {
	inputs := []ShareInput{
		{MemberUserID: "alice", Amount: dec("33.33")},
		{MemberUserID: "bob", Amount: dec("33.33")},
		{MemberUserID: "carol", Amount: dec("33.33")},
	}

	shares, err := Allocate(dec("100"), inputs, ModeManual)
	require.NoError(t, err)

	// Raw sum is 99.99, within tolerance, so nothing is rescaled.
	for _, s := range shares {
		assert.Equal(t, "33.33", s.Amount.String())
	}
}

func TestAllocate_ManualRescalesMismatchedAmounts(t *testing.T) {
	inputs := []ShareInput{
		{MemberUserID: "alice", Amount: dec("30")},
		{MemberUserID: "bob", Amount: dec("30")},
	}

	shares, err := Allocate(dec("100"), inputs, ModeManual)
	require.NoError(t, err)
	require.Len(t, shares, 2)

	// 60 requested against a 100 total: both shares scale by 100/60.
	assert.Equal(t, "50", shares[0].Amount.String())
	assert.Equal(t, "50", shares[0].Percentage.String())
	assert.Equal(t, "50", shares[1].Amount.String())
	assert.Equal(t, "50", shares[1].Percentage.String())
}

func TestAllocate_ManualZeroSumBecomesZeroShares(t *testing.T) {
	inputs := []ShareInput{
		{MemberUserID: "alice"},
		{MemberUserID: "bob"},
	}

	shares, err := Allocate(dec("80"), inputs, ModeManual)
	require.NoError(t, err)

	for _, s := range shares {
		assert.True(t, s.Amount.IsZero())
		assert.True(t, s.Percentage.IsZero())
	}
}

func TestAllocate_PercentagesComeFromFinalAmounts(t *testing.T) {
	inputs := []ShareInput{
		{MemberUserID: "alice", Amount: dec("10")},
		{MemberUserID: "bob", Amount: dec("20")},
	}

	shares, err := Allocate(dec("90"), inputs, ModeManual)
	require.NoError(t, err)

	assert.Equal(t, "30", shares[0].Amount.String())
	assert.Equal(t, "33.33", shares[0].Percentage.String())
	assert.Equal(t, "60", shares[1].Amount.String())
	assert.Equal(t, "66.67", shares[1].Percentage.String())
}

func TestAllocate_Validation(t *testing.T) {
	var vErr *ValidationError

	_, err := Allocate(decimal.Zero, shareInputs("a"), ModeEqual)
	require.ErrorAs(t, err, &vErr)

	_, err = Allocate(dec("-5"), shareInputs("a"), ModeEqual)
	require.ErrorAs(t, err, &vErr)

	_, err = Allocate(dec("10"), nil, ModeEqual)
	require.ErrorAs(t, err, &vErr)

	_, err = Allocate(dec("10"), []ShareInput{{MemberUserID: ""}}, ModeEqual)
	require.ErrorAs(t, err, &vErr)

	_, err = Allocate(dec("10"), shareInputs("a", "a"), ModeEqual)
	require.ErrorAs(t, err, &vErr)

	_, err = Allocate(dec("10"), []ShareInput{{MemberUserID: "a", Amount: dec("-1")}}, ModeManual)
	require.ErrorAs(t, err, &vErr)

	_, err = Allocate(dec("10"), shareInputs("a"), Mode("percentage"))
	require.ErrorAs(t, err, &vErr)
}

func TestQualifying_SkipsOwnerAndZeroShares(t *testing.T) {
	shares := []models.SplitShare{
		{MemberUserID: "owner", Amount: dec("40")},
		{MemberUserID: "bob", Amount: dec("40")},
		{MemberUserID: "carol", Amount: decimal.Zero},
	}

	kept := Qualifying(shares, "owner")
	require.Len(t, kept, 1)
	assert.Equal(t, "bob", kept[0].MemberUserID)
}
