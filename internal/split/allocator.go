// Package split computes and reconciles the per-member portions of a
// shared household expense. Allocation is pure arithmetic over the
// requested shares; reconciliation diffs the desired shares against
// the portion transactions already persisted and issues the minimal
// set of writes.
package split

import (
	"fmt"

	"github.com/shopspring/decimal"

	"homeledger/internal/models"
	"homeledger/pkg/utils"
)

type Mode string

const (
	ModeEqual  Mode = "equal"
	ModeManual Mode = "manual"
)

// ValidationError reports unusable split input. It is returned before
// any document is written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid split: " + e.Reason
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ShareInput is one requested share. Amount is only read in manual
// mode.
type ShareInput struct {
	MemberUserID string          `json:"member_user_id"`
	Amount       decimal.Decimal `json:"amount"`
}

var hundred = decimal.NewFromInt(100)

// Allocate computes the final per-member shares for a transaction
// total, preserving the order of the inputs.
//
// Equal mode gives every member round2(total/n) at round2(100/n)
// percent. Each share is rounded independently, so the shares can
// drift from the total by a few cents; the main transaction's amount
// stays authoritative and the drift is accepted.
//
// Manual mode keeps the requested amounts when they already sum to the
// total within a cent, otherwise every amount is scaled by
// total/rawSum so the set fits the total. Percentages are always
// recomputed from the final amounts.
func Allocate(total decimal.Decimal, inputs []ShareInput, mode Mode) ([]models.SplitShare, error) {
	if !total.IsPositive() {
		return nil, invalid("total must be positive, got %s", total)
	}
	if len(inputs) == 0 {
		return nil, invalid("no members to split between")
	}

	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.MemberUserID == "" {
			return nil, invalid("share with empty member id")
		}
		if seen[in.MemberUserID] {
			return nil, invalid("duplicate share for member %s", in.MemberUserID)
		}
		seen[in.MemberUserID] = true
	}

	switch mode {
	case ModeEqual:
		return allocateEqual(total, inputs), nil
	case ModeManual:
		return allocateManual(total, inputs)
	default:
		return nil, invalid("unknown mode %q", mode)
	}
}

func allocateEqual(total decimal.Decimal, inputs []ShareInput) []models.SplitShare {
	n := decimal.NewFromInt(int64(len(inputs)))
	amount := utils.Round2(total.Div(n))
	percentage := utils.Round2(hundred.Div(n))

	out := make([]models.SplitShare, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, models.SplitShare{
			MemberUserID: in.MemberUserID,
			Amount:       amount,
			Percentage:   percentage,
		})
	}
	return out
}

func allocateManual(total decimal.Decimal, inputs []ShareInput) ([]models.SplitShare, error) {
	rawSum := decimal.Zero
	for _, in := range inputs {
		if in.Amount.IsNegative() {
			return nil, invalid("negative amount for member %s", in.MemberUserID)
		}
		rawSum = rawSum.Add(in.Amount)
	}

	ratio := decimal.NewFromInt(1)
	if !utils.ApproxEqual(rawSum, total) && !rawSum.IsZero() {
		ratio = total.Div(rawSum)
	}

	out := make([]models.SplitShare, 0, len(inputs))
	for _, in := range inputs {
		amount := utils.Round2(in.Amount.Mul(ratio))
		out = append(out, models.SplitShare{
			MemberUserID: in.MemberUserID,
			Amount:       amount,
			Percentage:   utils.PercentOf(amount, total),
		})
	}
	return out, nil
}

// Qualifying filters the shares that become portion transactions: the
// owner's implicit share never materializes, and zero shares leave no
// record.
func Qualifying(shares []models.SplitShare, ownerUserID string) []models.SplitShare {
	out := make([]models.SplitShare, 0, len(shares))
	for _, s := range shares {
		if s.MemberUserID == ownerUserID || !s.Amount.IsPositive() {
			continue
		}
		out = append(out, s)
	}
	return out
}
