package split

type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// Outcome is the result of one portion write. Portion writes are
// independent of each other, so a failed one carries its error here
// instead of aborting the run.
type Outcome struct {
	Op            OpKind `json:"op"`
	MemberUserID  string `json:"member_user_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Err           error  `json:"-"`
}

// Result collects the outcomes of one reconciliation run.
type Result struct {
	Outcomes []Outcome
}

func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Failed returns the outcomes whose write did not go through.
func (r Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Partial reports whether the run left the split in a degraded state.
func (r Result) Partial() bool {
	return len(r.Failed()) > 0
}
