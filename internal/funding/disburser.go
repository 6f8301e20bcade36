package funding

import (
	"context"

	"github.com/google/uuid"
)

// Payout describes a withdrawal to be pushed to an external account after
// the debit has been recorded.
type Payout struct {
	Reference     string
	Amount        int64
	BankCode      string
	AccountNumber string
	AccountName   string
}

// Receipt is the disbursement provider's acknowledgement.
type Receipt struct {
	Reference string
	Status    string
}

// Disburser represents the downstream payout connector. The ledger's
// responsibility ends at recording the debit; dispatch is best effort and
// never a control path.
type Disburser interface {
	Dispatch(ctx context.Context, payout Payout) (Receipt, error)
}

// StaticDisburser simulates a successful disbursement integration.
type StaticDisburser struct{}

// Dispatch acknowledges the payout with a synthetic provider reference.
func (StaticDisburser) Dispatch(_ context.Context, _ Payout) (Receipt, error) {
	return Receipt{Reference: uuid.NewString(), Status: "queued"}, nil
}
