package ledger

import (
	"context"
	"fmt"
	"strings"
)

// Guard enforces idempotency of client transaction references. It must run
// inside the atomic scope, before any balance mutation for the operation:
// the unique constraint on the reference column is the backstop for two
// concurrent submissions racing past the check.
type Guard struct{}

// CheckAndReserve fails with ErrMissingReference when no reference was
// supplied and with ErrDuplicateReference when the reference, or either of
// its derived transfer legs, is already recorded.
func (Guard) CheckAndReserve(ctx context.Context, tx Tx, reference string) error {
	if strings.TrimSpace(reference) == "" {
		return ErrMissingReference
	}

	for _, ref := range []string{reference, reference + DebitSuffix, reference + CreditSuffix} {
		used, err := tx.ReferenceInUse(ctx, ref)
		if err != nil {
			return fmt.Errorf("check reference %s: %w", ref, err)
		}
		if used {
			return ErrDuplicateReference
		}
	}

	return nil
}
