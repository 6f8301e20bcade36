package funding

import "errors"

// ErrVerificationRejected indicates the external provider refused to vouch
// for the funding reference. Nothing is written to the ledger.
var ErrVerificationRejected = errors.New("funding reference failed verification")
