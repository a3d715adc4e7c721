package ledger

import (
	"errors"
	"fmt"
)

// Errors returned by blocks, miners and chains. Match them with errors.Is.
var (
	ErrInvalidIndex        = errors.New("invalid block index")
	ErrIndexOutOfSequence  = errors.New("block index out of sequence")
	ErrInvalidDifficulty   = errors.New("invalid difficulty")
	ErrEncodePayload       = errors.New("failed to encode payload")
	ErrMiningInterrupted   = errors.New("mining interrupted")
	ErrNonceExhausted      = errors.New("nonce space exhausted")
	ErrFingerprintMismatch = errors.New("fingerprint mismatch")
	ErrBrokenLink          = errors.New("broken link to previous block")
	ErrBlockNotFound       = errors.New("block not found")
	ErrUnknownHasher       = errors.New("unknown hasher")
	ErrUnknownCodec        = errors.New("unknown codec")
)

// InvalidBlockError reports the first block that failed verification.
type InvalidBlockError struct {
	Index int
	Err   error
}

func (e *InvalidBlockError) Error() string {
	return fmt.Sprintf("block %d invalid: %v", e.Index, e.Err)
}

func (e *InvalidBlockError) Unwrap() error {
	return e.Err
}
