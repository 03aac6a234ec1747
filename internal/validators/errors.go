package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidSyncID       = errors.New("invalid sync id")
	ErrInvalidBranchID     = errors.New("invalid branch ID")
	ErrInvalidTimestamp    = errors.New("invalid timestamp")
	ErrInvalidPayload      = errors.New("payload is not valid JSON")
	ErrEmptyEntityType     = errors.New("entity type is required")
	ErrEmptyEntityID       = errors.New("entity id is required")
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrEmptyTransactions   = errors.New("transactions list cannot be empty")
	ErrBatchLengthMismatch = errors.New("batch length does not match transactions list")
	ErrBatchNotOrdered     = errors.New("transactions are not ordered by timestamp")
	ErrBatchOverCapacity   = errors.New("batch exceeds maximum size")
	ErrDuplicateIDsInBatch = errors.New("duplicate sync ids within batch")
)
