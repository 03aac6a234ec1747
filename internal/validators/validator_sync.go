package validators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openretail/possync/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	FieldSyncID       = "sync_id"
	FieldBranchID     = "branch_id"
	FieldTimestamp    = "timestamp"
	FieldType         = "type"
	FieldPayload      = "payload"
	FieldEntityType   = "entity_type"
	FieldEntityID     = "entity_id"
	FieldOperation    = "operation"
	FieldTransactions = "transactions"
	FieldLength       = "length"
	FieldOrdering     = "ordering"
)

// SyncValidator validates inbound sync batch submissions and the mutation
// descriptors parsed out of their payloads.
type SyncValidator struct {
	// MaxBatchSize bounds one submission; zero means unbounded.
	MaxBatchSize int
}

func NewSyncValidator(maxBatchSize int) Validator {
	return &SyncValidator{MaxBatchSize: maxBatchSize}
}

func (v *SyncValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncBatchRequest:
		return v.validateBatchRequest(ctx, value, fields...)
	case *models.SyncBatchRequest:
		return v.validateBatchRequest(ctx, *value, fields...)

	case models.BatchItem:
		return v.validateBatchItem(ctx, value, fields...)
	case *models.BatchItem:
		return v.validateBatchItem(ctx, *value, fields...)

	case models.MutationDescriptor:
		return v.validateDescriptor(ctx, value, fields...)
	case *models.MutationDescriptor:
		return v.validateDescriptor(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *SyncValidator) validateBatchRequest(ctx context.Context, req models.SyncBatchRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBranchID, FieldTransactions, FieldLength, FieldOrdering}
	}

	for _, f := range fields {
		switch f {
		case FieldBranchID:
			if req.BranchID <= 0 {
				return ErrInvalidBranchID
			}
		case FieldTransactions:
			if len(req.Transactions) == 0 {
				return ErrEmptyTransactions
			}
			if v.MaxBatchSize > 0 && len(req.Transactions) > v.MaxBatchSize {
				return fmt.Errorf("%w: %d > %d", ErrBatchOverCapacity, len(req.Transactions), v.MaxBatchSize)
			}
			seen := make(map[string]struct{}, len(req.Transactions))
			for _, item := range req.Transactions {
				if err := v.validateBatchItem(ctx, item); err != nil {
					return err
				}
				if _, dup := seen[item.ID]; dup {
					return fmt.Errorf("%w: %s", ErrDuplicateIDsInBatch, item.ID)
				}
				seen[item.ID] = struct{}{}
			}
		case FieldLength:
			if req.Length != len(req.Transactions) {
				return ErrBatchLengthMismatch
			}
		case FieldOrdering:
			for i := 1; i < len(req.Transactions); i++ {
				if req.Transactions[i].Timestamp.Before(req.Transactions[i-1].Timestamp) {
					return ErrBatchNotOrdered
				}
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}

func (v *SyncValidator) validateBatchItem(_ context.Context, item models.BatchItem, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSyncID, FieldType, FieldBranchID, FieldTimestamp, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldSyncID:
			if item.ID == "" {
				return ErrInvalidSyncID
			}
		case FieldType:
			if !item.Type.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidType, item.Type)
			}
		case FieldBranchID:
			if item.BranchID <= 0 {
				return ErrInvalidBranchID
			}
		case FieldTimestamp:
			if item.Timestamp.IsZero() {
				return ErrInvalidTimestamp
			}
		case FieldPayload:
			if len(item.Payload) == 0 || !json.Valid(item.Payload) {
				return ErrInvalidPayload
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}

func (v *SyncValidator) validateDescriptor(_ context.Context, d models.MutationDescriptor, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntityType, FieldEntityID, FieldOperation}
	}

	for _, f := range fields {
		switch f {
		case FieldEntityType:
			if d.EntityType == "" {
				return ErrEmptyEntityType
			}
		case FieldEntityID:
			if d.EntityID == "" {
				return ErrEmptyEntityID
			}
		case FieldOperation:
			if !d.Operation.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidOperation, d.Operation)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}
