package service

import "errors"

var (
	ErrSyncInProgress = errors.New("sync already in progress")

	ErrValidationInvalidTransactionType = errors.New("invalid transaction type")
	ErrValidationEmptyPayload           = errors.New("empty transaction payload")
	ErrValidationNoBranchID             = errors.New("no branch ID for transaction was given")

	ErrEmptyBatch          = errors.New("empty batch submitted")
	ErrUnknownEntityType   = errors.New("unknown entity type")
	ErrNoApplierRegistered = errors.New("no domain applier registered for entity type")
)
