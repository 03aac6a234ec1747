package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrTransactionNotFound is returned when a queue operation targets a
	// transaction id that does not exist in the local queue.
	ErrTransactionNotFound = errors.New("queued transaction was not found")

	// ErrInvalidStatusTransition is returned when a status update would
	// violate the monotonic lifecycle (e.g. marking a completed item
	// syncing again). The WHERE clause of every status update enforces the
	// allowed source states; zero affected rows with an existing id means
	// the item was in a state the transition does not accept.
	ErrInvalidStatusTransition = errors.New("invalid queue status transition")

	// ErrLedgerEntryNotFound is returned when a ledger lookup by sync id
	// produces no row.
	ErrLedgerEntryNotFound = errors.New("ledger entry was not found")

	// ErrDuplicateSyncID is returned when inserting a ledger entry conflicts
	// with an existing sync id. This is the idempotency serialization point:
	// callers re-read the existing entry instead of failing the batch item.
	ErrDuplicateSyncID = errors.New("sync id already recorded")

	// ErrProductNotFound is returned when a stock adjustment targets a
	// product with no stock row and the operation does not create one.
	ErrProductNotFound = errors.New("product stock row was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied. The durable queue fails loudly on every storage error:
// an undetected write failure here means a lost sale.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
