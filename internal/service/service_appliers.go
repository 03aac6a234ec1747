package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/store"
	"github.com/openretail/possync/models"
)

// Entity types with in-repo appliers. Sales, purchases and expenses are
// recorded through the ledger itself; inventory adjustments additionally
// mutate the branch stock levels.
const (
	EntitySale      = "sale"
	EntityPurchase  = "purchase"
	EntityExpense   = "expense"
	EntityInventory = "inventory"
)

// NewDomainAppliers builds the default applier registry for a branch server.
func NewDomainAppliers(storages store.Storages, logger *logger.Logger) map[string]DomainApplier {
	recording := NewRecordingApplier(logger)

	return map[string]DomainApplier{
		EntitySale:      recording,
		EntityPurchase:  recording,
		EntityExpense:   recording,
		EntityInventory: NewInventoryApplier(storages.StockRepository, logger),
	}
}

// inventoryApplier applies stock adjustments. The mutation data carries the
// product and the signed quantity delta; a sale that drives stock negative is
// flagged by the storage layer, not rejected.
type inventoryApplier struct {
	stock  store.StockRepository
	logger *logger.Logger
}

// NewInventoryApplier constructs the [DomainApplier] for inventory mutations.
func NewInventoryApplier(stock store.StockRepository, logger *logger.Logger) DomainApplier {
	return &inventoryApplier{stock: stock, logger: logger}
}

type inventoryMutation struct {
	ProductID string  `json:"product_id"`
	Delta     float64 `json:"delta"`
}

// Apply implements [DomainApplier].
func (a *inventoryApplier) Apply(ctx context.Context, entry models.LedgerEntry) (models.ApplyResult, error) {
	var mutation inventoryMutation
	if err := json.Unmarshal(entry.Data, &mutation); err != nil {
		return models.ApplyResult{
			Success:      false,
			Retryable:    false,
			ErrorMessage: fmt.Sprintf("malformed inventory mutation: %v", err),
		}, nil
	}
	if mutation.ProductID == "" {
		return models.ApplyResult{
			Success:      false,
			Retryable:    false,
			ErrorMessage: "inventory mutation missing product_id",
		}, nil
	}

	level, err := a.stock.AdjustQuantity(ctx, mutation.ProductID, mutation.Delta)
	if err != nil {
		return models.ApplyResult{}, fmt.Errorf("adjust stock quantity: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "inventoryApplier.Apply").
		Str("product_id", mutation.ProductID).
		Float64("delta", mutation.Delta).
		Float64("quantity", level.Quantity).
		Bool("negative", level.Negative).
		Msg("stock level adjusted")

	return models.ApplyResult{Success: true}, nil
}

// recordingApplier accepts mutations whose business effect lives in systems
// outside this subsystem; the processed ledger entry itself is the durable
// record the downstream reporting reads from.
type recordingApplier struct {
	logger *logger.Logger
}

// NewRecordingApplier constructs a [DomainApplier] that records without side
// effects.
func NewRecordingApplier(logger *logger.Logger) DomainApplier {
	return &recordingApplier{logger: logger}
}

// Apply implements [DomainApplier].
func (a *recordingApplier) Apply(ctx context.Context, entry models.LedgerEntry) (models.ApplyResult, error) {
	logger.FromContext(ctx).Debug().
		Str("func", "recordingApplier.Apply").
		Str("entity_type", entry.EntityType).
		Str("entity_id", entry.EntityID).
		Str("operation", string(entry.Operation)).
		Msg("mutation recorded")

	return models.ApplyResult{Success: true}, nil
}
