package service

import (
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/store"
)

// Services bundles the branch server's services behind one constructor.
type Services struct {
	LedgerService LedgerService
}

func NewServices(storages store.Storages, logger *logger.Logger) *Services {
	resolver := NewLastCommitWinsResolver(storages.LedgerRepository, logger)
	appliers := NewDomainAppliers(storages, logger)
	classifier := store.NewPostgresErrorClassifier()

	return &Services{
		LedgerService: NewLedgerService(storages.LedgerRepository, resolver, appliers, classifier, logger),
	}
}
