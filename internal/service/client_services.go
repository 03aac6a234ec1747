package service

import (
	"github.com/openretail/possync/internal/adapter"
	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/store"
)

// ClientServices bundles the agent-side services behind one constructor.
type ClientServices struct {
	QueueService ClientQueueService
	Dispatcher   SyncDispatcher
	SyncJob      SyncJob
}

func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg *config.ClientConfig, logger *logger.Logger) *ClientServices {
	queueSvc := NewClientQueueService(storages.QueueRepository, cfg.Identity, logger)
	dispatcher := NewSyncDispatcher(storages.QueueRepository, serverAdapter, cfg.Identity, cfg.Dispatcher, logger)

	return &ClientServices{
		QueueService: queueSvc,
		Dispatcher:   dispatcher,
		SyncJob:      NewSyncJob(dispatcher, logger),
	}
}
