package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/assetbayapp/assetbay-server/internal/config"
	"github.com/assetbayapp/assetbay-server/internal/logger"
	"github.com/assetbayapp/assetbay-server/internal/store"
	"github.com/assetbayapp/assetbay-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// Bootstrap contains the catalog bootstrap result.
type Bootstrap struct {
	AdminCount int
}

// ProvideBootstrap checks the catalog's starting state. A server without
// administrators still serves the public API; the admin API stays locked
// until one is seeded.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	ctx := context.Background()

	count, err := storeHandle.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		log.Warn("No administrator accounts found - run cmd/seed to create one")
	} else {
		log.Info("Administrator accounts ready", "count", count)
	}

	return &Bootstrap{AdminCount: count}, nil
}
