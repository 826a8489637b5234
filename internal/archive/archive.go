// Package archive is the results archive: an export sink that stores finished
// sessions in SQLite, MySQL or PostgreSQL for later reporting and export.
package archive

import (
	"sync"

	"github.com/tlxkit/tlxkit/internal/contract"
)

// ArchiveStoreManager hands out the process-wide ArchiveStore.
type ArchiveStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.ArchiveStore
}

var _ contract.ArchiveManager = &ArchiveStoreManager{} // Compile-time check

// GetArchiveStore returns the ArchiveStore, or nil before InitArchive.
func (mgr *ArchiveStoreManager) GetArchiveStore() contract.ArchiveStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}
