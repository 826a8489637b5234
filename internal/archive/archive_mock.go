package archive

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/schema"
)

// MockArchiveManager is a mock implementation of ArchiveManager for testing.
type MockArchiveManager struct {
	mock.Mock
}

var _ contract.ArchiveManager = &MockArchiveManager{} // Compile-time check

// GetArchiveStore implements the ArchiveManager interface.
func (m *MockArchiveManager) GetArchiveStore() contract.ArchiveStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ArchiveStore)
	return store
}

// MockArchiveStore is a mock implementation of ArchiveStore for testing.
type MockArchiveStore struct {
	mock.Mock
}

var _ contract.ArchiveStore = &MockArchiveStore{} // Compile-time check

// RecordSession implements the ArchiveStore interface.
func (m *MockArchiveStore) RecordSession(results schema.SessionResults, exportedAt time.Time) (int64, error) {
	args := m.Called(results, exportedAt)
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the ArchiveStore interface.
func (m *MockArchiveStore) GetStatus() (schema.ArchiveStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ArchiveStatus), args.Error(1)
}

// GetAllSessions implements the ArchiveStore interface.
func (m *MockArchiveStore) GetAllSessions() ([]schema.SessionRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.SessionRecord)
	return records, args.Error(1)
}

// GetAllTaskResults implements the ArchiveStore interface.
func (m *MockArchiveStore) GetAllTaskResults() ([]schema.TaskResultRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.TaskResultRecord)
	return records, args.Error(1)
}

// Close implements the ArchiveStore interface.
func (m *MockArchiveStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
