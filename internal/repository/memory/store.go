// Package memory is an in-process storage driver. It implements every domain
// repository over maps guarded by one mutex; a transaction holds the mutex for its
// whole duration and restores a snapshot on error.
package memory

import (
	"context"
	"sync"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
)

type txMarker struct{}

// Store holds all entities. Create one per process (or per test).
type Store struct {
	mu sync.Mutex

	doctors      map[uuid.UUID]entity.Doctor
	templateDays map[uuid.UUID]map[int]entity.WeeklyTemplateDay
	overrides    map[uuid.UUID]map[string]entity.DateOverride
	adHocBlocks  map[uuid.UUID]entity.AdHocBlock
	leaves       map[uuid.UUID]entity.LeaveRecord
	slots        map[uuid.UUID]entity.Slot
	appointments map[uuid.UUID]entity.Appointment
	auditLogs    []entity.AuditLog
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		doctors:      make(map[uuid.UUID]entity.Doctor),
		templateDays: make(map[uuid.UUID]map[int]entity.WeeklyTemplateDay),
		overrides:    make(map[uuid.UUID]map[string]entity.DateOverride),
		adHocBlocks:  make(map[uuid.UUID]entity.AdHocBlock),
		leaves:       make(map[uuid.UUID]entity.LeaveRecord),
		slots:        make(map[uuid.UUID]entity.Slot),
		appointments: make(map[uuid.UUID]entity.Appointment),
	}
}

// lock acquires the store mutex unless ctx already runs inside one of this
// store's transactions.
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txMarker{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	doctors      map[uuid.UUID]entity.Doctor
	templateDays map[uuid.UUID]map[int]entity.WeeklyTemplateDay
	overrides    map[uuid.UUID]map[string]entity.DateOverride
	adHocBlocks  map[uuid.UUID]entity.AdHocBlock
	leaves       map[uuid.UUID]entity.LeaveRecord
	slots        map[uuid.UUID]entity.Slot
	appointments map[uuid.UUID]entity.Appointment
	auditLogs    []entity.AuditLog
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		doctors:      copyMap(s.doctors),
		templateDays: make(map[uuid.UUID]map[int]entity.WeeklyTemplateDay, len(s.templateDays)),
		overrides:    make(map[uuid.UUID]map[string]entity.DateOverride, len(s.overrides)),
		adHocBlocks:  copyMap(s.adHocBlocks),
		leaves:       copyMap(s.leaves),
		slots:        copyMap(s.slots),
		appointments: copyMap(s.appointments),
		auditLogs:    append([]entity.AuditLog(nil), s.auditLogs...),
	}
	for k, v := range s.templateDays {
		snap.templateDays[k] = copyMap(v)
	}
	for k, v := range s.overrides {
		snap.overrides[k] = copyMap(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.doctors = snap.doctors
	s.templateDays = snap.templateDays
	s.overrides = snap.overrides
	s.adHocBlocks = snap.adHocBlocks
	s.leaves = snap.leaves
	s.slots = snap.slots
	s.appointments = snap.appointments
	s.auditLogs = snap.auditLogs
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type txManager struct {
	store *Store
}

// NewTxManager returns a TxManager serializing transactions on store.
func NewTxManager(store *Store) domainRepo.TxManager {
	return &txManager{store: store}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(txMarker{}).(*Store); ok && owner == m.store {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, m.store)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}
