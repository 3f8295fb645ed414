package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
)

type slotRepository struct {
	store *Store
}

func NewSlotRepository(store *Store) domainRepo.SlotRepository {
	return &slotRepository{store: store}
}

func cloneSlot(s entity.Slot) entity.Slot {
	if s.AppointmentID != nil {
		id := *s.AppointmentID
		s.AppointmentID = &id
	}
	return s
}

func sortSlots(slots []entity.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime < slots[j].StartTime
		}
		return slots[i].DoctorID.String() < slots[j].DoctorID.String()
	})
}

func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	defer r.store.lock(ctx)()
	s, ok := r.store.slots[id]
	if !ok {
		return nil, nil
	}
	s = cloneSlot(s)
	return &s, nil
}

func (r *slotRepository) Find(ctx context.Context, filter entity.SlotFilter) ([]entity.Slot, error) {
	defer r.store.lock(ctx)()
	var slots []entity.Slot
	for _, s := range r.store.slots {
		if filter.DoctorID != nil && s.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.Date != "" && s.Date != filter.Date {
			continue
		}
		if filter.From != "" && s.Date < filter.From {
			continue
		}
		if filter.To != "" && s.Date > filter.To {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		slots = append(slots, cloneSlot(s))
	}
	sortSlots(slots)
	return slots, nil
}

// FindDayForUpdate needs no row locks here: transactions already hold the store mutex.
func (r *slotRepository) FindDayForUpdate(ctx context.Context, doctorID uuid.UUID, date string) ([]entity.Slot, error) {
	return r.Find(ctx, entity.SlotFilter{DoctorID: &doctorID, Date: date})
}

func (r *slotRepository) CreateBatch(ctx context.Context, slots []*entity.Slot) error {
	defer r.store.lock(ctx)()

	type key struct {
		doctorID uuid.UUID
		date     string
		start    string
	}
	taken := make(map[key]bool)
	for _, s := range r.store.slots {
		taken[key{s.DoctorID, s.Date, s.StartTime}] = true
	}
	for _, s := range slots {
		k := key{s.DoctorID, s.Date, s.StartTime}
		if taken[k] {
			return fmt.Errorf("%w: slot %s %s already exists", entity.ErrConflict, s.Date, s.StartTime)
		}
		taken[k] = true
	}

	now := time.Now()
	for _, s := range slots {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.CreatedAt, s.UpdatedAt = now, now
		r.store.slots[s.ID] = cloneSlot(*s)
	}
	return nil
}

func (r *slotRepository) UpdateStatus(ctx context.Context, id uuid.UUID, change entity.SlotStatusChange) (int64, error) {
	defer r.store.lock(ctx)()
	s, ok := r.store.slots[id]
	if !ok || !change.Matches(&s) {
		return 0, nil
	}
	change.Apply(&s)
	s.UpdatedAt = time.Now()
	r.store.slots[id] = s
	return 1, nil
}

func (r *slotRepository) DeleteUnbooked(ctx context.Context, ids []uuid.UUID) (int64, error) {
	defer r.store.lock(ctx)()
	var deleted int64
	for _, id := range ids {
		s, ok := r.store.slots[id]
		if !ok || s.IsBooked() {
			continue
		}
		delete(r.store.slots, id)
		deleted++
	}
	return deleted, nil
}

func (r *slotRepository) DeleteUnbookedOutside(ctx context.Context, doctorID uuid.UUID, from, to string) (int64, error) {
	defer r.store.lock(ctx)()
	var deleted int64
	for id, s := range r.store.slots {
		if s.DoctorID != doctorID || s.IsBooked() {
			continue
		}
		if s.Date < from || s.Date > to {
			delete(r.store.slots, id)
			deleted++
		}
	}
	return deleted, nil
}
