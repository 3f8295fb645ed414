package memory

import (
	"context"
	"sort"
	"time"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
)

type leaveRepository struct {
	store *Store
}

func NewLeaveRepository(store *Store) domainRepo.LeaveRepository {
	return &leaveRepository{store: store}
}

func (r *leaveRepository) Create(ctx context.Context, leave *entity.LeaveRecord) error {
	defer r.store.lock(ctx)()
	if leave.ID == uuid.Nil {
		leave.ID = uuid.New()
	}
	leave.CreatedAt = time.Now()
	r.store.leaves[leave.ID] = *leave
	return nil
}

func (r *leaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LeaveRecord, error) {
	defer r.store.lock(ctx)()
	l, ok := r.store.leaves[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *leaveRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID, from, to string) ([]entity.LeaveRecord, error) {
	defer r.store.lock(ctx)()
	var leaves []entity.LeaveRecord
	for _, l := range r.store.leaves {
		if l.DoctorID == doctorID && l.Date >= from && l.Date <= to {
			leaves = append(leaves, l)
		}
	}
	sort.Slice(leaves, func(i, j int) bool {
		if leaves[i].Date != leaves[j].Date {
			return leaves[i].Date < leaves[j].Date
		}
		return leaves[i].CreatedAt.Before(leaves[j].CreatedAt)
	})
	return leaves, nil
}

func (r *leaveRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	defer r.store.lock(ctx)()
	if _, ok := r.store.leaves[id]; !ok {
		return 0, nil
	}
	delete(r.store.leaves, id)
	return 1, nil
}
