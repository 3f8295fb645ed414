package memory

import (
	"context"
	"sort"
	"time"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
)

type doctorRepository struct {
	store *Store
}

func NewDoctorRepository(store *Store) domainRepo.DoctorRepository {
	return &doctorRepository{store: store}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	defer r.store.lock(ctx)()
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	now := time.Now()
	doctor.CreatedAt, doctor.UpdatedAt = now, now
	r.store.doctors[doctor.ID] = *doctor
	return nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	defer r.store.lock(ctx)()
	doctor, ok := r.store.doctors[id]
	if !ok {
		return nil, nil
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	defer r.store.lock(ctx)()
	doctors := make([]entity.Doctor, 0, len(r.store.doctors))
	for _, d := range r.store.doctors {
		doctors = append(doctors, d)
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].FullName < doctors[j].FullName })
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	defer r.store.lock(ctx)()
	doctor.UpdatedAt = time.Now()
	r.store.doctors[doctor.ID] = *doctor
	return nil
}
