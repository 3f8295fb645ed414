package repository

import (
	"context"
	"errors"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	return translateError(conn(ctx, r.db).Create(doctor).Error)
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := conn(ctx, r.db).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := conn(ctx, r.db).Order("full_name ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	return conn(ctx, r.db).Save(doctor).Error
}
