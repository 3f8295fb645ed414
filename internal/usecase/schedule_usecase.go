package usecase

import (
	"context"
	"fmt"
	"strings"

	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/domain/repository"
	"clinic-slot-engine/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ScheduleUsecase manages doctors and their schedule sources. Every write that
// can change availability regenerates the doctor's slots after it commits, and
// returns that regeneration's result next to the saved record.
type ScheduleUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*entity.Doctor, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	ListDoctors(ctx context.Context) ([]entity.Doctor, error)
	UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*entity.Doctor, *RegenerationResult, error)

	SetWeeklyTemplateDay(ctx context.Context, doctorID uuid.UUID, weekday int, req *dto.WeeklyTemplateDayRequest) (*entity.WeeklyTemplateDay, *RegenerationResult, error)
	SetDateOverride(ctx context.Context, doctorID uuid.UUID, date string, req *dto.DateOverrideRequest) (*entity.DateOverride, *RegenerationResult, error)
	DeleteDateOverride(ctx context.Context, doctorID uuid.UUID, date string) (*RegenerationResult, error)

	CreateAdHocBlock(ctx context.Context, doctorID uuid.UUID, req *dto.CreateAdHocBlockRequest) (*entity.AdHocBlock, *RegenerationResult, error)
	DeleteAdHocBlock(ctx context.Context, id uuid.UUID) (*RegenerationResult, error)

	CreateLeave(ctx context.Context, doctorID uuid.UUID, req *dto.CreateLeaveRequest) (*entity.LeaveRecord, *RegenerationResult, error)
	DeleteLeave(ctx context.Context, id uuid.UUID) (*RegenerationResult, error)
}

type scheduleUsecase struct {
	txManager        repository.TxManager
	log              *logrus.Logger
	doctorRepo       repository.DoctorRepository
	scheduleRepo     repository.ScheduleRepository
	leaveRepo        repository.LeaveRepository
	auditService     service.AuditService
	regeneration     SlotRegenerationUsecase
	allowedDurations []int
}

func NewScheduleUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	scheduleRepo repository.ScheduleRepository,
	leaveRepo repository.LeaveRepository,
	auditService service.AuditService,
	regeneration SlotRegenerationUsecase,
	allowedDurations []int,
) ScheduleUsecase {
	if len(allowedDurations) == 0 {
		allowedDurations = entity.DefaultSlotDurations
	}
	return &scheduleUsecase{
		txManager:        txManager,
		log:              log,
		doctorRepo:       doctorRepo,
		scheduleRepo:     scheduleRepo,
		leaveRepo:        leaveRepo,
		auditService:     auditService,
		regeneration:     regeneration,
		allowedDurations: allowedDurations,
	}
}

func (u *scheduleUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*entity.Doctor, error) {
	if !entity.IsAllowedSlotDuration(req.SlotDurationMinutes, u.allowedDurations) {
		return nil, fmt.Errorf("%w: %d minutes, allowed %v", entity.ErrInvalidSlotDuration, req.SlotDurationMinutes, u.allowedDurations)
	}

	doctor := &entity.Doctor{
		ID:                  uuid.New(),
		FullName:            strings.TrimSpace(req.FullName),
		Specialization:      req.Specialization,
		SlotDurationMinutes: req.SlotDurationMinutes,
		IsActive:            true,
		IsAvailable:         true,
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}
	if req.IsAvailable != nil {
		doctor.IsAvailable = *req.IsAvailable
	}

	err := u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := u.doctorRepo.Create(txCtx, doctor); err != nil {
			u.log.Warnf("Failed to create doctor: %+v", err)
			return err
		}
		return u.auditService.LogCreate(txCtx, actorFromContext(ctx), entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), doctor)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Doctor created: id=%s, name=%s", doctor.ID, doctor.FullName)
	return doctor, nil
}

func (u *scheduleUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func (u *scheduleUsecase) ListDoctors(ctx context.Context) ([]entity.Doctor, error) {
	doctors, err := u.doctorRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	return doctors, nil
}

// UpdateDoctor applies a partial update. Changing the slot duration or either
// availability flag regenerates the doctor's slots.
func (u *scheduleUsecase) UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*entity.Doctor, *RegenerationResult, error) {
	if req.SlotDurationMinutes != nil && !entity.IsAllowedSlotDuration(*req.SlotDurationMinutes, u.allowedDurations) {
		return nil, nil, fmt.Errorf("%w: %d minutes, allowed %v", entity.ErrInvalidSlotDuration, *req.SlotDurationMinutes, u.allowedDurations)
	}

	var doctor *entity.Doctor
	var affectsSlots bool

	err := u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := u.GetDoctor(txCtx, id)
		if err != nil {
			return err
		}
		old := *current

		if req.FullName != "" {
			current.FullName = strings.TrimSpace(req.FullName)
		}
		if req.Specialization != "" {
			current.Specialization = req.Specialization
		}
		if req.SlotDurationMinutes != nil {
			current.SlotDurationMinutes = *req.SlotDurationMinutes
		}
		if req.IsActive != nil {
			current.IsActive = *req.IsActive
		}
		if req.IsAvailable != nil {
			current.IsAvailable = *req.IsAvailable
		}
		affectsSlots = old.SlotDurationMinutes != current.SlotDurationMinutes ||
			old.IsActive != current.IsActive ||
			old.IsAvailable != current.IsAvailable

		if err := u.doctorRepo.Update(txCtx, current); err != nil {
			u.log.Warnf("Failed to update doctor %s: %+v", id, err)
			return err
		}
		doctor = current

		return u.auditService.LogUpdate(txCtx, actorFromContext(ctx), entity.AuditActionDoctorUpdate, "doctor", id.String(), old, current)
	})
	if err != nil {
		return nil, nil, err
	}

	if !affectsSlots {
		return doctor, nil, nil
	}
	result, err := u.regeneration.Regenerate(ctx, id)
	return doctor, result, err
}

func (u *scheduleUsecase) SetWeeklyTemplateDay(ctx context.Context, doctorID uuid.UUID, weekday int, req *dto.WeeklyTemplateDayRequest) (*entity.WeeklyTemplateDay, *RegenerationResult, error) {
	if weekday < 0 || weekday > 6 {
		return nil, nil, entity.ErrInvalidWeekday
	}
	ranges := entity.TimeRanges(req.Ranges)
	if err := ranges.Validate(); err != nil {
		return nil, nil, err
	}

	day := &entity.WeeklyTemplateDay{
		DoctorID: doctorID,
		Weekday:  weekday,
		Ranges:   ranges,
	}
	if err := u.writeSource(ctx, doctorID, entity.AuditActionScheduleUpdate, "weekly_template_day", func(txCtx context.Context) error {
		return u.scheduleRepo.SaveWeeklyTemplateDay(txCtx, day)
	}, day); err != nil {
		return nil, nil, err
	}

	result, err := u.regeneration.Regenerate(ctx, doctorID)
	return day, result, err
}

func (u *scheduleUsecase) SetDateOverride(ctx context.Context, doctorID uuid.UUID, date string, req *dto.DateOverrideRequest) (*entity.DateOverride, *RegenerationResult, error) {
	if _, err := entity.ParseDate(date); err != nil {
		return nil, nil, err
	}
	ranges := entity.TimeRanges(req.Ranges)
	if ranges == nil {
		ranges = entity.TimeRanges{}
	}
	if err := ranges.Validate(); err != nil {
		return nil, nil, err
	}

	override := &entity.DateOverride{
		DoctorID: doctorID,
		Date:     date,
		Ranges:   ranges,
	}
	if err := u.writeSource(ctx, doctorID, entity.AuditActionScheduleUpdate, "date_override", func(txCtx context.Context) error {
		return u.scheduleRepo.SaveDateOverride(txCtx, override)
	}, override); err != nil {
		return nil, nil, err
	}

	result, err := u.regeneration.Regenerate(ctx, doctorID)
	return override, result, err
}

func (u *scheduleUsecase) DeleteDateOverride(ctx context.Context, doctorID uuid.UUID, date string) (*RegenerationResult, error) {
	if _, err := entity.ParseDate(date); err != nil {
		return nil, err
	}

	if err := u.writeSource(ctx, doctorID, entity.AuditActionScheduleUpdate, "date_override", func(txCtx context.Context) error {
		deleted, err := u.scheduleRepo.DeleteDateOverride(txCtx, doctorID, date)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrDateOverrideNotFound
		}
		return nil
	}, map[string]string{"deleted_date": date}); err != nil {
		return nil, err
	}

	return u.regeneration.Regenerate(ctx, doctorID)
}

func (u *scheduleUsecase) CreateAdHocBlock(ctx context.Context, doctorID uuid.UUID, req *dto.CreateAdHocBlockRequest) (*entity.AdHocBlock, *RegenerationResult, error) {
	if _, err := entity.ParseDate(req.Date); err != nil {
		return nil, nil, err
	}
	block := &entity.AdHocBlock{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Note:      req.Note,
	}
	if err := block.Range().Validate(); err != nil {
		return nil, nil, err
	}

	if err := u.writeSource(ctx, doctorID, entity.AuditActionScheduleUpdate, "adhoc_block", func(txCtx context.Context) error {
		return u.scheduleRepo.CreateAdHocBlock(txCtx, block)
	}, block); err != nil {
		return nil, nil, err
	}

	result, err := u.regeneration.Regenerate(ctx, doctorID)
	return block, result, err
}

func (u *scheduleUsecase) DeleteAdHocBlock(ctx context.Context, id uuid.UUID) (*RegenerationResult, error) {
	var doctorID uuid.UUID

	err := u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		block, err := u.scheduleRepo.FindAdHocBlockByID(txCtx, id)
		if err != nil {
			u.log.Warnf("Failed to find ad-hoc block %s: %+v", id, err)
			return err
		}
		if block == nil {
			return ErrAdHocBlockNotFound
		}
		doctorID = block.DoctorID

		deleted, err := u.scheduleRepo.DeleteAdHocBlock(txCtx, id)
		if err != nil {
			u.log.Warnf("Failed to delete ad-hoc block %s: %+v", id, err)
			return err
		}
		if deleted == 0 {
			return ErrAdHocBlockNotFound
		}
		return u.auditService.LogDelete(txCtx, actorFromContext(ctx), entity.AuditActionScheduleUpdate, "adhoc_block", id.String(), block)
	})
	if err != nil {
		return nil, err
	}

	return u.regeneration.Regenerate(ctx, doctorID)
}

func (u *scheduleUsecase) CreateLeave(ctx context.Context, doctorID uuid.UUID, req *dto.CreateLeaveRequest) (*entity.LeaveRecord, *RegenerationResult, error) {
	leave := &entity.LeaveRecord{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Date:      req.Date,
		Kind:      entity.LeaveKind(req.Kind),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    strings.TrimSpace(req.Reason),
	}
	if leave.Kind == entity.LeaveKindFull {
		leave.StartTime, leave.EndTime = "", ""
	}
	if err := leave.Validate(); err != nil {
		return nil, nil, err
	}

	if err := u.writeSource(ctx, doctorID, entity.AuditActionLeaveCreate, "leave_record", func(txCtx context.Context) error {
		return u.leaveRepo.Create(txCtx, leave)
	}, leave); err != nil {
		return nil, nil, err
	}

	result, err := u.regeneration.Regenerate(ctx, doctorID)
	return leave, result, err
}

// DeleteLeave removes a leave record. The regeneration that follows reopens the
// slots it had blocked unless another leave still covers them.
func (u *scheduleUsecase) DeleteLeave(ctx context.Context, id uuid.UUID) (*RegenerationResult, error) {
	var doctorID uuid.UUID

	err := u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		leave, err := u.leaveRepo.FindByID(txCtx, id)
		if err != nil {
			u.log.Warnf("Failed to find leave record %s: %+v", id, err)
			return err
		}
		if leave == nil {
			return ErrLeaveNotFound
		}
		doctorID = leave.DoctorID

		deleted, err := u.leaveRepo.Delete(txCtx, id)
		if err != nil {
			u.log.Warnf("Failed to delete leave record %s: %+v", id, err)
			return err
		}
		if deleted == 0 {
			return ErrLeaveNotFound
		}
		return u.auditService.LogDelete(txCtx, actorFromContext(ctx), entity.AuditActionLeaveDelete, "leave_record", id.String(), leave)
	})
	if err != nil {
		return nil, err
	}

	return u.regeneration.Regenerate(ctx, doctorID)
}

// writeSource checks the doctor exists, then runs write and its audit entry in
// one transaction.
func (u *scheduleUsecase) writeSource(ctx context.Context, doctorID uuid.UUID, action, entityName string, write func(txCtx context.Context) error, newValue interface{}) error {
	return u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := u.GetDoctor(txCtx, doctorID); err != nil {
			return err
		}
		if err := write(txCtx); err != nil {
			u.log.Warnf("Failed to save %s for doctor %s: %+v", entityName, doctorID, err)
			return err
		}
		return u.auditService.LogCreate(txCtx, actorFromContext(ctx), action, entityName, doctorID.String(), newValue)
	})
}
