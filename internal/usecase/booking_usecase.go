package usecase

import (
	"context"
	"strings"

	"clinic-slot-engine/internal/delivery/http/middleware"
	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/domain/repository"
	"clinic-slot-engine/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultManualBlockReason is stored when an admin blocks a slot without a reason.
const DefaultManualBlockReason = "Blocked by admin"

// AppointmentDraft is the patient data for a new appointment.
type AppointmentDraft struct {
	// DoctorID, when set, must match the slot's doctor.
	DoctorID     *uuid.UUID
	PatientID    *uuid.UUID
	PatientName  string
	PatientPhone string
	Notes        string
}

// RescheduleOptions tunes Reschedule.
type RescheduleOptions struct {
	AllowDoctorChange bool
}

// BookingUsecase owns every slot status change made outside regeneration. Each
// operation runs in one transaction and uses conditional writes, so two requests
// racing for the same slot cannot both win.
type BookingUsecase interface {
	Book(ctx context.Context, slotID uuid.UUID, draft AppointmentDraft) (*entity.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Confirm(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Complete(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*entity.Appointment, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, newSlotID uuid.UUID, opts RescheduleOptions) (*entity.Appointment, error)
	ManualBlock(ctx context.Context, slotID uuid.UUID, reason string) (*entity.Slot, error)
	ManualUnblock(ctx context.Context, slotID uuid.UUID) (*entity.Slot, error)
}

type bookingUsecase struct {
	txManager       repository.TxManager
	log             *logrus.Logger
	slotRepo        repository.SlotRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	horizon         Horizon
}

func NewBookingUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	slotRepo repository.SlotRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	horizon Horizon,
) BookingUsecase {
	return &bookingUsecase{
		txManager:       txManager,
		log:             log,
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		horizon:         horizon,
	}
}

// Book creates a pending appointment on an available slot.
//
// Flow:
// 1. Load slot, check doctor, status and date
// 2. Insert the appointment
// 3. Flip the slot available -> booked only if it is still available
// 4. If the flip matched no row someone else won: roll back, return conflict
func (u *bookingUsecase) Book(ctx context.Context, slotID uuid.UUID, draft AppointmentDraft) (*entity.Appointment, error) {
	var appointment *entity.Appointment

	err := u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		slot, err := u.findSlot(txCtx, slotID)
		if err != nil {
			return err
		}
		if draft.DoctorID != nil && *draft.DoctorID != slot.DoctorID {
			return ErrSlotDoctorMismatch
		}
		if !slot.IsAvailable() {
			return ErrSlotNotAvailable
		}
		if u.horizon.IsPast(slot.Date) {
			return ErrSlotInPast
		}

		appointment = &entity.Appointment{
			ID:           uuid.New(),
			PatientID:    draft.PatientID,
			PatientName:  strings.TrimSpace(draft.PatientName),
			PatientPhone: draft.PatientPhone,
			Notes:        draft.Notes,
			Status:       entity.AppointmentStatusPending,
		}
		appointment.BindSlot(slot)

		if err := u.appointmentRepo.Create(txCtx, appointment); err != nil {
			u.log.Warnf("Failed to create appointment for slot %s: %+v", slotID, err)
			return err
		}

		affected, err := u.slotRepo.UpdateStatus(txCtx, slot.ID, entity.SlotStatusChange{
			From:          entity.SlotStatusAvailable,
			To:            entity.SlotStatusBooked,
			AppointmentID: &appointment.ID,
		})
		if err != nil {
			u.log.Warnf("Failed to book slot %s: %+v", slotID, err)
			return err
		}
		if affected == 0 {
			return ErrSlotNotAvailable
		}

		return u.auditService.LogCreate(txCtx, actorFromContext(ctx), entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), appointment)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, slot=%s, doctor=%s, date=%s %s", appointment.ID, appointment.SlotID, appointment.DoctorID, appointment.Date, appointment.StartTime)
	return appointment, nil
}

func (u *bookingUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// Confirm moves a pending appointment to confirmed. The slot stays booked.
func (u *bookingUsecase) Confirm(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	return u.transition(ctx, id, []entity.AppointmentStatus{entity.AppointmentStatusPending}, entity.AppointmentStatusConfirmed, "", false)
}

// Complete closes an active appointment. The slot stays booked as a record of the visit.
func (u *bookingUsecase) Complete(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	return u.transition(ctx, id, entity.ActiveAppointmentStatuses, entity.AppointmentStatusCompleted, "", false)
}

// Cancel cancels an active appointment and frees its slot.
func (u *bookingUsecase) Cancel(ctx context.Context, id uuid.UUID, reason string) (*entity.Appointment, error) {
	return u.transition(ctx, id, entity.ActiveAppointmentStatuses, entity.AppointmentStatusCancelled, reason, true)
}

// MarkNoShow records a missed appointment and frees its slot.
func (u *bookingUsecase) MarkNoShow(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	return u.transition(ctx, id, entity.ActiveAppointmentStatuses, entity.AppointmentStatusNoShow, "", true)
}

// transition moves an appointment between statuses and, when release is set,
// returns its slot to available. The slot write is conditioned on the slot still
// being booked for this appointment.
func (u *bookingUsecase) transition(ctx context.Context, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus, reason string, release bool) (*entity.Appointment, error) {
	var appointment *entity.Appointment

	err := u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := u.findAppointment(txCtx, id)
		if err != nil {
			return err
		}
		if !statusIn(current.Status, from) {
			return ErrAppointmentNotActive
		}
		old := *current

		affected, err := u.appointmentRepo.UpdateStatus(txCtx, id, from, to, reason)
		if err != nil {
			u.log.Warnf("Failed to update appointment %s to %s: %+v", id, to, err)
			return err
		}
		if affected == 0 {
			return ErrAppointmentNotActive
		}

		if release {
			if err := u.releaseSlot(txCtx, current); err != nil {
				return err
			}
		}

		current.Status = to
		if reason != "" {
			current.CancelReason = reason
		}
		appointment = current

		return u.auditService.LogUpdate(txCtx, actorFromContext(ctx), entity.AuditActionAppointmentUpdate, "appointment", id.String(), old, current)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment %s moved to %s", id, to)
	return appointment, nil
}

// Reschedule moves an active appointment to another available slot.
//
// Flow:
// 1. Claim the new slot (available -> booked) for this appointment
// 2. Release the old slot (booked by this appointment -> available)
// 3. Rebind the appointment
//
// All three writes share one transaction, so on any failure the old slot is
// still booked and the new one untouched.
func (u *bookingUsecase) Reschedule(ctx context.Context, id uuid.UUID, newSlotID uuid.UUID, opts RescheduleOptions) (*entity.Appointment, error) {
	var appointment *entity.Appointment

	err := u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := u.findAppointment(txCtx, id)
		if err != nil {
			return err
		}
		if !current.IsActive() {
			return ErrAppointmentNotActive
		}
		if current.SlotID == newSlotID {
			return ErrSameSlot
		}

		newSlot, err := u.findSlot(txCtx, newSlotID)
		if err != nil {
			return err
		}
		if newSlot.DoctorID != current.DoctorID && !opts.AllowDoctorChange {
			return ErrDoctorChangeNotAllowed
		}
		if !newSlot.IsAvailable() {
			return ErrSlotNotAvailable
		}
		if u.horizon.IsPast(newSlot.Date) {
			return ErrSlotInPast
		}
		old := *current

		affected, err := u.slotRepo.UpdateStatus(txCtx, newSlot.ID, entity.SlotStatusChange{
			From:          entity.SlotStatusAvailable,
			To:            entity.SlotStatusBooked,
			AppointmentID: &current.ID,
		})
		if err != nil {
			u.log.Warnf("Failed to claim slot %s for appointment %s: %+v", newSlotID, id, err)
			return err
		}
		if affected == 0 {
			return ErrSlotNotAvailable
		}

		if err := u.releaseSlot(txCtx, current); err != nil {
			return err
		}

		current.BindSlot(newSlot)
		affected, err = u.appointmentRepo.MoveToSlot(txCtx, current)
		if err != nil {
			u.log.Warnf("Failed to move appointment %s: %+v", id, err)
			return err
		}
		if affected == 0 {
			return ErrAppointmentNotActive
		}
		appointment = current

		return u.auditService.LogUpdate(txCtx, actorFromContext(ctx), entity.AuditActionAppointmentMove, "appointment", id.String(), old, current)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment %s rescheduled to slot %s", id, newSlotID)
	return appointment, nil
}

// ManualBlock blocks an available slot. Booked slots cannot be blocked.
func (u *bookingUsecase) ManualBlock(ctx context.Context, slotID uuid.UUID, reason string) (*entity.Slot, error) {
	if strings.TrimSpace(reason) == "" {
		reason = DefaultManualBlockReason
	}
	return u.changeSlot(ctx, slotID, entity.AuditActionSlotBlock, func(slot *entity.Slot) (entity.SlotStatusChange, error) {
		switch slot.Status {
		case entity.SlotStatusBooked:
			return entity.SlotStatusChange{}, ErrSlotBooked
		case entity.SlotStatusBlocked:
			return entity.SlotStatusChange{}, ErrSlotAlreadyBlocked
		}
		return entity.SlotStatusChange{
			From:        entity.SlotStatusAvailable,
			To:          entity.SlotStatusBlocked,
			BlockReason: reason,
			BlockSource: entity.BlockSourceManual,
		}, nil
	})
}

// ManualUnblock makes a blocked slot available again, whatever blocked it. A
// leave-blocked slot is blocked again by the next regeneration while the leave
// exists.
func (u *bookingUsecase) ManualUnblock(ctx context.Context, slotID uuid.UUID) (*entity.Slot, error) {
	return u.changeSlot(ctx, slotID, entity.AuditActionSlotUnblock, func(slot *entity.Slot) (entity.SlotStatusChange, error) {
		switch slot.Status {
		case entity.SlotStatusBooked:
			return entity.SlotStatusChange{}, ErrSlotBooked
		case entity.SlotStatusAvailable:
			return entity.SlotStatusChange{}, ErrSlotNotBlocked
		}
		return entity.SlotStatusChange{
			From: entity.SlotStatusBlocked,
			To:   entity.SlotStatusAvailable,
		}, nil
	})
}

func (u *bookingUsecase) changeSlot(ctx context.Context, slotID uuid.UUID, action string, plan func(*entity.Slot) (entity.SlotStatusChange, error)) (*entity.Slot, error) {
	var slot *entity.Slot

	err := u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := u.findSlot(txCtx, slotID)
		if err != nil {
			return err
		}
		change, err := plan(current)
		if err != nil {
			return err
		}
		old := *current

		affected, err := u.slotRepo.UpdateStatus(txCtx, slotID, change)
		if err != nil {
			u.log.Warnf("Failed to update slot %s: %+v", slotID, err)
			return err
		}
		if affected == 0 {
			return ErrSlotNotAvailable
		}

		change.Apply(current)
		slot = current

		return u.auditService.LogUpdate(txCtx, actorFromContext(ctx), action, "slot", slotID.String(), old, current)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Slot %s is now %s", slotID, slot.Status)
	return slot, nil
}

// releaseSlot frees the slot held by appointment. The slot must still be booked
// for it; anything else means the binding was broken outside this engine.
func (u *bookingUsecase) releaseSlot(ctx context.Context, appointment *entity.Appointment) error {
	affected, err := u.slotRepo.UpdateStatus(ctx, appointment.SlotID, entity.SlotStatusChange{
		From:          entity.SlotStatusBooked,
		To:            entity.SlotStatusAvailable,
		AppointmentID: &appointment.ID,
	})
	if err != nil {
		u.log.Warnf("Failed to release slot %s: %+v", appointment.SlotID, err)
		return err
	}
	if affected == 0 {
		u.log.Errorf("Slot %s is not booked for appointment %s", appointment.SlotID, appointment.ID)
		return ErrSlotBindingBroken
	}
	return nil
}

func (u *bookingUsecase) findSlot(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	slot, err := u.slotRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find slot %s: %+v", id, err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}

func (u *bookingUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func statusIn(status entity.AppointmentStatus, set []entity.AppointmentStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

// actorFromContext returns the authenticated user, if any, for audit entries.
func actorFromContext(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}
