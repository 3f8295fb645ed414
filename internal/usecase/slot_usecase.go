package usecase

import (
	"context"

	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SlotUsecase interface {
	ListSlots(ctx context.Context, filter entity.SlotFilter) ([]entity.Slot, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	// UpdateSlotStatus is the admin block/unblock entry point. Booking goes
	// through appointments only.
	UpdateSlotStatus(ctx context.Context, id uuid.UUID, status entity.SlotStatus, reason string) (*entity.Slot, error)
}

type slotUsecase struct {
	log      *logrus.Logger
	slotRepo repository.SlotRepository
	booking  BookingUsecase
}

func NewSlotUsecase(log *logrus.Logger, slotRepo repository.SlotRepository, booking BookingUsecase) SlotUsecase {
	return &slotUsecase{
		log:      log,
		slotRepo: slotRepo,
		booking:  booking,
	}
}

// ListSlots returns slots ordered by date then start time.
func (u *slotUsecase) ListSlots(ctx context.Context, filter entity.SlotFilter) ([]entity.Slot, error) {
	for _, d := range []string{filter.Date, filter.From, filter.To} {
		if d == "" {
			continue
		}
		if _, err := entity.ParseDate(d); err != nil {
			return nil, err
		}
	}

	slots, err := u.slotRepo.Find(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list slots: %+v", err)
		return nil, err
	}
	return slots, nil
}

func (u *slotUsecase) GetSlot(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
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

func (u *slotUsecase) UpdateSlotStatus(ctx context.Context, id uuid.UUID, status entity.SlotStatus, reason string) (*entity.Slot, error) {
	switch status {
	case entity.SlotStatusBlocked:
		return u.booking.ManualBlock(ctx, id, reason)
	case entity.SlotStatusAvailable:
		return u.booking.ManualUnblock(ctx, id)
	case entity.SlotStatusBooked:
		return nil, ErrCannotSetBooked
	default:
		return nil, ErrUnsupportedStatus
	}
}
