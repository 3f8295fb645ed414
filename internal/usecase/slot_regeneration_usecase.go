package usecase

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/domain/repository"
	"clinic-slot-engine/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RegenerationResult summarizes one regeneration run for a doctor.
type RegenerationResult struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	// Count is the number of slots held in the horizon after the run.
	Count        int      `json:"count"`
	Created      int      `json:"created"`
	Updated      int      `json:"updated"`
	Deleted      int      `json:"deleted"`
	Pruned       int      `json:"pruned"`
	LeaveBlocked int      `json:"leave_blocked"`
	Conflicts    int      `json:"conflicts"`
	FailedDays   []string `json:"failed_days,omitempty"`
}

// DayRegenerationError reports the days a run could not rewrite. Every other day of
// the run committed.
type DayRegenerationError struct {
	DoctorID uuid.UUID
	Days     map[string]error
}

func (e *DayRegenerationError) Error() string {
	parts := make([]string, 0, len(e.Days))
	for _, day := range slices.Sorted(maps.Keys(e.Days)) {
		parts = append(parts, day+": "+e.Days[day].Error())
	}
	return fmt.Sprintf("regenerate doctor %s: %d day(s) failed: %s", e.DoctorID, len(e.Days), strings.Join(parts, "; "))
}

// Unwrap exposes the day errors so errors.Is can classify them.
func (e *DayRegenerationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Days))
	for _, err := range e.Days {
		errs = append(errs, err)
	}
	return errs
}

type SlotRegenerationUsecase interface {
	// Regenerate rebuilds the doctor's slots over the horizon from the current
	// schedule sources. Booked slots are never changed.
	Regenerate(ctx context.Context, doctorID uuid.UUID) (*RegenerationResult, error)
	// RegenerateAll regenerates every doctor and keeps going past failures.
	RegenerateAll(ctx context.Context) ([]*RegenerationResult, error)
}

type slotRegenerationUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	scheduleRepo repository.ScheduleRepository
	leaveRepo    repository.LeaveRepository
	slotRepo     repository.SlotRepository
	locker       service.DoctorLocker
	auditService service.AuditService
	horizon      Horizon
}

func NewSlotRegenerationUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	scheduleRepo repository.ScheduleRepository,
	leaveRepo repository.LeaveRepository,
	slotRepo repository.SlotRepository,
	locker service.DoctorLocker,
	auditService service.AuditService,
	horizon Horizon,
) SlotRegenerationUsecase {
	return &slotRegenerationUsecase{
		txManager:    txManager,
		log:          log,
		doctorRepo:   doctorRepo,
		scheduleRepo: scheduleRepo,
		leaveRepo:    leaveRepo,
		slotRepo:     slotRepo,
		locker:       locker,
		auditService: auditService,
		horizon:      horizon,
	}
}

// Regenerate runs the pipeline for one doctor.
//
// Flow:
// 1. Serialize with other regenerations of the same doctor
// 2. Load doctor, weekly template, overrides, ad-hoc blocks and leaves once
// 3. Rewrite each horizon day in its own transaction (see regenerateDay)
// 4. Drop unbooked slots outside the horizon
// 5. Block available slots covered by leave that the day pass did not touch
//
// A failed day is reported in FailedDays and the error, other days still commit.
func (u *slotRegenerationUsecase) Regenerate(ctx context.Context, doctorID uuid.UUID) (*RegenerationResult, error) {
	unlock, err := u.locker.Lock(ctx, doctorID)
	if err != nil {
		if !errors.Is(err, service.ErrRegenerationBusy) {
			u.log.Warnf("Failed to lock doctor %s for regeneration: %+v", doctorID, err)
		}
		return nil, err
	}
	defer unlock()

	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	from, to := u.horizon.Bounds()
	sources, leaves, err := u.loadSources(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}

	result := &RegenerationResult{DoctorID: doctorID}
	failed := make(map[string]error)

	for _, date := range u.horizon.Dates() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		stats, err := u.regenerateDay(ctx, doctor, sources, leaves, date)
		if err != nil {
			day := entity.FormatDate(date)
			u.log.Warnf("Failed to regenerate slots for doctor %s on %s: %+v", doctorID, day, err)
			failed[day] = err
			result.FailedDays = append(result.FailedDays, day)
			continue
		}
		result.add(stats)
	}

	pruned, err := u.slotRepo.DeleteUnbookedOutside(ctx, doctorID, from, to)
	if err != nil {
		u.log.Warnf("Failed to prune slots outside horizon for doctor %s: %+v", doctorID, err)
		return result, err
	}
	result.Pruned = int(pruned)

	swept, err := u.sweepLeaves(ctx, doctorID, leaves, from, to)
	if err != nil {
		return result, err
	}
	result.LeaveBlocked += swept

	if err := u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionSlotRegenerate, "doctor", doctorID.String(), nil, result); err != nil {
		u.log.Warnf("Failed to audit regeneration for doctor %s: %+v", doctorID, err)
	}

	u.log.WithFields(logrus.Fields{
		"doctor_id":     doctorID,
		"count":         result.Count,
		"created":       result.Created,
		"updated":       result.Updated,
		"deleted":       result.Deleted,
		"pruned":        result.Pruned,
		"leave_blocked": result.LeaveBlocked,
		"failed_days":   len(result.FailedDays),
	}).Info("Slots regenerated")

	if len(failed) > 0 {
		return result, &DayRegenerationError{DoctorID: doctorID, Days: failed}
	}
	return result, nil
}

// RegenerateAll regenerates doctors one after another.
func (u *slotRegenerationUsecase) RegenerateAll(ctx context.Context) ([]*RegenerationResult, error) {
	doctors, err := u.doctorRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	results := make([]*RegenerationResult, 0, len(doctors))
	var errs []error
	for _, d := range doctors {
		result, err := u.Regenerate(ctx, d.ID)
		if result != nil {
			results = append(results, result)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results, ctxErr
			}
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

func (u *slotRegenerationUsecase) loadSources(ctx context.Context, doctorID uuid.UUID, from, to string) (*entity.ScheduleSources, *service.LeaveIndex, error) {
	template, err := u.scheduleRepo.FindWeeklyTemplate(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load weekly template for doctor %s: %+v", doctorID, err)
		return nil, nil, err
	}
	overrides, err := u.scheduleRepo.FindDateOverrides(ctx, doctorID, from, to)
	if err != nil {
		u.log.Warnf("Failed to load date overrides for doctor %s: %+v", doctorID, err)
		return nil, nil, err
	}
	blocks, err := u.scheduleRepo.FindAdHocBlocks(ctx, doctorID, from, to)
	if err != nil {
		u.log.Warnf("Failed to load ad-hoc blocks for doctor %s: %+v", doctorID, err)
		return nil, nil, err
	}
	leaves, err := u.leaveRepo.FindByDoctor(ctx, doctorID, from, to)
	if err != nil {
		u.log.Warnf("Failed to load leave records for doctor %s: %+v", doctorID, err)
		return nil, nil, err
	}
	return entity.NewScheduleSources(template, overrides, blocks), service.NewLeaveIndex(leaves), nil
}

type dayStats struct {
	count, created, updated, deleted, leaveBlocked, conflicts int
}

func (r *RegenerationResult) add(s dayStats) {
	r.Count += s.count
	r.Created += s.created
	r.Updated += s.updated
	r.Deleted += s.deleted
	r.LeaveBlocked += s.leaveBlocked
	r.Conflicts += s.conflicts
}

// regenerateDay rewrites one doctor-day inside a transaction.
//
// The day's rows are read and locked first; that read is the snapshot the whole
// day is computed from. Booked slots and manual blocks still inside working hours
// are kept. Fresh candidates are sliced from the resolved ranges, filtered by the
// conflict guard, and leave is applied before anything is written. The target set
// is then diffed against the snapshot so unchanged slots keep their IDs. Every
// write is conditional; a write that matches fewer rows than expected aborts the
// day.
func (u *slotRegenerationUsecase) regenerateDay(ctx context.Context, doctor *entity.Doctor, sources *entity.ScheduleSources, leaves *service.LeaveIndex, date time.Time) (dayStats, error) {
	var stats dayStats
	day := entity.FormatDate(date)

	err := u.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		stats = dayStats{}

		existing, err := u.slotRepo.FindDayForUpdate(txCtx, doctor.ID, day)
		if err != nil {
			return err
		}
		if err := service.CheckDayInvariants(existing); err != nil {
			u.log.Errorf("Refusing to regenerate doctor %s on %s: %+v", doctor.ID, day, err)
			return err
		}

		ranges, err := service.ResolveWorkingRanges(doctor, sources, date)
		if err != nil {
			return err
		}

		kept, replaceable := partitionDay(existing, ranges)

		candidates, err := service.SliceRanges(ranges, doctor.SlotDurationMinutes)
		if err != nil {
			return err
		}
		guard, err := service.GuardCandidates(candidates, kept)
		if err != nil {
			return err
		}
		stats.conflicts = guard.Conflicts + guard.Duplicates

		targets := make([]*entity.Slot, 0, len(guard.Accepted))
		for _, c := range guard.Accepted {
			targets = append(targets, &entity.Slot{
				DoctorID:  doctor.ID,
				Date:      day,
				StartTime: c.StartTime(),
				EndTime:   c.EndTime(),
				Label:     c.Label,
				Status:    entity.SlotStatusAvailable,
			})
		}
		leaves.Apply(targets)

		current := make(map[string]*entity.Slot, len(replaceable))
		for i := range replaceable {
			current[replaceable[i].StartTime] = &replaceable[i]
		}

		var inserts []*entity.Slot
		for _, t := range targets {
			old, ok := current[t.StartTime]
			if !ok || old.EndTime != t.EndTime {
				inserts = append(inserts, t)
				continue
			}
			delete(current, t.StartTime)

			if t.IsBlocked() && t.BlockSource == entity.BlockSourceLeave {
				stats.leaveBlocked++
			}
			if old.Status == t.Status && old.BlockReason == t.BlockReason && old.BlockSource == t.BlockSource {
				continue
			}

			affected, err := u.slotRepo.UpdateStatus(txCtx, old.ID, entity.SlotStatusChange{
				From:        old.Status,
				To:          t.Status,
				BlockReason: t.BlockReason,
				BlockSource: t.BlockSource,
			})
			if err != nil {
				return err
			}
			if affected != 1 {
				return ErrDaySlotsChanged
			}
			stats.updated++
		}

		if len(current) > 0 {
			stale := make([]uuid.UUID, 0, len(current))
			for _, s := range current {
				stale = append(stale, s.ID)
			}
			deleted, err := u.slotRepo.DeleteUnbooked(txCtx, stale)
			if err != nil {
				return err
			}
			if int(deleted) != len(stale) {
				return ErrDaySlotsChanged
			}
			stats.deleted = len(stale)
		}

		if len(inserts) > 0 {
			if err := u.slotRepo.CreateBatch(txCtx, inserts); err != nil {
				return err
			}
			for _, s := range inserts {
				if s.IsBlocked() {
					stats.leaveBlocked++
				}
			}
			stats.created = len(inserts)
		}

		stats.count = len(kept) + len(targets)
		return nil
	})
	return stats, err
}

// partitionDay splits persisted slots into those regeneration must keep and those
// it may replace. Booked slots are always kept. Manually blocked slots are kept
// while they still sit inside one working range. Leave-blocked and available slots
// are recomputed.
func partitionDay(existing []entity.Slot, ranges []entity.TimeRange) (kept, replaceable []entity.Slot) {
	for _, s := range existing {
		switch {
		case s.IsBooked():
			kept = append(kept, s)
		case s.IsBlocked() && s.BlockSource != entity.BlockSourceLeave && withinAny(s.Range(), ranges):
			kept = append(kept, s)
		default:
			replaceable = append(replaceable, s)
		}
	}
	return kept, replaceable
}

func withinAny(r entity.TimeRange, ranges []entity.TimeRange) bool {
	start, end, err := r.Bounds()
	if err != nil {
		return false
	}
	for _, w := range ranges {
		ws, we, err := w.Bounds()
		if err != nil {
			continue
		}
		if ws <= start && end <= we {
			return true
		}
	}
	return false
}

// sweepLeaves blocks any available slot in the horizon that a leave covers. The
// day pass already did this for the days it rewrote; the sweep catches days that
// failed and slots freed by a concurrent cancellation.
func (u *slotRegenerationUsecase) sweepLeaves(ctx context.Context, doctorID uuid.UUID, leaves *service.LeaveIndex, from, to string) (int, error) {
	available, err := u.slotRepo.Find(ctx, entity.SlotFilter{
		DoctorID: &doctorID,
		From:     from,
		To:       to,
		Status:   entity.SlotStatusAvailable,
	})
	if err != nil {
		u.log.Warnf("Failed to load available slots for leave sweep of doctor %s: %+v", doctorID, err)
		return 0, err
	}

	blocked := 0
	for i := range available {
		change, ok := leaves.BlockChange(&available[i])
		if !ok {
			continue
		}
		affected, err := u.slotRepo.UpdateStatus(ctx, available[i].ID, change)
		if err != nil {
			u.log.Warnf("Failed to block slot %s for leave: %+v", available[i].ID, err)
			return blocked, err
		}
		// zero rows: booked in the meantime, bookings win
		blocked += int(affected)
	}
	return blocked, nil
}
