package memory

import (
	"context"
	"sort"
	"time"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
)

type scheduleRepository struct {
	store *Store
}

func NewScheduleRepository(store *Store) domainRepo.ScheduleRepository {
	return &scheduleRepository{store: store}
}

func (r *scheduleRepository) FindWeeklyTemplate(ctx context.Context, doctorID uuid.UUID) (*entity.WeeklyTemplate, error) {
	defer r.store.lock(ctx)()
	days := make([]entity.WeeklyTemplateDay, 0, 7)
	for _, d := range r.store.templateDays[doctorID] {
		days = append(days, d)
	}
	return entity.NewWeeklyTemplate(doctorID, days), nil
}

func (r *scheduleRepository) SaveWeeklyTemplateDay(ctx context.Context, day *entity.WeeklyTemplateDay) error {
	defer r.store.lock(ctx)()
	byWeekday, ok := r.store.templateDays[day.DoctorID]
	if !ok {
		byWeekday = make(map[int]entity.WeeklyTemplateDay)
		r.store.templateDays[day.DoctorID] = byWeekday
	}
	now := time.Now()
	if existing, ok := byWeekday[day.Weekday]; ok {
		day.ID = existing.ID
		day.CreatedAt = existing.CreatedAt
	} else {
		if day.ID == uuid.Nil {
			day.ID = uuid.New()
		}
		day.CreatedAt = now
	}
	day.UpdatedAt = now
	byWeekday[day.Weekday] = *day
	return nil
}

func (r *scheduleRepository) FindDateOverrides(ctx context.Context, doctorID uuid.UUID, from, to string) ([]entity.DateOverride, error) {
	defer r.store.lock(ctx)()
	var overrides []entity.DateOverride
	for date, o := range r.store.overrides[doctorID] {
		if date >= from && date <= to {
			overrides = append(overrides, o)
		}
	}
	sort.Slice(overrides, func(i, j int) bool { return overrides[i].Date < overrides[j].Date })
	return overrides, nil
}

func (r *scheduleRepository) SaveDateOverride(ctx context.Context, override *entity.DateOverride) error {
	defer r.store.lock(ctx)()
	byDate, ok := r.store.overrides[override.DoctorID]
	if !ok {
		byDate = make(map[string]entity.DateOverride)
		r.store.overrides[override.DoctorID] = byDate
	}
	now := time.Now()
	if existing, ok := byDate[override.Date]; ok {
		override.ID = existing.ID
		override.CreatedAt = existing.CreatedAt
	} else {
		if override.ID == uuid.Nil {
			override.ID = uuid.New()
		}
		override.CreatedAt = now
	}
	override.UpdatedAt = now
	byDate[override.Date] = *override
	return nil
}

func (r *scheduleRepository) DeleteDateOverride(ctx context.Context, doctorID uuid.UUID, date string) (int64, error) {
	defer r.store.lock(ctx)()
	if _, ok := r.store.overrides[doctorID][date]; !ok {
		return 0, nil
	}
	delete(r.store.overrides[doctorID], date)
	return 1, nil
}

func (r *scheduleRepository) FindAdHocBlocks(ctx context.Context, doctorID uuid.UUID, from, to string) ([]entity.AdHocBlock, error) {
	defer r.store.lock(ctx)()
	var blocks []entity.AdHocBlock
	for _, b := range r.store.adHocBlocks {
		if b.DoctorID == doctorID && b.Date >= from && b.Date <= to {
			blocks = append(blocks, b)
		}
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Date != blocks[j].Date {
			return blocks[i].Date < blocks[j].Date
		}
		return blocks[i].StartTime < blocks[j].StartTime
	})
	return blocks, nil
}

func (r *scheduleRepository) FindAdHocBlockByID(ctx context.Context, id uuid.UUID) (*entity.AdHocBlock, error) {
	defer r.store.lock(ctx)()
	b, ok := r.store.adHocBlocks[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *scheduleRepository) CreateAdHocBlock(ctx context.Context, block *entity.AdHocBlock) error {
	defer r.store.lock(ctx)()
	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}
	block.CreatedAt = time.Now()
	r.store.adHocBlocks[block.ID] = *block
	return nil
}

func (r *scheduleRepository) DeleteAdHocBlock(ctx context.Context, id uuid.UUID) (int64, error) {
	defer r.store.lock(ctx)()
	if _, ok := r.store.adHocBlocks[id]; !ok {
		return 0, nil
	}
	delete(r.store.adHocBlocks, id)
	return 1, nil
}
