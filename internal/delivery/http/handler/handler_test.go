package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/repository/memory"
	"clinic-slot-engine/internal/service"
	"clinic-slot-engine/internal/usecase"
	"clinic-slot-engine/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ---------- Helper ----------

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type testServer struct {
	router   *mux.Router
	schedule usecase.ScheduleUsecase
	slots    usecase.SlotUsecase
	booking  usecase.BookingUsecase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	doctorRepo := memory.NewDoctorRepository(store)
	scheduleRepo := memory.NewScheduleRepository(store)
	leaveRepo := memory.NewLeaveRepository(store)
	slotRepo := memory.NewSlotRepository(store)
	auditService := service.NewAuditService(log, memory.NewAuditLogRepository(store))
	locker := service.NewLocalDoctorLocker(log, time.Second)
	t.Cleanup(locker.Stop)

	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	horizon := usecase.NewHorizon(7, time.UTC, func() time.Time { return now })

	regeneration := usecase.NewSlotRegenerationUsecase(txManager, log, doctorRepo, scheduleRepo, leaveRepo, slotRepo, locker, auditService, horizon)
	booking := usecase.NewBookingUsecase(txManager, log, slotRepo, memory.NewAppointmentRepository(store), auditService, horizon)
	schedule := usecase.NewScheduleUsecase(txManager, log, doctorRepo, scheduleRepo, leaveRepo, auditService, regeneration, nil)
	slots := usecase.NewSlotUsecase(log, slotRepo, booking)

	v := validator.NewValidator()
	slotHandler := NewSlotHandler(slots, regeneration, v)
	appointmentHandler := NewAppointmentHandler(booking, v)
	scheduleHandler := NewScheduleHandler(schedule, v)

	router := mux.NewRouter()
	router.HandleFunc("/slots", slotHandler.ListSlots).Methods(http.MethodGet)
	router.HandleFunc("/slots/{id}", slotHandler.GetSlot).Methods(http.MethodGet)
	router.HandleFunc("/slots/{id}", slotHandler.UpdateSlotStatus).Methods(http.MethodPatch)
	router.HandleFunc("/doctors/{id}/slots/regenerate", slotHandler.Regenerate).Methods(http.MethodPost)
	router.HandleFunc("/doctors/{id}/weekly-template/{weekday}", scheduleHandler.SetWeeklyTemplateDay).Methods(http.MethodPut)
	router.HandleFunc("/appointments", appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	router.HandleFunc("/appointments/{id}", appointmentHandler.UpdateAppointment).Methods(http.MethodPatch)

	return &testServer{router: router, schedule: schedule, slots: slots, booking: booking}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func (s *testServer) newDoctor(t *testing.T) *entity.Doctor {
	t.Helper()
	doctor, err := s.schedule.CreateDoctor(context.Background(), &dto.CreateDoctorRequest{FullName: "Dr. Handler", SlotDurationMinutes: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doctor
}

func (s *testServer) firstSlot(t *testing.T, doctorID uuid.UUID) entity.Slot {
	t.Helper()
	slots, err := s.slots.ListSlots(context.Background(), entity.SlotFilter{DoctorID: &doctorID})
	if err != nil || len(slots) == 0 {
		t.Fatalf("expected slots, got %d (%v)", len(slots), err)
	}
	return slots[0]
}

// ---------- Tests ----------

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{usecase.ErrSlotNotFound, http.StatusNotFound},
		{usecase.ErrSlotNotAvailable, http.StatusConflict},
		{service.ErrRegenerationBusy, http.StatusConflict},
		{entity.ErrInvalidClock, http.StatusBadRequest},
		{usecase.ErrSlotBindingBroken, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, tt.err, "fallback")
		if rec.Code != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.want, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("db: %w", errors.New("password leaked")), "Failed to do it")
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Error("internal error text must not reach the client")
	}
}

func TestWriteRegenerationError_KeepsPartialResult(t *testing.T) {
	result := &usecase.RegenerationResult{DoctorID: uuid.New(), Count: 8, FailedDays: []string{"2026-10-20"}}
	err := &usecase.DayRegenerationError{DoctorID: result.DoctorID, Days: map[string]error{"2026-10-20": entity.ErrInvariantViolation}}

	rec := httptest.NewRecorder()
	writeRegenerationError(rec, err, result, "fallback")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var partial dto.RegenerationResponse
	if err := json.Unmarshal(env.Error, &partial); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if partial.Count != 8 || len(partial.FailedDays) != 1 {
		t.Errorf("unexpected partial result %+v", partial)
	}
}

func TestSetWeeklyTemplateDay_Regenerates(t *testing.T) {
	srv := newTestServer(t)
	doctor := srv.newDoctor(t)

	rec, env := srv.do(t, http.MethodPut, "/doctors/"+doctor.ID.String()+"/weekly-template/1", dto.WeeklyTemplateDayRequest{
		Ranges: []entity.TimeRange{{Start: "09:00", End: "13:00"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var change struct {
		Regeneration dto.RegenerationResponse `json:"regeneration"`
	}
	if err := json.Unmarshal(env.Data, &change); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.Regeneration.Count != 8 {
		t.Errorf("expected 8 slots, got %d", change.Regeneration.Count)
	}

	rec, _ = srv.do(t, http.MethodPut, "/doctors/"+doctor.ID.String()+"/weekly-template/1", dto.WeeklyTemplateDayRequest{
		Ranges: []entity.TimeRange{{Start: "9am", End: "13:00"}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed clock, got %d", rec.Code)
	}

	rec, _ = srv.do(t, http.MethodPut, "/doctors/"+uuid.NewString()+"/weekly-template/1", dto.WeeklyTemplateDayRequest{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown doctor, got %d", rec.Code)
	}
}

func TestCreateAppointment_Conflict(t *testing.T) {
	srv := newTestServer(t)
	doctor := srv.newDoctor(t)
	srv.do(t, http.MethodPut, "/doctors/"+doctor.ID.String()+"/weekly-template/1", dto.WeeklyTemplateDayRequest{
		Ranges: []entity.TimeRange{{Start: "09:00", End: "10:00"}},
	})
	slot := srv.firstSlot(t, doctor.ID)

	body := dto.CreateAppointmentRequest{DoctorID: doctor.ID, SlotID: slot.ID, PatientName: "Jane Doe"}
	rec, env := srv.do(t, http.MethodPost, "/appointments", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var appointment dto.AppointmentResponse
	if err := json.Unmarshal(env.Data, &appointment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, _ = srv.do(t, http.MethodPost, "/appointments", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on double booking, got %d", rec.Code)
	}

	rec, _ = srv.do(t, http.MethodPost, "/appointments", dto.CreateAppointmentRequest{DoctorID: doctor.ID, SlotID: slot.ID})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without patient name, got %d", rec.Code)
	}

	rec, _ = srv.do(t, http.MethodPatch, "/appointments/"+appointment.ID.String(), map[string]interface{}{
		"status":      "cancelled",
		"new_slot_id": uuid.NewString(),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for status plus new_slot_id, got %d", rec.Code)
	}

	rec, _ = srv.do(t, http.MethodPatch, "/appointments/"+appointment.ID.String(), map[string]interface{}{"status": "cancelled"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on cancel, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, _ = srv.do(t, http.MethodPost, "/appointments", body)
	if rec.Code != http.StatusCreated {
		t.Errorf("expected freed slot to be bookable, got %d", rec.Code)
	}
}

func TestUpdateSlotStatus(t *testing.T) {
	srv := newTestServer(t)
	doctor := srv.newDoctor(t)
	srv.do(t, http.MethodPut, "/doctors/"+doctor.ID.String()+"/weekly-template/1", dto.WeeklyTemplateDayRequest{
		Ranges: []entity.TimeRange{{Start: "09:00", End: "10:00"}},
	})
	slot := srv.firstSlot(t, doctor.ID)
	path := "/slots/" + slot.ID.String()

	rec, _ := srv.do(t, http.MethodPatch, path, dto.UpdateSlotStatusRequest{Status: "booked"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when setting booked, got %d", rec.Code)
	}

	rec, env := srv.do(t, http.MethodPatch, path, dto.UpdateSlotStatusRequest{Status: "blocked", BlockReason: "Cleaning"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var blocked dto.SlotResponse
	if err := json.Unmarshal(env.Data, &blocked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocked.Status != string(entity.SlotStatusBlocked) || blocked.BlockReason != "Cleaning" {
		t.Errorf("unexpected slot %+v", blocked)
	}

	rec, _ = srv.do(t, http.MethodPatch, path, dto.UpdateSlotStatusRequest{Status: "blocked"})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 when already blocked, got %d", rec.Code)
	}

	rec, _ = srv.do(t, http.MethodPatch, "/slots/not-a-uuid", dto.UpdateSlotStatusRequest{Status: "blocked"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestGetSlot_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/slots/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound || env.Success {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestListSlots_Filters(t *testing.T) {
	srv := newTestServer(t)
	doctor := srv.newDoctor(t)
	srv.do(t, http.MethodPut, "/doctors/"+doctor.ID.String()+"/weekly-template/1", dto.WeeklyTemplateDayRequest{
		Ranges: []entity.TimeRange{{Start: "09:00", End: "13:00"}},
	})

	rec, env := srv.do(t, http.MethodGet, "/slots?doctor_id="+doctor.ID.String()+"&date=2026-10-19&status=available", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var list dto.SlotListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Total != 8 {
		t.Errorf("expected 8 slots, got %d", list.Total)
	}

	rec, _ = srv.do(t, http.MethodGet, "/slots?date=19-10-2026", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", rec.Code)
	}
}

func TestRegenerate_Handler(t *testing.T) {
	srv := newTestServer(t)
	doctor := srv.newDoctor(t)

	rec, env := srv.do(t, http.MethodPost, "/doctors/"+doctor.ID.String()+"/slots/regenerate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result dto.RegenerationResponse
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DoctorID != doctor.ID || result.Count != 0 {
		t.Errorf("unexpected result %+v", result)
	}

	rec, _ = srv.do(t, http.MethodPost, "/doctors/"+uuid.NewString()+"/slots/regenerate", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
