package http

import (
	"net/http"

	"clinic-slot-engine/internal/delivery/http/handler"
	"clinic-slot-engine/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	slotHandler        *handler.SlotHandler
	appointmentHandler *handler.AppointmentHandler
	doctorHandler      *handler.DoctorHandler
	scheduleHandler    *handler.ScheduleHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	slotHandler *handler.SlotHandler,
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	scheduleHandler *handler.ScheduleHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		slotHandler:        slotHandler,
		appointmentHandler: appointmentHandler,
		doctorHandler:      doctorHandler,
		scheduleHandler:    scheduleHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Slot browsing (public)
	api.HandleFunc("/slots", r.slotHandler.ListSlots).Methods(http.MethodGet)
	api.HandleFunc("/slots/{id}", r.slotHandler.GetSlot).Methods(http.MethodGet)

	// Appointments (any authenticated user)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPatch)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Doctor management
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPatch)

	// Schedule sources
	admin.HandleFunc("/doctors/{id}/weekly-template/{weekday}", r.scheduleHandler.SetWeeklyTemplateDay).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}/overrides/{date}", r.scheduleHandler.SetDateOverride).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}/overrides/{date}", r.scheduleHandler.DeleteDateOverride).Methods(http.MethodDelete)
	admin.HandleFunc("/doctors/{id}/adhoc-blocks", r.scheduleHandler.CreateAdHocBlock).Methods(http.MethodPost)
	admin.HandleFunc("/adhoc-blocks/{id}", r.scheduleHandler.DeleteAdHocBlock).Methods(http.MethodDelete)
	admin.HandleFunc("/doctors/{id}/leaves", r.scheduleHandler.CreateLeave).Methods(http.MethodPost)
	admin.HandleFunc("/leaves/{id}", r.scheduleHandler.DeleteLeave).Methods(http.MethodDelete)

	// Slot administration
	admin.HandleFunc("/doctors/{id}/slots/regenerate", r.slotHandler.Regenerate).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{id}", r.slotHandler.UpdateSlotStatus).Methods(http.MethodPatch)

	// Audit trail
	admin.HandleFunc("/audit-logs", r.auditLogHandler.ListAuditLogs).Methods(http.MethodGet)

	// Preflight requests need a matching route for the CORS middleware to run
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
