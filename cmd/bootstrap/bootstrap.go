package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-slot-engine/config"
	deliveryHttp "clinic-slot-engine/internal/delivery/http"
	"clinic-slot-engine/internal/delivery/http/handler"
	"clinic-slot-engine/internal/delivery/http/middleware"
	domainRepo "clinic-slot-engine/internal/domain/repository"
	"clinic-slot-engine/internal/infrastructure/cache"
	"clinic-slot-engine/internal/infrastructure/database"
	"clinic-slot-engine/internal/repository"
	"clinic-slot-engine/internal/repository/memory"
	"clinic-slot-engine/internal/service"
	"clinic-slot-engine/internal/usecase"
	"clinic-slot-engine/pkg/jwt"
	"clinic-slot-engine/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	JWTService   *jwt.JWTService
	Regeneration usecase.SlotRegenerationUsecase

	localLocker *service.LocalDoctorLocker
}

// Repositories groups the storage driver's implementations.
type Repositories struct {
	Tx          domainRepo.TxManager
	Doctor      domainRepo.DoctorRepository
	Schedule    domainRepo.ScheduleRepository
	Leave       domainRepo.LeaveRepository
	Slot        domainRepo.SlotRepository
	Appointment domainRepo.AppointmentRepository
	AuditLog    domainRepo.AuditLogRepository
}

// LoadConfig sets up the logger and reads configuration. Commands that only need
// config (migrate, token) stop here.
func LoadConfig() (*config.Config, *logrus.Logger, error) {
	log := logrus.StandardLogger()
	setupLogger(log, "info")

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(log, cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	return cfg, log, nil
}

// OpenDatabase connects to PostgreSQL using the configured clinic timezone.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewPostgresConnection(cfg.DB, cfg.Slot.Timezone, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	cfg, log, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log}

	var repos *Repositories
	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		repos = NewMemoryRepositories(memory.NewStore())
	default:
		db, err := OpenDatabase(cfg)
		if err != nil {
			return nil, err
		}
		app.DB = db
		log.Info("Database connected successfully")
		repos = NewPostgresRepositories(db)
	}

	needsRedis := cfg.Lock.Driver == config.LockDriverRedis
	if needsRedis {
		redisClient, err := cache.NewRedisClient(cfg.Redis, log)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		log.Info("Redis connected successfully")
	}

	location, err := cfg.Slot.Location()
	if err != nil {
		app.Close()
		return nil, err
	}
	horizon := usecase.NewHorizon(cfg.Slot.HorizonDays, location, time.Now)

	var locker service.DoctorLocker
	if app.RedisClient != nil {
		locker = service.NewRedisDoctorLocker(app.RedisClient, log, cfg.Lock.TTL, cfg.Lock.Wait)
	} else {
		app.localLocker = service.NewLocalDoctorLocker(log, cfg.Lock.Wait)
		locker = app.localLocker
	}

	app.JWTService = jwt.NewJWTService(cfg.JWT)
	app.Server, app.Regeneration = initializeServer(cfg, log, repos, locker, horizon, app.JWTService, app.RedisClient)

	return app, nil
}

// NewPostgresRepositories builds the gorm-backed repositories.
func NewPostgresRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tx:          repository.NewTxManager(db),
		Doctor:      repository.NewDoctorRepository(db),
		Schedule:    repository.NewScheduleRepository(db),
		Leave:       repository.NewLeaveRepository(db),
		Slot:        repository.NewSlotRepository(db),
		Appointment: repository.NewAppointmentRepository(db),
		AuditLog:    repository.NewAuditLogRepository(db),
	}
}

// NewMemoryRepositories builds the in-process repositories over one store.
func NewMemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Tx:          memory.NewTxManager(store),
		Doctor:      memory.NewDoctorRepository(store),
		Schedule:    memory.NewScheduleRepository(store),
		Leave:       memory.NewLeaveRepository(store),
		Slot:        memory.NewSlotRepository(store),
		Appointment: memory.NewAppointmentRepository(store),
		AuditLog:    memory.NewAuditLogRepository(store),
	}
}

// setupLogger configures the logrus logger
func setupLogger(log *logrus.Logger, level string) {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	repos *Repositories,
	locker service.DoctorLocker,
	horizon usecase.Horizon,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) (*http.Server, usecase.SlotRegenerationUsecase) {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize services
	auditService := service.NewAuditService(log, repos.AuditLog)

	// Initialize usecases
	regenerationUsecase := usecase.NewSlotRegenerationUsecase(repos.Tx, log, repos.Doctor, repos.Schedule, repos.Leave, repos.Slot, locker, auditService, horizon)
	bookingUsecase := usecase.NewBookingUsecase(repos.Tx, log, repos.Slot, repos.Appointment, auditService, horizon)
	slotUsecase := usecase.NewSlotUsecase(log, repos.Slot, bookingUsecase)
	scheduleUsecase := usecase.NewScheduleUsecase(repos.Tx, log, repos.Doctor, repos.Schedule, repos.Leave, auditService, regenerationUsecase, cfg.Slot.AllowedDurations)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, repos.AuditLog)

	// Initialize handlers
	slotHandler := handler.NewSlotHandler(slotUsecase, regenerationUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(scheduleUsecase, customValidator)
	scheduleHandler := handler.NewScheduleHandler(scheduleUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(slotHandler, appointmentHandler, doctorHandler, scheduleHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, regenerationUsecase
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s, storage: %s, lock: %s", app.Config.App.Env, app.Config.App.StorageDriver, app.Config.Lock.Driver)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	return app.waitForShutdown(errCh)
}

// waitForShutdown blocks until an interrupt signal is received or the server fails
func (app *App) waitForShutdown(errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-errCh:
		app.Log.Errorf("Server failed: %v", runErr)
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return runErr
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.localLocker != nil {
		app.localLocker.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
