package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LockDriverRedis = "redis"
	LockDriverLocal = "local"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Slot  SlotConfig
	Lock  LockConfig
}

type AppConfig struct {
	Port          string
	Env           string
	LogLevel      string
	StorageDriver string
	// CORSAllowedOrigins lists browser origins; "*" allows any.
	CORSAllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the libpq-style connection string used by gorm's postgres driver.
func (c DBConfig) DSN(timezone string) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, timezone,
	)
}

// URL builds the postgres:// URL used by golang-migrate.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

// Addr returns host:port for go-redis.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// SlotConfig drives slot materialization.
type SlotConfig struct {
	Timezone         string
	HorizonDays      int
	AllowedDurations []int
}

// Location resolves the clinic timezone.
func (c SlotConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type LockConfig struct {
	Driver string
	TTL    time.Duration
	Wait   time.Duration
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("REDIS_DIAL_TIMEOUT", "5s")

	viper.SetDefault("JWT_ACCESS_EXPIRY", "15m")

	viper.SetDefault("CLINIC_TIMEZONE", "UTC")
	viper.SetDefault("SLOT_HORIZON_DAYS", 60)
	viper.SetDefault("SLOT_ALLOWED_DURATIONS", "10,15,20,30,45,60")

	viper.SetDefault("LOCK_DRIVER", LockDriverRedis)
	viper.SetDefault("LOCK_TTL", "30s")
	viper.SetDefault("LOCK_WAIT", "5s")
}

// LoadConfig reads .env when present, then the environment. Environment values win.
func LoadConfig() (*Config, error) {
	setDefaults()
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	lockTTL, err := time.ParseDuration(viper.GetString("LOCK_TTL"))
	if err != nil {
		lockTTL = 30 * time.Second
	}

	lockWait, err := time.ParseDuration(viper.GetString("LOCK_WAIT"))
	if err != nil {
		lockWait = 5 * time.Second
	}

	redisDialTimeout, err := time.ParseDuration(viper.GetString("REDIS_DIAL_TIMEOUT"))
	if err != nil {
		redisDialTimeout = 5 * time.Second
	}

	durations, err := parseDurations(viper.GetString("SLOT_ALLOWED_DURATIONS"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port:               viper.GetString("APP_PORT"),
			Env:                viper.GetString("APP_ENV"),
			LogLevel:           viper.GetString("LOG_LEVEL"),
			StorageDriver:      viper.GetString("STORAGE_DRIVER"),
			CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:        viper.GetString("REDIS_HOST"),
			Port:        viper.GetString("REDIS_PORT"),
			Password:    viper.GetString("REDIS_PASSWORD"),
			DB:          viper.GetInt("REDIS_DB"),
			PoolSize:    viper.GetInt("REDIS_POOL_SIZE"),
			DialTimeout: redisDialTimeout,
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Slot: SlotConfig{
			Timezone:         viper.GetString("CLINIC_TIMEZONE"),
			HorizonDays:      viper.GetInt("SLOT_HORIZON_DAYS"),
			AllowedDurations: durations,
		},
		Lock: LockConfig{
			Driver: viper.GetString("LOCK_DRIVER"),
			TTL:    lockTTL,
			Wait:   lockWait,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch c.App.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.App.StorageDriver)
	}
	switch c.Lock.Driver {
	case LockDriverRedis, LockDriverLocal:
	default:
		return fmt.Errorf("config: unknown LOCK_DRIVER %q", c.Lock.Driver)
	}
	if c.Slot.HorizonDays <= 0 {
		return fmt.Errorf("config: SLOT_HORIZON_DAYS must be positive, got %d", c.Slot.HorizonDays)
	}
	if _, err := c.Slot.Location(); err != nil {
		return fmt.Errorf("config: CLINIC_TIMEZONE: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDurations(raw string) ([]int, error) {
	var durations []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config: SLOT_ALLOWED_DURATIONS has invalid value %q", part)
		}
		durations = append(durations, d)
	}
	if len(durations) == 0 {
		return nil, errors.New("config: SLOT_ALLOWED_DURATIONS is empty")
	}
	return durations, nil
}
