package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseDurations(t *testing.T) {
	got, err := parseDurations(" 15, 30 ,60,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{15, 30, 60}) {
		t.Errorf("unexpected durations %v", got)
	}

	for _, raw := range []string{"", "15,abc", "0", "-5"} {
		if _, err := parseDurations(raw); err == nil {
			t.Errorf("%q: expected error", raw)
		}
	}
}

func validConfig() *Config {
	return &Config{
		App:  AppConfig{StorageDriver: StorageDriverMemory},
		Slot: SlotConfig{Timezone: "UTC", HorizonDays: 60, AllowedDurations: []int{30}},
		Lock: LockConfig{Driver: LockDriverLocal},
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"storage driver", func(c *Config) { c.App.StorageDriver = "sqlite" }, "STORAGE_DRIVER"},
		{"lock driver", func(c *Config) { c.Lock.Driver = "etcd" }, "LOCK_DRIVER"},
		{"horizon", func(c *Config) { c.Slot.HorizonDays = 0 }, "SLOT_HORIZON_DAYS"},
		{"timezone", func(c *Config) { c.Slot.Timezone = "Mars/Olympus" }, "CLINIC_TIMEZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestDBConfig_URL(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "clinic", Password: "secret", Name: "slots", SSLMode: "disable"}
	if got := c.URL(); got != "postgres://clinic:secret@db:5432/slots?sslmode=disable" {
		t.Errorf("unexpected url %s", got)
	}
	if !strings.Contains(c.DSN("UTC"), "TimeZone=UTC") {
		t.Errorf("dsn missing timezone: %s", c.DSN("UTC"))
	}
}
