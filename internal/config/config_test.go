package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_Drivers(t *testing.T) {
	tests := []struct {
		name    string
		storage StorageConfig
		wantErr bool
	}{
		{"memory", StorageConfig{Driver: DriverMemory}, false},
		{"sqlite with dsn", StorageConfig{Driver: DriverSQLite, DSN: "file:speeches.db"}, false},
		{"sqlite without dsn", StorageConfig{Driver: DriverSQLite}, true},
		{"postgres without dsn", StorageConfig{Driver: DriverPostgres}, true},
		{"redis with addrs", StorageConfig{Driver: DriverRedis, Addrs: []string{"localhost:6379"}}, false},
		{"redis without addrs", StorageConfig{Driver: DriverRedis}, true},
		{"elasticsearch without addrs", StorageConfig{Driver: DriverElasticsearch}, true},
		{"unknown", StorageConfig{Driver: "mongo"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{HTTP: HTTPConfig{Port: 8080}, Storage: tc.storage}
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 0},
		Storage: StorageConfig{Driver: DriverMemory},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_EventsRequireBrokers(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Storage: StorageConfig{Driver: DriverMemory},
		Events:  EventsConfig{Enabled: true},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing brokers")
	}

	expected := "events.brokers is required when events are enabled"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("expected Driver=memory, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Storage.ReadinessTimeout)
	}
	if cfg.Storage.KeyPrefix != "speeches:" {
		t.Errorf("expected KeyPrefix='speeches:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Storage.Index != "speeches" {
		t.Errorf("expected Index='speeches', got %q", cfg.Storage.Index)
	}
	if cfg.Events.Topic != "speeches.events" {
		t.Errorf("expected Topic='speeches.events', got %q", cfg.Events.Topic)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Storage: StorageConfig{Driver: DriverRedis, ReadinessTimeout: 15, KeyPrefix: "custom:"},
		Events:  EventsConfig{Topic: "audit"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Storage.Driver != DriverRedis {
		t.Errorf("expected Driver=redis, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Events.Topic != "audit" {
		t.Errorf("expected Topic='audit', got %q", cfg.Events.Topic)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SPEECHES_TEST_HOST", "db.internal")

	got := string(expandEnvVars([]byte("a: ${SPEECHES_TEST_HOST}\nb: ${SPEECHES_TEST_UNSET:-fallback}\nc: ${SPEECHES_TEST_UNSET}")))
	want := "a: db.internal\nb: fallback\nc: "
	if got != want {
		t.Errorf("expandEnvVars() = %q, want %q", got, want)
	}
}

func TestLoad_FromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yml := `
http:
  port: ${SPEECHES_TEST_PORT:-9090}
storage:
  driver: sqlite
  dsn: "file:test.db"
events:
  enabled: false
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.DSN != "file:test.db" {
		t.Errorf("unexpected storage: %+v", cfg.Storage)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Logging.Level)
	}
}

func TestLoad_Missing(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
