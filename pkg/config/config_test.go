package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "from individual fields",
			cfg: DatabaseConfig{
				Host:     "db.internal",
				Port:     5432,
				User:     "vetstock",
				Password: "secret",
				Database: "vetstock",
				SSLMode:  "require",
			},
			want: "host=db.internal port=5432 user=vetstock password=secret dbname=vetstock sslmode=require",
		},
		{
			name: "URL takes precedence over fields",
			cfg: DatabaseConfig{
				URL:      "postgres://app:pw@prod-db:5433/stock?sslmode=require",
				Host:     "ignored",
				Port:     5432,
				User:     "ignored",
				Password: "ignored",
				Database: "ignored",
				SSLMode:  "disable",
			},
			want: "host=prod-db port=5433 user=app password=pw dbname=stock sslmode=require",
		},
		{
			name: "invalid URL falls back to fields",
			cfg: DatabaseConfig{
				URL:      "mysql://nope",
				Host:     "localhost",
				Port:     5432,
				User:     "vetstock",
				Password: "devpassword",
				Database: "vetstock",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 user=vetstock password=devpassword dbname=vetstock sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDatabaseConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         DatabaseConfig
		environment string
		wantErr     bool
	}{
		{
			name:        "development allows empty config",
			cfg:         DatabaseConfig{},
			environment: EnvDevelopment,
			wantErr:     false,
		},
		{
			name:        "development allows localhost",
			cfg:         DatabaseConfig{Host: "localhost"},
			environment: EnvDevelopment,
			wantErr:     false,
		},
		{
			name:        "production requires URL or host",
			cfg:         DatabaseConfig{},
			environment: EnvProduction,
			wantErr:     true,
		},
		{
			name:        "production rejects localhost host",
			cfg:         DatabaseConfig{Host: "localhost"},
			environment: EnvProduction,
			wantErr:     true,
		},
		{
			name:        "production accepts explicit host",
			cfg:         DatabaseConfig{Host: "prod-db.internal"},
			environment: EnvProduction,
			wantErr:     false,
		},
		{
			name:        "production accepts URL",
			cfg:         DatabaseConfig{URL: "postgres://app:pw@prod-db:5432/vetstock"},
			environment: EnvProduction,
			wantErr:     false,
		},
		{
			name:        "staging rejects localhost host",
			cfg:         DatabaseConfig{Host: "localhost"},
			environment: EnvStaging,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.environment)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.environment, err, tt.wantErr)
			}
		})
	}
}

// clearVetstockEnv unsets all VETSTOCK_ environment variables and registers
// cleanup to restore the ones that were set.
func clearVetstockEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "VETSTOCK_") {
			key := strings.SplitN(kv, "=", 2)[0]
			val := os.Getenv(key)
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearVetstockEnv(t)

	cfg, err := Load("vetstock")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Environment != EnvDevelopment {
		t.Errorf("Server.Environment = %q, want %q", cfg.Server.Environment, EnvDevelopment)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want localhost", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Database.Database != "vetstock" {
		t.Errorf("Database.Database = %q, want vetstock", cfg.Database.Database)
	}
	if cfg.RabbitMQ.URL != "" {
		t.Errorf("RabbitMQ.URL = %q, want empty (broker disabled by default)", cfg.RabbitMQ.URL)
	}
	if cfg.Auth.AdminUsername != "admin" {
		t.Errorf("Auth.AdminUsername = %q, want admin", cfg.Auth.AdminUsername)
	}
	if cfg.Auth.SessionTTL != time.Hour {
		t.Errorf("Auth.SessionTTL = %v, want 1h", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.CookieName != "vetstock_session" {
		t.Errorf("Auth.CookieName = %q, want vetstock_session", cfg.Auth.CookieName)
	}
	if cfg.Auth.CookieSecure {
		t.Error("Auth.CookieSecure = true, want false in development defaults")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearVetstockEnv(t)
	t.Setenv("VETSTOCK_SERVER_PORT", "9090")
	t.Setenv("VETSTOCK_DATABASE_HOST", "db.example.com")
	t.Setenv("VETSTOCK_AUTH_ADMIN_USERNAME", "supervisor")

	cfg, err := Load("vetstock")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("Database.Host = %q, want db.example.com", cfg.Database.Host)
	}
	if cfg.Auth.AdminUsername != "supervisor" {
		t.Errorf("Auth.AdminUsername = %q, want supervisor", cfg.Auth.AdminUsername)
	}
}

func TestLoad_DatabaseURLOverridesFields(t *testing.T) {
	clearVetstockEnv(t)
	t.Setenv("VETSTOCK_DATABASE_URL", "postgres://app:pw@remote-db:5433/stock?sslmode=require")

	cfg, err := Load("vetstock")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := "host=remote-db port=5433 user=app password=pw dbname=stock sslmode=require"
	if got := cfg.Database.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestLoadWithValidation_Development(t *testing.T) {
	clearVetstockEnv(t)

	// Development defaults (localhost DB, dev session secret) are acceptable.
	if _, err := LoadWithValidation("vetstock"); err != nil {
		t.Fatalf("LoadWithValidation() error = %v", err)
	}
}

func TestLoadWithValidation_ProductionRequiresDatabase(t *testing.T) {
	clearVetstockEnv(t)
	t.Setenv("VETSTOCK_SERVER_ENVIRONMENT", EnvProduction)
	t.Setenv("VETSTOCK_AUTH_SESSION_SECRET", "a-real-production-secret")
	t.Setenv("VETSTOCK_AUTH_ADMIN_PASSWORD_HASH", "$2a$10$productionhashproductionhashproductionhashproduct")

	_, err := LoadWithValidation("vetstock")
	if err == nil {
		t.Fatal("LoadWithValidation() expected error for localhost database in production")
	}
	if !strings.Contains(err.Error(), "database") {
		t.Errorf("error = %v, want database configuration error", err)
	}
}

func TestLoadWithValidation_ProductionRequiresSessionSecret(t *testing.T) {
	clearVetstockEnv(t)
	t.Setenv("VETSTOCK_SERVER_ENVIRONMENT", EnvProduction)
	t.Setenv("VETSTOCK_DATABASE_HOST", "prod-db.internal")
	t.Setenv("VETSTOCK_AUTH_ADMIN_PASSWORD_HASH", "$2a$10$productionhashproductionhashproductionhashproduct")

	_, err := LoadWithValidation("vetstock")
	if err == nil {
		t.Fatal("LoadWithValidation() expected error for development session secret in production")
	}
	if !strings.Contains(err.Error(), "VETSTOCK_AUTH_SESSION_SECRET") {
		t.Errorf("error = %v, want session secret error", err)
	}
}

func TestLoadWithValidation_ProductionRequiresAdminHash(t *testing.T) {
	clearVetstockEnv(t)
	t.Setenv("VETSTOCK_SERVER_ENVIRONMENT", EnvProduction)
	t.Setenv("VETSTOCK_DATABASE_HOST", "prod-db.internal")
	t.Setenv("VETSTOCK_AUTH_SESSION_SECRET", "a-real-production-secret")

	_, err := LoadWithValidation("vetstock")
	if err == nil {
		t.Fatal("LoadWithValidation() expected error for default admin password hash in production")
	}
	if !strings.Contains(err.Error(), "VETSTOCK_AUTH_ADMIN_PASSWORD_HASH") {
		t.Errorf("error = %v, want admin password hash error", err)
	}
}

func TestLoadWithValidation_ProductionWithFullConfig(t *testing.T) {
	clearVetstockEnv(t)
	t.Setenv("VETSTOCK_SERVER_ENVIRONMENT", EnvProduction)
	t.Setenv("VETSTOCK_DATABASE_URL", "postgres://app:pw@prod-db:5432/vetstock?sslmode=require")
	t.Setenv("VETSTOCK_AUTH_SESSION_SECRET", "a-real-production-secret")
	t.Setenv("VETSTOCK_AUTH_ADMIN_PASSWORD_HASH", "$2a$10$productionhashproductionhashproductionhashproduct")

	cfg, err := LoadWithValidation("vetstock")
	if err != nil {
		t.Fatalf("LoadWithValidation() error = %v", err)
	}
	if cfg.Server.Environment != EnvProduction {
		t.Errorf("Server.Environment = %q, want %q", cfg.Server.Environment, EnvProduction)
	}
}
