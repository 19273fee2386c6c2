package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() without JWT_SECRET should fail")
	}
}

func TestLoad_RequiresDBPassword(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	defer os.Clearenv()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() without DB_PASSWORD should fail")
	}
}

func TestLoad_LockoutDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.FailureThreshold != 3 {
		t.Errorf("FailureThreshold: got %d, want 3", cfg.Auth.FailureThreshold)
	}
	if cfg.Auth.LockWindow != 120*time.Second {
		t.Errorf("LockWindow: got %v, want 120s", cfg.Auth.LockWindow)
	}
	if cfg.Auth.SystemTokenExpiry != 1*time.Hour {
		t.Errorf("SystemTokenExpiry: got %v, want 1h", cfg.Auth.SystemTokenExpiry)
	}
}

func TestLoad_LockoutCustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("LOGIN_FAILURE_THRESHOLD", "5")
	os.Setenv("LOGIN_LOCK_WINDOW", "5m")
	os.Setenv("SYSTEM_TOKEN_EXPIRY", "30m")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.FailureThreshold != 5 {
		t.Errorf("FailureThreshold: got %d, want 5", cfg.Auth.FailureThreshold)
	}
	if cfg.Auth.LockWindow != 5*time.Minute {
		t.Errorf("LockWindow: got %v, want 5m", cfg.Auth.LockWindow)
	}
	if cfg.Auth.SystemTokenExpiry != 30*time.Minute {
		t.Errorf("SystemTokenExpiry: got %v, want 30m", cfg.Auth.SystemTokenExpiry)
	}
}

func TestLoad_RejectsZeroThreshold(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("LOGIN_FAILURE_THRESHOLD", "0")
	defer os.Clearenv()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() with zero threshold should fail")
	}
}

func TestLoad_RejectsWeakJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "short")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() with short JWT_SECRET should fail")
	}
}

func TestLoad_ProductionRequiresLongerSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "only-sixteen-chr")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("ENV", "production")
	defer os.Clearenv()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() with 16-char secret in production should fail")
	}
}
