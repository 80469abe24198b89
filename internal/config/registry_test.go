package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}
	if !strings.Contains(configDir, appName) {
		t.Errorf("GetConfigDir() = %v, should contain %q", configDir, appName)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.PollInterval != DefaultPollInterval {
		t.Errorf("NewRegistry().Preferences.PollInterval = %v, want %v",
			reg.Preferences.PollInterval, DefaultPollInterval)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	device := reg.EnsureDevice("dev-1")
	if device == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	// Same ID returns the same entry
	again := reg.EnsureDevice("dev-1")
	if device != again {
		t.Error("EnsureDevice() should return the existing entry")
	}

	// Works on a zero-value registry too
	var bare Registry
	if bare.EnsureDevice("dev-2") == nil {
		t.Error("EnsureDevice() on a zero-value registry returned nil")
	}
}

func TestRegistryRecordDevice(t *testing.T) {
	reg := NewRegistry()
	before := time.Now()

	reg.RecordDevice("dev-1", "ao-123", "PT")

	device := reg.GetDevice("dev-1")
	if device == nil {
		t.Fatal("GetDevice() returned nil after RecordDevice")
	}
	if device.ProductID != "ao-123" {
		t.Errorf("ProductID = %q, want ao-123", device.ProductID)
	}
	if device.DeviceType != "PT" {
		t.Errorf("DeviceType = %q, want PT", device.DeviceType)
	}
	if device.LastSeen.Before(before) {
		t.Error("LastSeen was not updated")
	}
}

func TestRegistrySetDeviceNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetDeviceNickname("dev-1", "Garage pump")

	if reg.GetDevice("dev-1").Nickname != "Garage pump" {
		t.Errorf("Nickname = %q, want 'Garage pump'", reg.GetDevice("dev-1").Nickname)
	}
}

func TestRegistrySetAccountEmail(t *testing.T) {
	reg := NewRegistry()

	reg.SetAccountEmail("user@example.com")
	if reg.Account == nil || reg.Account.Email != "user@example.com" {
		t.Errorf("Account = %+v, want email set", reg.Account)
	}

	reg.SetAccountEmail("other@example.com")
	if reg.Account.Email != "other@example.com" {
		t.Errorf("Email = %q after overwrite, want other@example.com", reg.Account.Email)
	}
}

func TestRegistryPollIntervalSeconds(t *testing.T) {
	reg := NewRegistry()
	if reg.PollIntervalSeconds() != DefaultPollInterval {
		t.Errorf("PollIntervalSeconds() = %d, want default", reg.PollIntervalSeconds())
	}

	reg.Preferences.PollInterval = 60
	if reg.PollIntervalSeconds() != 60 {
		t.Errorf("PollIntervalSeconds() = %d, want 60", reg.PollIntervalSeconds())
	}

	// Nonsense values fall back to the default
	reg.Preferences.PollInterval = -5
	if reg.PollIntervalSeconds() != DefaultPollInterval {
		t.Errorf("PollIntervalSeconds() = %d for negative value, want default", reg.PollIntervalSeconds())
	}
	reg.Preferences = nil
	if reg.PollIntervalSeconds() != DefaultPollInterval {
		t.Errorf("PollIntervalSeconds() = %d for nil preferences, want default", reg.PollIntervalSeconds())
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("config dir override uses XDG_CONFIG_HOME")
	}
	// Redirect the config dir to a scratch location
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	reg := NewRegistry()
	reg.SetAccountEmail("user@example.com")
	reg.RecordDevice("dev-1", "ao-123", "AO")
	reg.SetDeviceNickname("dev-1", "Garage pump")
	reg.Preferences.PollInterval = 120

	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("loadRegistryFromDisk() error = %v", err)
	}

	if loaded.Account == nil || loaded.Account.Email != "user@example.com" {
		t.Errorf("loaded Account = %+v, want email preserved", loaded.Account)
	}
	device := loaded.GetDevice("dev-1")
	if device == nil {
		t.Fatal("loaded registry lost the device entry")
	}
	if device.Nickname != "Garage pump" || device.ProductID != "ao-123" {
		t.Errorf("loaded device = %+v", device)
	}
	if loaded.PollIntervalSeconds() != 120 {
		t.Errorf("loaded PollInterval = %d, want 120", loaded.PollIntervalSeconds())
	}

	// The saved file must never contain a password field
	path, _ := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if strings.Contains(strings.ToLower(string(data)), "password:") {
		t.Error("saved config contains a password field")
	}
}

func TestLoadRegistryFromDisk_Missing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("config dir override uses XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	reg, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("loadRegistryFromDisk() error = %v for missing file", err)
	}
	if reg.Version != 1 {
		t.Errorf("missing file should yield a default registry, got version %d", reg.Version)
	}
}

func TestLoadRegistryFromDisk_BadVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("config dir override uses XDG_CONFIG_HOME")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, configFile), []byte("version: 9\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadRegistryFromDisk(); err == nil {
		t.Error("loadRegistryFromDisk() error = nil for unsupported version, want error")
	}
}
