package config

import "time"

// Registry represents the entire user configuration file.
// This stores client-side metadata only: device nicknames, bookkeeping and
// application preferences. Device state always comes from the cloud API.
type Registry struct {
	Version     int                `yaml:"version"`
	Account     *Account           `yaml:"account,omitempty"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device ID
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Account holds the DeWarmte account identity.
// The password is NEVER stored; it is taken from the environment or
// prompted interactively.
type Account struct {
	Email string `yaml:"email,omitempty"`
}

// Device represents user-defined metadata for a single heat-pump unit.
// This is keyed by the device's cloud ID in the Registry.
type Device struct {
	Nickname   string    `yaml:"nickname,omitempty"`    // User-friendly name
	ProductID  string    `yaml:"product_id,omitempty"`  // Vendor product code
	DeviceType string    `yaml:"device_type,omitempty"` // "AO", "PT" or "HC"
	LastSeen   time.Time `yaml:"last_seen,omitempty"`   // Last successful discovery/poll
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	PollInterval int `yaml:"poll_interval"` // Status poll interval in seconds
}

// DefaultPollInterval is the status poll interval in seconds when the user
// has not configured one. Telemetry moves slowly; five minutes tracks it
// without hammering the vendor API.
const DefaultPollInterval = 300

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			PollInterval: DefaultPollInterval,
		},
	}
}

// GetDevice retrieves device metadata by device ID.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(deviceID string) *Device {
	return r.Devices[deviceID]
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry with default values.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(deviceID string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[deviceID]; exists {
		return device
	}

	device := &Device{}
	r.Devices[deviceID] = device
	return device
}

// RecordDevice updates the bookkeeping for a discovered device.
func (r *Registry) RecordDevice(deviceID, productID, deviceType string) {
	device := r.EnsureDevice(deviceID)
	device.ProductID = productID
	device.DeviceType = deviceType
	device.LastSeen = time.Now()
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(deviceID, nickname string) {
	device := r.EnsureDevice(deviceID)
	device.Nickname = nickname
}

// SetAccountEmail records the account email for subsequent runs.
func (r *Registry) SetAccountEmail(email string) {
	if r.Account == nil {
		r.Account = &Account{}
	}
	r.Account.Email = email
}

// PollIntervalSeconds returns the configured poll interval, falling back
// to the default when preferences are missing or nonsensical.
func (r *Registry) PollIntervalSeconds() int {
	if r.Preferences == nil || r.Preferences.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return r.Preferences.PollInterval
}
