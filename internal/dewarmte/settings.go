package dewarmte

import (
	"encoding/json"
	"fmt"
)

// Known cooling setting values. The vendor API rejects inconsistent
// thermostat-type/control-mode combinations; see applyCoolingInvariants.
const (
	CoolingThermostatHeatingOnly       = "heating_only"
	CoolingThermostatHeatingAndCooling = "heating_and_cooling"

	CoolingControlThermostat  = "thermostat"
	CoolingControlCoolingOnly = "cooling_only"
	CoolingControlHeatingOnly = "heating_only"
)

// Warm-water temperature limits and presets in degrees Celsius.
const (
	MinWarmWaterTemp     = 40.0
	MaxWarmWaterTemp     = 70.0
	DefaultWarmWaterTemp = 55.0
)

// WarmWaterPresets maps preset names to target temperatures.
var WarmWaterPresets = map[string]float64{
	"eco":     45.0,
	"comfort": 55.0,
	"boost":   65.0,
	"away":    40.0,
}

// AllDayPeriod is the range period meaning "the whole day".
const AllDayPeriod = "00:00-00:00"

// WarmWaterRange is one entry of a warm-water temperature schedule.
type WarmWaterRange struct {
	Order       int     `json:"order"`
	Temperature float64 `json:"temperature"`
	Period      string  `json:"period"` // "HH:MM-HH:MM"
}

// DeviceOperationSettings is the full flat record of every configurable
// field, as returned by GET /customer/products/{id}/settings/.
//
// It is fetched fresh before every update (the group endpoints are
// full-replace, not patch) and never held as shared mutable state: each
// call returns a new value.
type DeviceOperationSettings struct {
	// Heat curve
	HeatCurveMode               string  `json:"heat_curve_mode"`
	HeatingKind                 string  `json:"heating_kind"`
	HeatCurveS1OutsideTemp      float64 `json:"heat_curve_s1_outside_temp"`
	HeatCurveS1TargetTemp       float64 `json:"heat_curve_s1_target_temp"`
	HeatCurveS2OutsideTemp      float64 `json:"heat_curve_s2_outside_temp"`
	HeatCurveS2TargetTemp       float64 `json:"heat_curve_s2_target_temp"`
	HeatCurveFixedTemperature   float64 `json:"heat_curve_fixed_temperature"`
	HeatCurveUseSmartCorrection bool    `json:"heat_curve_use_smart_correction"`

	// Heating performance
	HeatingPerformanceMode              string  `json:"heating_performance_mode"`
	HeatingPerformanceBackupTemperature float64 `json:"heating_performance_backup_temperature"`

	// Backup heating
	BackupHeatingMode string `json:"backup_heating_mode"`

	// Sound
	SoundMode            string `json:"sound_mode"`
	SoundCompressorPower string `json:"sound_compressor_power"`
	SoundFanSpeed        string `json:"sound_fan_speed"`

	// Advanced
	AdvancedBoostModeControl bool   `json:"advanced_boost_mode_control"`
	AdvancedThermostatDelay  string `json:"advanced_thermostat_delay"`

	// Cooling
	CoolingThermostatType string  `json:"cooling_thermostat_type"`
	CoolingControlMode    string  `json:"cooling_control_mode"`
	CoolingTemperature    float64 `json:"cooling_temperature"`
	CoolingDuration       int     `json:"cooling_duration"`

	// Warm water
	WarmWaterIsScheduled bool             `json:"warm_water_is_scheduled"`
	WarmWaterRanges      []WarmWaterRange `json:"warm_water_ranges,omitempty"`

	// WarmWaterTargetTemperature flattens the range schedule into a single
	// setpoint for callers that do not care about scheduling: the first
	// range's temperature, or DefaultWarmWaterTemp when no ranges exist.
	WarmWaterTargetTemperature float64 `json:"-"`

	Version   int  `json:"version"`
	IsApplied bool `json:"is_applied"`
}

// ParseOperationSettings decodes a settings response body.
// heat_curve_fixed_temperature may be null on the wire; it is normalized
// to 0 so group payloads always carry a number.
func ParseOperationSettings(data []byte) (*DeviceOperationSettings, error) {
	type alias DeviceOperationSettings
	aux := struct {
		*alias
		HeatCurveFixedTemperature *float64 `json:"heat_curve_fixed_temperature"`
	}{}

	var settings DeviceOperationSettings
	aux.alias = (*alias)(&settings)
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, NewParseError("failed to parse operation settings", err)
	}
	if aux.HeatCurveFixedTemperature != nil {
		settings.HeatCurveFixedTemperature = *aux.HeatCurveFixedTemperature
	}

	settings.WarmWaterTargetTemperature = DefaultWarmWaterTemp
	if len(settings.WarmWaterRanges) > 0 {
		settings.WarmWaterTargetTemperature = settings.WarmWaterRanges[0].Temperature
	}
	return &settings, nil
}

// settingsPath returns the full-settings endpoint for a device.
func settingsPath(deviceID string) string {
	return fmt.Sprintf("/customer/products/%s/settings/", deviceID)
}

// settingsGroupPath returns the endpoint for one settings group.
func settingsGroupPath(deviceID, endpoint string) string {
	return fmt.Sprintf("/customer/products/%s/settings/%s/", deviceID, endpoint)
}

// OperationSettings fetches the device's current settings.
func (c *Client) OperationSettings(device Device) (*DeviceOperationSettings, error) {
	data, err := c.do("GET", settingsPath(device.DeviceID), nil)
	if err != nil {
		return nil, err
	}
	return ParseOperationSettings(data)
}
