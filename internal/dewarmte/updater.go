package dewarmte

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ronald-willems/godewarmte/internal/logging"
)

// Typed group payloads. Each struct carries every key of its group so that
// "the full group is submitted as a unit" is a structural property of the
// payload rather than a runtime convention.

type heatCurvePayload struct {
	HeatCurveMode               string  `json:"heat_curve_mode"`
	HeatingKind                 string  `json:"heating_kind"`
	HeatCurveS1OutsideTemp      float64 `json:"heat_curve_s1_outside_temp"`
	HeatCurveS1TargetTemp       float64 `json:"heat_curve_s1_target_temp"`
	HeatCurveS2OutsideTemp      float64 `json:"heat_curve_s2_outside_temp"`
	HeatCurveS2TargetTemp       float64 `json:"heat_curve_s2_target_temp"`
	HeatCurveFixedTemperature   float64 `json:"heat_curve_fixed_temperature"`
	HeatCurveUseSmartCorrection bool    `json:"heat_curve_use_smart_correction"`
}

type heatingPerformancePayload struct {
	HeatingPerformanceMode              string  `json:"heating_performance_mode"`
	HeatingPerformanceBackupTemperature float64 `json:"heating_performance_backup_temperature"`
}

type backupHeatingPayload struct {
	BackupHeatingMode string `json:"backup_heating_mode"`
}

type soundPayload struct {
	SoundMode            string `json:"sound_mode"`
	SoundCompressorPower string `json:"sound_compressor_power"`
	SoundFanSpeed        string `json:"sound_fan_speed"`
}

type advancedPayload struct {
	AdvancedBoostModeControl bool   `json:"advanced_boost_mode_control"`
	AdvancedThermostatDelay  string `json:"advanced_thermostat_delay"`
}

type coolingPayload struct {
	CoolingThermostatType string  `json:"cooling_thermostat_type"`
	CoolingControlMode    string  `json:"cooling_control_mode"`
	CoolingTemperature    float64 `json:"cooling_temperature"`
	CoolingDuration       int     `json:"cooling_duration"`
}

type warmWaterPayload struct {
	WarmWaterIsScheduled bool             `json:"warm_water_is_scheduled"`
	WarmWaterRanges      []WarmWaterRange `json:"warm_water_ranges"`
}

// UpdateSetting changes one setting on a device via the read-modify-write
// group protocol:
//
//  1. Resolve the key's settings group; an unknown key is an error, never a
//     silent no-op.
//  2. Fetch the current settings (the group endpoints are full-replace).
//  3. Build the group payload from the current values, overwriting only the
//     requested key, and apply the group's domain invariants.
//  4. POST the payload to the group endpoint.
//  5. Re-fetch and return the settings so the caller observes post-write
//     server state (the server may normalize values).
//
// Steps 2-5 are serialized per device: without the lock, two concurrent
// updates to the same device would race on the full-group write and the
// later writer would silently revert the earlier one's sibling fields.
func (c *Client) UpdateSetting(device Device, key string, value any) (*DeviceOperationSettings, error) {
	group, ok := GroupForKey(key)
	if !ok {
		return nil, NewUnknownSettingError(key)
	}

	unlock := c.lockDevice(device.DeviceID)
	defer unlock()

	current, err := c.OperationSettings(device)
	if err != nil {
		return nil, fmt.Errorf("reading current settings: %w", err)
	}

	payload, err := buildGroupPayload(group, current, key, value)
	if err != nil {
		return nil, err
	}

	logging.Debug("submitting settings group",
		zap.String("device_id", device.DeviceID),
		zap.String("group", group.Name),
		zap.String("key", key),
	)

	if _, err := c.do(http.MethodPost, settingsGroupPath(device.DeviceID, group.Endpoint), payload); err != nil {
		return nil, fmt.Errorf("updating %s settings: %w", group.Name, err)
	}

	return c.OperationSettings(device)
}

// UpdateWarmWaterSchedule replaces the warm-water temperature schedule.
// The vendor requires at least two ranges in scheduled mode; orders are
// renumbered sequentially before submission.
func (c *Client) UpdateWarmWaterSchedule(device Device, ranges []WarmWaterRange) (*DeviceOperationSettings, error) {
	if len(ranges) < 2 {
		return nil, NewValidationError("a warm-water schedule needs at least two ranges")
	}
	for _, r := range ranges {
		if err := validateWarmWaterTemp(r.Temperature); err != nil {
			return nil, err
		}
	}

	unlock := c.lockDevice(device.DeviceID)
	defer unlock()

	payload := warmWaterPayload{
		WarmWaterIsScheduled: true,
		WarmWaterRanges:      renumberRanges(ranges),
	}
	if _, err := c.do(http.MethodPost, settingsGroupPath(device.DeviceID, "warm-water"), payload); err != nil {
		return nil, fmt.Errorf("updating warm_water settings: %w", err)
	}

	return c.OperationSettings(device)
}

// buildGroupPayload builds the full-group payload from the current
// settings, applies the requested key and the group's invariants.
func buildGroupPayload(group *SettingsGroup, current *DeviceOperationSettings, key string, value any) (any, error) {
	switch group.Name {
	case GroupHeatCurve:
		p := heatCurvePayload{
			HeatCurveMode:               current.HeatCurveMode,
			HeatingKind:                 current.HeatingKind,
			HeatCurveS1OutsideTemp:      current.HeatCurveS1OutsideTemp,
			HeatCurveS1TargetTemp:       current.HeatCurveS1TargetTemp,
			HeatCurveS2OutsideTemp:      current.HeatCurveS2OutsideTemp,
			HeatCurveS2TargetTemp:       current.HeatCurveS2TargetTemp,
			HeatCurveFixedTemperature:   current.HeatCurveFixedTemperature,
			HeatCurveUseSmartCorrection: current.HeatCurveUseSmartCorrection,
		}
		var err error
		switch key {
		case "heat_curve_mode":
			p.HeatCurveMode, err = asString(key, value)
		case "heating_kind":
			p.HeatingKind, err = asString(key, value)
		case "heat_curve_s1_outside_temp":
			p.HeatCurveS1OutsideTemp, err = asFloat(key, value)
		case "heat_curve_s1_target_temp":
			p.HeatCurveS1TargetTemp, err = asFloat(key, value)
		case "heat_curve_s2_outside_temp":
			p.HeatCurveS2OutsideTemp, err = asFloat(key, value)
		case "heat_curve_s2_target_temp":
			p.HeatCurveS2TargetTemp, err = asFloat(key, value)
		case "heat_curve_fixed_temperature":
			p.HeatCurveFixedTemperature, err = asFloat(key, value)
		case "heat_curve_use_smart_correction":
			p.HeatCurveUseSmartCorrection, err = asBool(key, value)
		}
		return p, err

	case GroupHeatingPerformance:
		p := heatingPerformancePayload{
			HeatingPerformanceMode:              current.HeatingPerformanceMode,
			HeatingPerformanceBackupTemperature: current.HeatingPerformanceBackupTemperature,
		}
		var err error
		switch key {
		case "heating_performance_mode":
			p.HeatingPerformanceMode, err = asString(key, value)
		case "heating_performance_backup_temperature":
			p.HeatingPerformanceBackupTemperature, err = asFloat(key, value)
		}
		return p, err

	case GroupBackupHeating:
		mode, err := asString(key, value)
		return backupHeatingPayload{BackupHeatingMode: mode}, err

	case GroupSound:
		p := soundPayload{
			SoundMode:            current.SoundMode,
			SoundCompressorPower: current.SoundCompressorPower,
			SoundFanSpeed:        current.SoundFanSpeed,
		}
		var err error
		switch key {
		case "sound_mode":
			p.SoundMode, err = asString(key, value)
		case "sound_compressor_power":
			p.SoundCompressorPower, err = asString(key, value)
		case "sound_fan_speed":
			p.SoundFanSpeed, err = asString(key, value)
		}
		return p, err

	case GroupAdvanced:
		p := advancedPayload{
			AdvancedBoostModeControl: current.AdvancedBoostModeControl,
			AdvancedThermostatDelay:  current.AdvancedThermostatDelay,
		}
		var err error
		switch key {
		case "advanced_boost_mode_control":
			p.AdvancedBoostModeControl, err = asBool(key, value)
		case "advanced_thermostat_delay":
			p.AdvancedThermostatDelay, err = asString(key, value)
		}
		return p, err

	case GroupCooling:
		p := coolingPayload{
			CoolingThermostatType: current.CoolingThermostatType,
			CoolingControlMode:    current.CoolingControlMode,
			CoolingTemperature:    current.CoolingTemperature,
			CoolingDuration:       current.CoolingDuration,
		}
		var err error
		switch key {
		case "cooling_thermostat_type":
			p.CoolingThermostatType, err = asString(key, value)
		case "cooling_control_mode":
			p.CoolingControlMode, err = asString(key, value)
		case "cooling_temperature":
			p.CoolingTemperature, err = asFloat(key, value)
		case "cooling_duration":
			p.CoolingDuration, err = asInt(key, value)
		}
		if err != nil {
			return nil, err
		}
		applyCoolingInvariants(&p)
		return p, nil

	case GroupWarmWater:
		return buildWarmWaterPayload(current, key, value)
	}

	// Unreachable while the group table and this switch stay in sync.
	return nil, NewUnknownSettingError(key)
}

// applyCoolingInvariants mirrors the vendor's validation of thermostat
// type vs. control mode, so callers get a corrected submission instead of
// a late 4xx:
//   - a heating-only thermostat cannot run in thermostat mode
//   - a heating-and-cooling thermostat cannot be pinned to a single mode
func applyCoolingInvariants(p *coolingPayload) {
	switch p.CoolingThermostatType {
	case CoolingThermostatHeatingOnly:
		if p.CoolingControlMode == CoolingControlThermostat {
			p.CoolingControlMode = CoolingControlHeatingOnly
		}
	case CoolingThermostatHeatingAndCooling:
		if p.CoolingControlMode == CoolingControlCoolingOnly || p.CoolingControlMode == CoolingControlHeatingOnly {
			p.CoolingControlMode = CoolingControlThermostat
		}
	}
}

// buildWarmWaterPayload handles the warm-water group's two entry points.
//
// The flattened target-temperature convenience key maps a single-setpoint
// concept onto the vendor's range-schedule model: it disables scheduling
// and replaces any existing schedule with one all-day range.
func buildWarmWaterPayload(current *DeviceOperationSettings, key string, value any) (any, error) {
	switch key {
	case "warm_water_target_temperature":
		temp, err := asFloat(key, value)
		if err != nil {
			return nil, err
		}
		if err := validateWarmWaterTemp(temp); err != nil {
			return nil, err
		}
		return warmWaterPayload{
			WarmWaterIsScheduled: false,
			WarmWaterRanges: []WarmWaterRange{
				{Order: 0, Temperature: temp, Period: AllDayPeriod},
			},
		}, nil

	case "warm_water_is_scheduled":
		scheduled, err := asBool(key, value)
		if err != nil {
			return nil, err
		}
		if !scheduled {
			return warmWaterPayload{
				WarmWaterIsScheduled: false,
				WarmWaterRanges: []WarmWaterRange{
					{Order: 0, Temperature: current.WarmWaterTargetTemperature, Period: AllDayPeriod},
				},
			}, nil
		}
		ranges := current.WarmWaterRanges
		if len(ranges) < 2 {
			ranges = defaultSchedule(current.WarmWaterTargetTemperature)
		}
		return warmWaterPayload{
			WarmWaterIsScheduled: true,
			WarmWaterRanges:      renumberRanges(ranges),
		}, nil
	}

	return nil, NewUnknownSettingError(key)
}

// defaultSchedule builds the minimal two-range schedule the vendor
// accepts: daytime at the given setpoint, nighttime 10 degrees lower.
func defaultSchedule(dayTemp float64) []WarmWaterRange {
	nightTemp := dayTemp - 10
	if nightTemp < MinWarmWaterTemp {
		nightTemp = MinWarmWaterTemp
	}
	return []WarmWaterRange{
		{Order: 0, Temperature: dayTemp, Period: "06:00-22:00"},
		{Order: 1, Temperature: nightTemp, Period: "22:00-06:00"},
	}
}

func renumberRanges(ranges []WarmWaterRange) []WarmWaterRange {
	out := make([]WarmWaterRange, len(ranges))
	for i, r := range ranges {
		r.Order = i
		out[i] = r
	}
	return out
}

func validateWarmWaterTemp(temp float64) error {
	if temp < MinWarmWaterTemp || temp > MaxWarmWaterTemp {
		return NewValidationError(fmt.Sprintf(
			"warm water temperature must be %.0f-%.0f°C, got %.1f", MinWarmWaterTemp, MaxWarmWaterTemp, temp))
	}
	return nil
}

// Value coercion for UpdateSetting's any-typed value. String forms are
// accepted so CLI arguments can be passed through unconverted.

func asString(key string, value any) (string, error) {
	switch t := value.(type) {
	case string:
		return t, nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", NewValidationError(fmt.Sprintf("%s wants a string value, got %T", key, value))
	}
}

func asFloat(key string, value any) (float64, error) {
	switch t := value.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, NewValidationError(fmt.Sprintf("%s wants a number, got %q", key, t))
		}
		return f, nil
	default:
		return 0, NewValidationError(fmt.Sprintf("%s wants a number, got %T", key, value))
	}
}

func asInt(key string, value any) (int, error) {
	switch t := value.(type) {
	case int:
		return t, nil
	case float64:
		return int(t), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, NewValidationError(fmt.Sprintf("%s wants an integer, got %q", key, t))
		}
		return i, nil
	default:
		return 0, NewValidationError(fmt.Sprintf("%s wants an integer, got %T", key, value))
	}
}

func asBool(key string, value any) (bool, error) {
	switch t := value.(type) {
	case bool:
		return t, nil
	case string:
		b, err := coerceBool(t)
		if err != nil {
			return false, NewValidationError(fmt.Sprintf("%s wants a boolean, got %q", key, t))
		}
		return b, nil
	default:
		return false, NewValidationError(fmt.Sprintf("%s wants a boolean, got %T", key, value))
	}
}
