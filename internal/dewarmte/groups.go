package dewarmte

import (
	"sort"

	"github.com/samber/lo"
)

// SettingsGroup is a server-side unit of configuration. The vendor's group
// endpoints are full-replace, not patch: every key of a group must be
// submitted together, or the omitted siblings reset to empty defaults.
type SettingsGroup struct {
	Name     string
	Endpoint string
	Keys     []string
}

// Group names.
const (
	GroupHeatCurve          = "heat_curve"
	GroupHeatingPerformance = "heating_performance"
	GroupBackupHeating      = "backup_heating"
	GroupSound              = "sound"
	GroupAdvanced           = "advanced"
	GroupCooling            = "cooling"
	GroupWarmWater          = "warm_water"
)

// settingsGroups is the static group table. Every updatable key belongs to
// exactly one group.
var settingsGroups = []SettingsGroup{
	{
		Name:     GroupHeatCurve,
		Endpoint: "heat-curve",
		Keys: []string{
			"heat_curve_mode",
			"heating_kind",
			"heat_curve_s1_outside_temp",
			"heat_curve_s1_target_temp",
			"heat_curve_s2_outside_temp",
			"heat_curve_s2_target_temp",
			"heat_curve_fixed_temperature",
			"heat_curve_use_smart_correction",
		},
	},
	{
		Name:     GroupHeatingPerformance,
		Endpoint: "heating-performance",
		Keys: []string{
			"heating_performance_mode",
			"heating_performance_backup_temperature",
		},
	},
	{
		Name:     GroupBackupHeating,
		Endpoint: "backup-heating",
		Keys: []string{
			"backup_heating_mode",
		},
	},
	{
		Name:     GroupSound,
		Endpoint: "sound",
		Keys: []string{
			"sound_mode",
			"sound_compressor_power",
			"sound_fan_speed",
		},
	},
	{
		Name:     GroupAdvanced,
		Endpoint: "advanced",
		Keys: []string{
			"advanced_boost_mode_control",
			"advanced_thermostat_delay",
		},
	},
	{
		Name:     GroupCooling,
		Endpoint: "cooling",
		Keys: []string{
			"cooling_thermostat_type",
			"cooling_control_mode",
			"cooling_temperature",
			"cooling_duration",
		},
	},
	{
		Name:     GroupWarmWater,
		Endpoint: "warm-water",
		Keys: []string{
			"warm_water_is_scheduled",
			"warm_water_target_temperature",
		},
	},
}

// groupByKey is the key -> group lookup, built once at startup.
var groupByKey = buildGroupIndex()

func buildGroupIndex() map[string]*SettingsGroup {
	index := make(map[string]*SettingsGroup)
	for i := range settingsGroups {
		group := &settingsGroups[i]
		for _, key := range group.Keys {
			index[key] = group
		}
	}
	return index
}

// GroupForKey returns the settings group a key must be submitted with.
func GroupForKey(key string) (*SettingsGroup, bool) {
	group, ok := groupByKey[key]
	return group, ok
}

// SettableKeys returns every updatable setting key, sorted.
func SettableKeys() []string {
	keys := lo.Keys(groupByKey)
	sort.Strings(keys)
	return keys
}
