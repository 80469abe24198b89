package dewarmte

import (
	"sort"
	"testing"
)

func TestEveryKeyBelongsToExactlyOneGroup(t *testing.T) {
	seen := make(map[string]string)
	for _, group := range settingsGroups {
		for _, key := range group.Keys {
			if prev, dup := seen[key]; dup {
				t.Errorf("key %q appears in both %q and %q", key, prev, group.Name)
			}
			seen[key] = group.Name
		}
	}

	// Every indexed key resolves back to its declaring group.
	for key, groupName := range seen {
		group, ok := GroupForKey(key)
		if !ok {
			t.Errorf("GroupForKey(%q) not found", key)
			continue
		}
		if group.Name != groupName {
			t.Errorf("GroupForKey(%q) = %q, want %q", key, group.Name, groupName)
		}
	}
}

func TestGroupForKey_Unknown(t *testing.T) {
	if _, ok := GroupForKey("no_such_setting"); ok {
		t.Error("GroupForKey() found a group for a made-up key")
	}
	if _, ok := GroupForKey(""); ok {
		t.Error("GroupForKey() found a group for the empty key")
	}
}

func TestGroupEndpoints(t *testing.T) {
	want := map[string]string{
		GroupHeatCurve:          "heat-curve",
		GroupHeatingPerformance: "heating-performance",
		GroupBackupHeating:      "backup-heating",
		GroupSound:              "sound",
		GroupAdvanced:           "advanced",
		GroupCooling:            "cooling",
		GroupWarmWater:          "warm-water",
	}

	if len(settingsGroups) != len(want) {
		t.Fatalf("group count = %d, want %d", len(settingsGroups), len(want))
	}
	for _, group := range settingsGroups {
		if want[group.Name] != group.Endpoint {
			t.Errorf("group %q endpoint = %q, want %q", group.Name, group.Endpoint, want[group.Name])
		}
	}
}

func TestSettableKeys(t *testing.T) {
	keys := SettableKeys()

	if !sort.StringsAreSorted(keys) {
		t.Error("SettableKeys() is not sorted")
	}

	total := 0
	for _, group := range settingsGroups {
		total += len(group.Keys)
	}
	if len(keys) != total {
		t.Errorf("SettableKeys() returned %d keys, want %d", len(keys), total)
	}

	// Spot-check one key per group.
	for _, key := range []string{
		"heat_curve_mode",
		"heating_performance_mode",
		"backup_heating_mode",
		"sound_mode",
		"advanced_thermostat_delay",
		"cooling_temperature",
		"warm_water_target_temperature",
	} {
		found := false
		for _, k := range keys {
			if k == key {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("SettableKeys() missing %q", key)
		}
	}
}

func TestSettingsGroupPaths(t *testing.T) {
	if got := settingsPath("dev-1"); got != "/customer/products/dev-1/settings/" {
		t.Errorf("settingsPath() = %q", got)
	}
	if got := settingsGroupPath("dev-1", "heat-curve"); got != "/customer/products/dev-1/settings/heat-curve/" {
		t.Errorf("settingsGroupPath() = %q", got)
	}
}
