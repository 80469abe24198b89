package dewarmte

import (
	"testing"
)

func TestParseOperationSettings(t *testing.T) {
	settings, err := ParseOperationSettings([]byte(mockSettingsResponse))
	if err != nil {
		t.Fatalf("ParseOperationSettings() error = %v", err)
	}

	if settings.HeatCurveMode != "weather" {
		t.Errorf("HeatCurveMode = %q, want weather", settings.HeatCurveMode)
	}
	if settings.HeatCurveS1OutsideTemp != -10.0 {
		t.Errorf("HeatCurveS1OutsideTemp = %v, want -10", settings.HeatCurveS1OutsideTemp)
	}
	// null on the wire normalizes to zero.
	if settings.HeatCurveFixedTemperature != 0 {
		t.Errorf("HeatCurveFixedTemperature = %v, want 0 for wire null", settings.HeatCurveFixedTemperature)
	}
	if !settings.WarmWaterIsScheduled {
		t.Error("WarmWaterIsScheduled = false, want true")
	}
	if len(settings.WarmWaterRanges) != 2 {
		t.Fatalf("WarmWaterRanges length = %d, want 2", len(settings.WarmWaterRanges))
	}
	// The flattened setpoint mirrors the first range.
	if settings.WarmWaterTargetTemperature != 55.0 {
		t.Errorf("WarmWaterTargetTemperature = %v, want 55", settings.WarmWaterTargetTemperature)
	}
	if settings.Version != 3 || !settings.IsApplied {
		t.Errorf("Version/IsApplied = %d/%v, want 3/true", settings.Version, settings.IsApplied)
	}
}

func TestParseOperationSettings_NoRanges(t *testing.T) {
	settings, err := ParseOperationSettings([]byte(`{"warm_water_is_scheduled": false}`))
	if err != nil {
		t.Fatalf("ParseOperationSettings() error = %v", err)
	}

	if settings.WarmWaterTargetTemperature != DefaultWarmWaterTemp {
		t.Errorf("WarmWaterTargetTemperature = %v, want default %v",
			settings.WarmWaterTargetTemperature, DefaultWarmWaterTemp)
	}
}

func TestParseOperationSettings_Malformed(t *testing.T) {
	if _, err := ParseOperationSettings([]byte(`{"version": "three"}`)); err == nil {
		t.Error("ParseOperationSettings() error = nil for malformed body, want error")
	}
}

func TestWarmWaterPresets(t *testing.T) {
	want := map[string]float64{"eco": 45.0, "comfort": 55.0, "boost": 65.0, "away": 40.0}

	if len(WarmWaterPresets) != len(want) {
		t.Fatalf("preset count = %d, want %d", len(WarmWaterPresets), len(want))
	}
	for name, temp := range want {
		if WarmWaterPresets[name] != temp {
			t.Errorf("preset %q = %v, want %v", name, WarmWaterPresets[name], temp)
		}
		// Every preset is itself a valid setpoint.
		if err := validateWarmWaterTemp(temp); err != nil {
			t.Errorf("preset %q temperature %v rejected: %v", name, temp, err)
		}
	}
}
