package dewarmte

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ronald-willems/godewarmte/internal/logging"
)

// StatusData is one telemetry snapshot. Every field is independently
// nullable: a missing or malformed raw value nils the field and records an
// entry in InvalidFields instead of failing the whole snapshot. Snapshots
// are constructed atomically by ParseStatus and never partially exposed;
// the only later mutation is the outdoor-temperature augmentation from the
// auxiliary tb-status endpoint.
type StatusData struct {
	WaterFlow              *float64
	SupplyTemperature      *float64
	OutdoorTemperature     *float64
	HeatInput              *float64
	ActualTemperature      *float64
	ElectricityConsumption *float64
	HeatOutput             *float64
	TargetTemperature      *float64
	ElectricBackupUsage    *float64
	GasBoiler              *bool
	Thermostat             *bool
	IsOn                   *bool
	IsConnected            *bool
	FaultCode              *int

	// InvalidFields records every raw input that was missing or failed
	// coercion, as "<field>: missing" or "<field>: invalid" entries. It is
	// the sole diagnostic channel for upstream data quality.
	InvalidFields []string
}

// Boolean string vocabularies accepted by the parser, lowercase.
var (
	trueWords  = []string{"true", "1", "yes", "on", "active"}
	falseWords = []string{"false", "0", "no", "off", "inactive"}
)

// statusParser coerces raw telemetry values, recording failures per field.
type statusParser struct {
	raw     map[string]any
	invalid []string
}

func (p *statusParser) markMissing(key string) {
	p.invalid = append(p.invalid, key+": missing")
}

func (p *statusParser) markInvalid(key string) {
	p.invalid = append(p.invalid, key+": invalid")
}

// lookup returns the raw value for key. Absent, nil and empty-string values
// all count as missing.
func (p *statusParser) lookup(key string) (any, bool) {
	v, ok := p.raw[key]
	if !ok || v == nil {
		p.markMissing(key)
		return nil, false
	}
	if s, isStr := v.(string); isStr && s == "" {
		p.markMissing(key)
		return nil, false
	}
	return v, true
}

func (p *statusParser) float(key string) *float64 {
	v, ok := p.lookup(key)
	if !ok {
		return nil
	}
	f, err := coerceFloat(v)
	if err != nil {
		p.markInvalid(key)
		return nil
	}
	return &f
}

func (p *statusParser) boolean(key string) *bool {
	v, ok := p.lookup(key)
	if !ok {
		return nil
	}
	b, err := coerceBool(v)
	if err != nil {
		p.markInvalid(key)
		return nil
	}
	return &b
}

func (p *statusParser) integer(key string) *int {
	v, ok := p.lookup(key)
	if !ok {
		return nil
	}
	i, err := coerceInt(v)
	if err != nil {
		p.markInvalid(key)
		return nil
	}
	return &i
}

func coerceFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("cannot coerce %T to float", v)
	}
}

func coerceInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case json.Number:
		i, err := t.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("cannot coerce %T to int", v)
	}
}

func coerceBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		if t == 1 {
			return true, nil
		}
		if t == 0 {
			return false, nil
		}
		return false, fmt.Errorf("numeric value %v is not a boolean", t)
	case string:
		word := strings.ToLower(strings.TrimSpace(t))
		for _, w := range trueWords {
			if word == w {
				return true, nil
			}
		}
		for _, w := range falseWords {
			if word == w {
				return false, nil
			}
		}
		return false, fmt.Errorf("unrecognized boolean word %q", t)
	default:
		return false, fmt.Errorf("cannot coerce %T to bool", v)
	}
}

// ParseStatus converts a raw telemetry field map into a StatusData
// snapshot. It never fails: every known field is parsed independently and
// problems are recorded in InvalidFields.
func ParseStatus(raw map[string]any) *StatusData {
	p := &statusParser{raw: raw}

	status := &StatusData{
		WaterFlow:              p.float("water_flow"),
		SupplyTemperature:      p.float("supply_temperature"),
		OutdoorTemperature:     p.float("outdoor_temperature"),
		HeatInput:              p.float("heat_input"),
		ActualTemperature:      p.float("actual_temperature"),
		ElectricityConsumption: p.float("electricity_consumption"),
		HeatOutput:             p.float("heat_output"),
		TargetTemperature:      p.float("target_temperature"),
		ElectricBackupUsage:    p.float("electric_backup_usage"),
		GasBoiler:              p.boolean("gas_boiler"),
		Thermostat:             p.boolean("thermostat"),
		IsOn:                   p.boolean("is_on"),
		IsConnected:            p.boolean("is_connected"),
		FaultCode:              p.integer("fault_code"),
	}
	status.InvalidFields = p.invalid
	return status
}

// MergeOutdoorTemperature merges the auxiliary tb-status outdoor
// temperature into an existing snapshot using the same coercion rule as
// the main parse. A value that fails coercion leaves the existing field
// untouched and records it as invalid.
func (s *StatusData) MergeOutdoorTemperature(value any) {
	if value == nil {
		return
	}
	f, err := coerceFloat(value)
	if err != nil {
		s.InvalidFields = append(s.InvalidFields, "outdoor_temperature: invalid")
		return
	}
	s.OutdoorTemperature = &f
	// Drop the stale bookkeeping entry now that the field has a value.
	s.InvalidFields = removeEntries(s.InvalidFields, "outdoor_temperature")
}

func removeEntries(entries []string, field string) []string {
	kept := entries[:0]
	for _, e := range entries {
		if !strings.HasPrefix(e, field+":") {
			kept = append(kept, e)
		}
	}
	return kept
}

// tbStatusResponse is the body of GET /customer/products/tb-status/.
type tbStatusResponse struct {
	OutdoorTemperature any `json:"outdoor_temperature"`
}

// Status fetches a telemetry snapshot for the given device.
//
// The product list entry's top-level fields and nested status block are
// flattened into one raw map (nested values win) before parsing. On
// success, the outdoor temperature from the auxiliary tb-status endpoint
// is merged in; tb-status failures only cost that one field.
func (c *Client) Status(device Device) (*StatusData, error) {
	data, err := c.do("GET", "/customer/products/", nil)
	if err != nil {
		return nil, err
	}

	var list struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, NewParseError("failed to parse products response", err)
	}

	for _, product := range list.Results {
		if id, _ := product["id"].(string); id != device.DeviceID {
			continue
		}

		raw := make(map[string]any, len(product))
		for k, v := range product {
			if k == "status" {
				continue
			}
			raw[k] = v
		}
		if nested, ok := product["status"].(map[string]any); ok {
			for k, v := range nested {
				raw[k] = v
			}
		}

		status := ParseStatus(raw)
		c.augmentOutdoorTemperature(status)

		if len(status.InvalidFields) > 0 {
			logging.Debug("status snapshot has invalid fields",
				zap.String("device_id", device.DeviceID),
				zap.Strings("invalid_fields", status.InvalidFields),
			)
		}
		return status, nil
	}

	return nil, NewNotFoundError(device.DeviceID)
}

// augmentOutdoorTemperature merges the tb-status outdoor temperature into
// an already-parsed snapshot. Failures are logged and tolerated.
func (c *Client) augmentOutdoorTemperature(status *StatusData) {
	var tb tbStatusResponse
	if err := c.getJSON("/customer/products/tb-status/", &tb); err != nil {
		logging.Debug("tb-status fetch failed, keeping primary outdoor temperature", zap.Error(err))
		return
	}
	status.MergeOutdoorTemperature(tb.OutdoorTemperature)
}
