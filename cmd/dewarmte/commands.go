package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ronald-willems/godewarmte/internal/config"
	"github.com/ronald-willems/godewarmte/internal/dewarmte"
)

// Command flags
var (
	accountEmail string
	deviceID     string
	outputFormat string
	pollInterval int
	presetName   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&accountEmail, "email", "", "Account email (overrides DEWARMTE_EMAIL and the config file)")
	rootCmd.PersistentFlags().StringVar(&deviceID, "device", "", "Device ID (defaults to the only device on the account)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(nicknameCmd)
}

// newClient builds an authenticated API client from the environment, the
// config registry, and interactive prompts as a last resort.
func newClient() (*dewarmte.Client, error) {
	envCfg, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, err
	}

	email := accountEmail
	if email == "" {
		email = envCfg.Email
	}
	if email == "" && registry.Account != nil {
		email = registry.Account.Email
	}
	if email == "" {
		email, err = promptLine("DeWarmte account email: ")
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		return nil, fmt.Errorf("no account email provided (use --email or DEWARMTE_EMAIL)")
	}

	password := envCfg.Password
	if password == "" {
		password, err = promptPassword("DeWarmte account password: ")
		if err != nil {
			return nil, err
		}
	}
	if password == "" {
		return nil, fmt.Errorf("no password provided (use DEWARMTE_PASSWORD)")
	}

	// Remember the email for next time; the password is never stored.
	registry.SetAccountEmail(email)
	if err := registry.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
	}

	baseURL := envCfg.BaseURL
	if baseURL == "" {
		baseURL = dewarmte.DefaultBaseURL
	}
	return dewarmte.NewClientWithBaseURL(email, password, baseURL), nil
}

// promptLine reads one line from the terminal.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	var line string
	if _, err := fmt.Scanln(&line); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// selectDevice resolves the --device flag against the discovered devices.
func selectDevice(devices []dewarmte.Device) (dewarmte.Device, error) {
	if len(devices) == 0 {
		return dewarmte.Device{}, fmt.Errorf("no supported devices on this account (yet); try again later")
	}
	if deviceID == "" {
		if len(devices) > 1 {
			return dewarmte.Device{}, fmt.Errorf("account has %d devices; pick one with --device", len(devices))
		}
		return devices[0], nil
	}
	for _, d := range devices {
		if d.DeviceID == deviceID {
			return d, nil
		}
	}
	return dewarmte.Device{}, fmt.Errorf("device %q not found on this account", deviceID)
}

// recordDevices refreshes registry bookkeeping after a discovery.
func recordDevices(devices []dewarmte.Device) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}
	for _, d := range devices {
		registry.RecordDevice(d.DeviceID, d.ProductID, d.DeviceType)
	}
	_ = registry.Save()
}

// devicesCmd lists the supported devices on the account
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List heat-pump devices on the account",
	Long: `Discover and list the supported heat-pump devices on the account.

Only AO (outdoor unit) and PT/HC (domestic hot water) products are shown;
other product types are skipped.`,
	RunE: runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	devices, err := client.Devices()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	recordDevices(devices)

	if len(devices) == 0 {
		fmt.Println("No supported devices found on this account.")
		return nil
	}

	if outputFormat == "json" {
		return printJSON(devices)
	}

	registry, _ := config.LoadRegistry()
	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, d := range devices {
		name := d.Name
		if registry != nil {
			if meta := registry.GetDevice(d.DeviceID); meta != nil && meta.Nickname != "" {
				name = meta.Nickname
			}
		}
		fmt.Printf("%d. %s\n", i+1, name)
		fmt.Printf("   Device ID: %s\n", d.DeviceID)
		fmt.Printf("   Product:   %s (%s)\n", d.ProductID, d.DeviceType)
		fmt.Printf("   Cooling:   %v\n", d.SupportsCooling)
		fmt.Println()
	}
	return nil
}

// statusCmd fetches one telemetry snapshot
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current device telemetry",
	Long: `Fetch a telemetry snapshot for a device.

Fields the cloud did not report (or reported unparseably) are shown as
"n/a"; the affected raw fields are listed at the end of the output.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	devices, err := client.Devices()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	device, err := selectDevice(devices)
	if err != nil {
		return err
	}

	status, err := client.Status(device)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(status)
	}
	printStatus(device, status)
	return nil
}

func printStatus(device dewarmte.Device, s *dewarmte.StatusData) {
	fmt.Printf("Status for %s (%s):\n\n", device.Name, device.DeviceID)
	fmt.Printf("  Running:                  %s\n", fmtBool(s.IsOn))
	fmt.Printf("  Connected:                %s\n", fmtBool(s.IsConnected))
	fmt.Printf("  Supply temperature:       %s\n", fmtTemp(s.SupplyTemperature))
	fmt.Printf("  Actual temperature:       %s\n", fmtTemp(s.ActualTemperature))
	fmt.Printf("  Target temperature:       %s\n", fmtTemp(s.TargetTemperature))
	fmt.Printf("  Outdoor temperature:      %s\n", fmtTemp(s.OutdoorTemperature))
	fmt.Printf("  Water flow:               %s\n", fmtFloat(s.WaterFlow, "L/min"))
	fmt.Printf("  Heat input:               %s\n", fmtFloat(s.HeatInput, "kW"))
	fmt.Printf("  Heat output:              %s\n", fmtFloat(s.HeatOutput, "kW"))
	fmt.Printf("  Electricity consumption:  %s\n", fmtFloat(s.ElectricityConsumption, "kW"))
	fmt.Printf("  Electric backup usage:    %s\n", fmtFloat(s.ElectricBackupUsage, "kW"))
	fmt.Printf("  Gas boiler:               %s\n", fmtBool(s.GasBoiler))
	fmt.Printf("  Thermostat:               %s\n", fmtBool(s.Thermostat))
	if s.FaultCode != nil {
		fmt.Printf("  Fault code:               %d\n", *s.FaultCode)
	} else {
		fmt.Printf("  Fault code:               n/a\n")
	}
	if len(s.InvalidFields) > 0 {
		fmt.Printf("\n  Unparseable fields: %s\n", strings.Join(s.InvalidFields, ", "))
	}
}

func fmtTemp(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f°C", *v)
}

func fmtFloat(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f %s", *v, unit)
}

func fmtBool(v *bool) string {
	if v == nil {
		return "n/a"
	}
	if *v {
		return "yes"
	}
	return "no"
}

// settingsCmd shows the current operation settings
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show device operation settings",
	Long: `Fetch and display the device's current operation settings: heat curve,
heating performance, backup heating, sound, advanced, cooling and warm
water configuration.`,
	RunE: runSettings,
}

func runSettings(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	devices, err := client.Devices()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	device, err := selectDevice(devices)
	if err != nil {
		return err
	}

	settings, err := client.OperationSettings(device)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(settings)
	}
	printSettings(device, settings)
	return nil
}

func printSettings(device dewarmte.Device, s *dewarmte.DeviceOperationSettings) {
	fmt.Printf("Operation settings for %s (%s):\n\n", device.Name, device.DeviceID)
	fmt.Println("Heat curve:")
	fmt.Printf("  heat_curve_mode:                  %s\n", s.HeatCurveMode)
	fmt.Printf("  heating_kind:                     %s\n", s.HeatingKind)
	fmt.Printf("  heat_curve_s1_outside_temp:       %.1f\n", s.HeatCurveS1OutsideTemp)
	fmt.Printf("  heat_curve_s1_target_temp:        %.1f\n", s.HeatCurveS1TargetTemp)
	fmt.Printf("  heat_curve_s2_outside_temp:       %.1f\n", s.HeatCurveS2OutsideTemp)
	fmt.Printf("  heat_curve_s2_target_temp:        %.1f\n", s.HeatCurveS2TargetTemp)
	fmt.Printf("  heat_curve_fixed_temperature:     %.1f\n", s.HeatCurveFixedTemperature)
	fmt.Printf("  heat_curve_use_smart_correction:  %v\n", s.HeatCurveUseSmartCorrection)
	fmt.Println("Heating performance:")
	fmt.Printf("  heating_performance_mode:                %s\n", s.HeatingPerformanceMode)
	fmt.Printf("  heating_performance_backup_temperature:  %.1f\n", s.HeatingPerformanceBackupTemperature)
	fmt.Println("Backup heating:")
	fmt.Printf("  backup_heating_mode:  %s\n", s.BackupHeatingMode)
	fmt.Println("Sound:")
	fmt.Printf("  sound_mode:              %s\n", s.SoundMode)
	fmt.Printf("  sound_compressor_power:  %s\n", s.SoundCompressorPower)
	fmt.Printf("  sound_fan_speed:         %s\n", s.SoundFanSpeed)
	fmt.Println("Advanced:")
	fmt.Printf("  advanced_boost_mode_control:  %v\n", s.AdvancedBoostModeControl)
	fmt.Printf("  advanced_thermostat_delay:    %s\n", s.AdvancedThermostatDelay)
	if device.SupportsCooling {
		fmt.Println("Cooling:")
		fmt.Printf("  cooling_thermostat_type:  %s\n", s.CoolingThermostatType)
		fmt.Printf("  cooling_control_mode:     %s\n", s.CoolingControlMode)
		fmt.Printf("  cooling_temperature:      %.1f\n", s.CoolingTemperature)
		fmt.Printf("  cooling_duration:         %d\n", s.CoolingDuration)
	}
	fmt.Println("Warm water:")
	fmt.Printf("  warm_water_is_scheduled:        %v\n", s.WarmWaterIsScheduled)
	fmt.Printf("  warm_water_target_temperature:  %.1f\n", s.WarmWaterTargetTemperature)
	for _, r := range s.WarmWaterRanges {
		fmt.Printf("  range %d: %.1f°C during %s\n", r.Order, r.Temperature, r.Period)
	}
}

// setCmd changes one setting
var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one device setting",
	Long: `Change one operation setting on a device.

The whole settings group the key belongs to is submitted in one piece, so
sibling fields keep their current values. Use 'dewarmte set --list' to see
the settable keys.

Warm water: use --preset instead of a value to apply a named temperature
preset (eco, comfort, boost, away).`,
	Example: `  # Lower the warm water setpoint
  dewarmte set warm_water_target_temperature 52

  # Put the unit in silent mode at night
  dewarmte set sound_mode silent

  # Use a preset
  dewarmte set warm_water_target_temperature --preset eco`,
	RunE: runSet,
}

var listKeys bool

func init() {
	setCmd.Flags().BoolVar(&listKeys, "list", false, "List all settable keys")
	setCmd.Flags().StringVar(&presetName, "preset", "", "Warm-water temperature preset (eco, comfort, boost, away)")
}

func runSet(cmd *cobra.Command, args []string) error {
	if listKeys {
		for _, key := range dewarmte.SettableKeys() {
			fmt.Println(key)
		}
		return nil
	}

	var key string
	var value any
	switch {
	case presetName != "":
		temp, ok := dewarmte.WarmWaterPresets[presetName]
		if !ok {
			return fmt.Errorf("unknown preset %q (valid: eco, comfort, boost, away)", presetName)
		}
		key = "warm_water_target_temperature"
		value = temp
	case len(args) == 2:
		key = args[0]
		value = args[1]
	default:
		return fmt.Errorf("expected <key> <value> arguments (or --preset)")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	devices, err := client.Devices()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	device, err := selectDevice(devices)
	if err != nil {
		return err
	}

	updated, err := client.UpdateSetting(device, key, value)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Printf("Updated %s on %s.\n", key, device.Name)
	if outputFormat == "json" {
		return printJSON(updated)
	}
	return nil
}

// watchCmd polls status periodically
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll device telemetry periodically",
	Long: `Poll a device's telemetry on a fixed interval until interrupted.

Failed polls are reported and retried on the next tick; the vendor cloud
is frequently slow to answer, so transient failures are normal.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&pollInterval, "interval", 0, "Poll interval in seconds (default: config file value or 300)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	devices, err := client.Devices()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	device, err := selectDevice(devices)
	if err != nil {
		return err
	}

	interval := pollInterval
	if interval <= 0 {
		registry, regErr := config.LoadRegistry()
		if regErr == nil {
			interval = registry.PollIntervalSeconds()
		} else {
			interval = config.DefaultPollInterval
		}
	}

	fmt.Printf("Polling %s every %ds (Ctrl-C to stop)...\n\n", device.Name, interval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	poll := func() {
		status, err := client.Status(device)
		if err != nil {
			fmt.Printf("[%s] poll failed: %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		fmt.Printf("[%s] supply=%s outdoor=%s target=%s flow=%s on=%s\n",
			time.Now().Format("15:04:05"),
			fmtTemp(status.SupplyTemperature),
			fmtTemp(status.OutdoorTemperature),
			fmtTemp(status.TargetTemperature),
			fmtFloat(status.WaterFlow, "L/min"),
			fmtBool(status.IsOn),
		)
	}

	poll()
	for {
		select {
		case <-ticker.C:
			poll()
		case <-stop:
			fmt.Println("\nStopped.")
			return nil
		}
	}
}

// nicknameCmd stores a local nickname for a device
var nicknameCmd = &cobra.Command{
	Use:   "nickname <device-id> <name>",
	Short: "Set a local nickname for a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		registry.SetDeviceNickname(args[0], args[1])
		if err := registry.Save(); err != nil {
			return err
		}
		fmt.Printf("Device %s is now %q.\n", args[0], args[1])
		return nil
	},
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
