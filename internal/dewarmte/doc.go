// Package dewarmte provides a client for the DeWarmte heat-pump cloud API.
//
// The package covers the bearer-token lifecycle, an authenticated request
// funnel with a single-retry 401 protocol, device discovery, tolerant
// telemetry parsing, and the partitioned settings update protocol.
//
// # Token lifecycle
//
// The vendor does not publish a token expiry. Auth assumes a 60-minute
// lifetime and refreshes proactively 60 seconds before it elapses; a 401
// observed by the request funnel forces an immediate reactive refresh.
// Requests made while the token is fresh perform no authentication
// traffic at all.
//
// # Usage example
//
//	client := dewarmte.NewClient("user@example.com", "secret")
//
//	devices, err := client.Devices()
//	if err != nil || len(devices) == 0 {
//	    // Not ready yet - poll again later.
//	}
//
//	status, err := client.Status(devices[0])
//	if err == nil && status.SupplyTemperature != nil {
//	    fmt.Printf("supply: %.1f°C\n", *status.SupplyTemperature)
//	}
//
//	// Change one setting; the whole settings group is submitted for you.
//	updated, err := client.UpdateSetting(devices[0], "warm_water_target_temperature", 52.0)
//
// # Settings groups
//
// The vendor partitions settings into groups (heat-curve, sound, cooling,
// warm-water, ...) whose endpoints replace the full group on every POST.
// UpdateSetting therefore always performs a read-modify-write: it fetches
// the current settings, carries every sibling key of the group into the
// payload, overwrites just the requested key, and re-fetches afterwards so
// callers observe the server's normalized state. Updates to the same
// device are serialized internally; without that, a concurrent full-group
// write could silently revert a sibling field.
//
// # Telemetry parsing
//
// Status snapshots never fail on a single bad field. Each telemetry field
// is parsed independently; missing or malformed inputs nil the field and
// are recorded in StatusData.InvalidFields.
//
// # Error handling
//
// Errors are typed (APIError) and classified: authentication and network
// failures are retryable at the caller's next poll cycle, while unknown
// setting keys and invalid values indicate a caller bug and are surfaced
// immediately.
package dewarmte
