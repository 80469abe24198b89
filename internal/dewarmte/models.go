package dewarmte

import "fmt"

// Manufacturer is the vendor name reported on every discovered device.
const Manufacturer = "DeWarmte"

// Product mirrors one entry of GET /customer/products/.
type Product struct {
	ID   string `json:"id"`   // Remote device identity
	Type string `json:"type"` // Product category code ("AO", "PT", "HC", ...)
	Name string `json:"name"` // Display name set by the customer

	// Cooling reports whether the unit has the cooling option installed
	Cooling bool `json:"cooling"`

	// RelatedAO links a domestic-hot-water unit to its outdoor unit
	RelatedAO string `json:"related_ao,omitempty"`

	// Status holds the nested telemetry block; the top-level entry carries
	// additional telemetry fields next to it
	Status map[string]any `json:"status,omitempty"`
}

// Device is one supported heat-pump unit, immutable after discovery.
// Created by Client.Devices and passed by the caller into every status and
// settings call; it is never mutated.
type Device struct {
	DeviceID  string // Remote identity used in API paths
	ProductID string // Vendor product code (leading token encodes the type)
	// DeviceType is the product category taken from the API's explicit type
	// field. It is never derived from ProductID or the display name: those
	// break on localized or renamed products.
	DeviceType      string
	SupportsCooling bool

	// Derived display info
	Name         string
	Manufacturer string
	Model        string
}

// newDevice builds a Device from a product list entry.
func newDevice(p Product) Device {
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", Manufacturer, p.Type)
	}
	productID := p.RelatedAO
	if productID == "" {
		productID = p.ID
	}
	return Device{
		DeviceID:        p.ID,
		ProductID:       productID,
		DeviceType:      p.Type,
		SupportsCooling: p.Cooling,
		Name:            name,
		Manufacturer:    Manufacturer,
		Model:           p.Type,
	}
}
