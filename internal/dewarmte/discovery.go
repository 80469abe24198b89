package dewarmte

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ronald-willems/godewarmte/internal/logging"
)

// SupportedDeviceTypes lists the product categories this client knows how
// to poll and configure: AO (outdoor heat-pump unit) and PT/HC
// (domestic-hot-water heat pumps). Other product types are skipped.
var SupportedDeviceTypes = []string{"AO", "PT", "HC"}

// productList is the body of GET /customer/products/.
type productList struct {
	Results []Product `json:"results"`
}

// Devices lists the account's products and builds one Device per supported
// entry.
//
// The result is always a non-nil slice: an empty account or an unreachable
// product list yields an empty slice alongside the error, which callers
// treat as "not ready yet" rather than fatal. Device classification uses
// the API's explicit type field only.
func (c *Client) Devices() ([]Device, error) {
	var list productList
	if err := c.getJSON("/customer/products/", &list); err != nil {
		logging.Warn("device discovery failed", zap.Error(err))
		return []Device{}, err
	}

	supported := lo.Filter(list.Results, func(p Product, _ int) bool {
		return lo.Contains(SupportedDeviceTypes, p.Type)
	})
	if len(supported) < len(list.Results) {
		logging.Debug("skipped unsupported products",
			zap.Int("total", len(list.Results)),
			zap.Int("supported", len(supported)),
		)
	}

	devices := lo.Map(supported, func(p Product, _ int) Device {
		return newDevice(p)
	})
	if devices == nil {
		devices = []Device{}
	}

	logging.Info("discovered devices", zap.Int("count", len(devices)))
	return devices, nil
}
