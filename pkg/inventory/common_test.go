package inventory_test

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/db"
	"devmon.xyz/device-inventory-service/pkg/inventory"
	"devmon.xyz/device-inventory-service/pkg/models"
	_ "devmon.xyz/device-inventory-service/pkg/testing"
)

func newTestInventory(t *testing.T) *inventory.Inventory {
	common.SetTestLoggerNop()

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbInstance.Close() })

	inv := &inventory.Inventory{Db: *dbInstance}
	inv.WithServices(inventory.ServiceOpts{
		Site:       inv.GetISite(),
		DeviceType: inv.GetIDeviceType(),
		Metric:     inv.GetIMetric(),
		Device:     inv.GetIDevice(),
		History:    inv.GetIHistory(),
	})
	return inv
}

// seedCatalog builds one site + device type + attached metric + device, with
// uuid-suffixed names so tests never collide on the unique indexes.
func seedCatalog(t *testing.T, inv *inventory.Inventory, call string) (*models.Site, *models.DeviceType, *models.Metric, *models.Device) {
	site := &models.Site{Name: "site-" + uuid.NewString()}
	require.NoError(t, inv.Site.CreateSite(site))

	deviceType := &models.DeviceType{Name: "type-" + uuid.NewString()}
	require.NoError(t, inv.DeviceType.CreateDeviceType(deviceType))

	metric := &models.Metric{Name: "metric-" + uuid.NewString(), Unit: "unit", Call: call}
	require.NoError(t, inv.Metric.CreateMetric(metric))

	_, err := inv.DeviceType.AttachMetric(deviceType.ID, metric.ID)
	require.NoError(t, err)

	device := &models.Device{Name: "device-" + uuid.NewString(), IsActive: true}
	require.NoError(t, inv.Device.CreateDevice(device, deviceType.ID, site.ID))

	return site, deviceType, metric, device
}

func insertMeasurement(t *testing.T, inv *inventory.Inventory, deviceID uint, metricID uint, value float64, ts time.Time) *models.Measurement {
	measurement := &models.Measurement{
		DeviceID:  deviceID,
		MetricID:  metricID,
		Value:     value,
		Timestamp: ts,
	}
	require.NoError(t, inv.Db.Conn.Create(measurement).Error)
	return measurement
}

func countMeasurements(t *testing.T, inv *inventory.Inventory, deviceID uint) int64 {
	var count int64
	require.NoError(t, inv.Db.Conn.Model(&models.Measurement{}).
		Where("device_id = ?", deviceID).Count(&count).Error)
	return count
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
