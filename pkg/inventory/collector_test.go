package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/inventory"
	"devmon.xyz/device-inventory-service/pkg/inventory/mocks"
	"devmon.xyz/device-inventory-service/pkg/models"
	_ "devmon.xyz/device-inventory-service/pkg/testing"
)

func newTestCollector(inv *inventory.Inventory, registry inventory.IRegistry) *inventory.Collector {
	return inventory.NewCollector(inv, registry, inventory.CollectorOpts{
		Interval:      time.Minute,
		SampleTimeout: time.Second,
	})
}

func TestCollectorRunOnce(t *testing.T) {
	inv := newTestInventory(t)
	site, deviceType, metric1, device1 := seedCatalog(t, inv, "mock")

	metric2 := &models.Metric{Name: "metric-" + uuid.NewString(), Unit: "unit", Call: "mock"}
	require.NoError(t, inv.Metric.CreateMetric(metric2))
	_, err := inv.DeviceType.AttachMetric(deviceType.ID, metric2.ID)
	require.NoError(t, err)

	device2 := &models.Device{Name: "device-" + uuid.NewString(), IsActive: true}
	require.NoError(t, inv.Device.CreateDevice(device2, deviceType.ID, site.ID))

	collector := newTestCollector(inv, inventory.NewRegistry())

	before := time.Now().UTC()
	require.NoError(t, collector.RunOnce(context.Background()))
	after := time.Now().UTC()

	// 2 devices x 2 metrics
	assert.EqualValues(t, 2, countMeasurements(t, inv, device1.ID))
	assert.EqualValues(t, 2, countMeasurements(t, inv, device2.ID))

	var measurements []models.Measurement
	require.NoError(t, inv.Db.Conn.Find(&measurements).Error)
	require.Len(t, measurements, 4)
	for _, m := range measurements {
		assert.GreaterOrEqual(t, m.Value, 1.0)
		assert.Less(t, m.Value, 100.0)
		assert.False(t, m.Timestamp.Before(before))
		assert.False(t, m.Timestamp.After(after))
	}

	// collecting then immediately reading history returns the new row first
	history, err := inv.History.History(device1.ID, metric1.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.False(t, history[0].Timestamp.Before(before))
}

func TestCollectorResolvesThroughRegistry(t *testing.T) {
	inv := newTestInventory(t)
	_, _, _, device := seedCatalog(t, inv, "mock")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fixed := func(_ context.Context, _ *models.Metric, _ *models.Device) (float64, error) {
		return 42.0, nil
	}

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockRegistry.
		EXPECT().
		Resolve(gomock.Eq("mock")).
		Return(inventory.SamplerFunc(fixed), nil).
		Times(1)

	collector := newTestCollector(inv, mockRegistry)
	require.NoError(t, collector.RunOnce(context.Background()))

	var measurements []models.Measurement
	require.NoError(t, inv.Db.Conn.Where("device_id = ?", device.ID).Find(&measurements).Error)
	require.Len(t, measurements, 1)
	assert.Equal(t, 42.0, measurements[0].Value)
}

func TestCollectorSkipsInactiveDevices(t *testing.T) {
	inv := newTestInventory(t)
	site, deviceType, _, device := seedCatalog(t, inv, "mock")

	_, err := inv.Device.UpdateDevice(device.ID, &models.Device{
		Name:         device.Name,
		IsActive:     false,
		SiteID:       site.ID,
		DeviceTypeID: deviceType.ID,
	})
	require.NoError(t, err)

	collector := newTestCollector(inv, inventory.NewRegistry())
	require.NoError(t, collector.RunOnce(context.Background()))

	assert.EqualValues(t, 0, countMeasurements(t, inv, device.ID))
}

func TestCollectorTransientFailureSkipsMetricOnly(t *testing.T) {
	inv := newTestInventory(t)
	_, deviceType, _, device := seedCatalog(t, inv, "mock")

	flaky := &models.Metric{Name: "metric-" + uuid.NewString(), Unit: "unit", Call: "flaky"}
	require.NoError(t, inv.Metric.CreateMetric(flaky))
	_, err := inv.DeviceType.AttachMetric(deviceType.ID, flaky.ID)
	require.NoError(t, err)

	registry := inventory.NewRegistry()
	registry.Register("flaky", func(_ context.Context, _ *models.Metric, _ *models.Device) (float64, error) {
		return 0, errors.New("sensor timeout")
	})

	collector := newTestCollector(inv, registry)

	// the failing metric is skipped, the healthy one still gets sampled,
	// and the cycle itself succeeds
	require.NoError(t, collector.RunOnce(context.Background()))
	assert.EqualValues(t, 1, countMeasurements(t, inv, device.ID))

	var m models.Measurement
	require.NoError(t, inv.Db.Conn.Where("device_id = ?", device.ID).First(&m).Error)
	assert.NotEqual(t, flaky.ID, m.MetricID)
}

func TestCollectorUnknownCallDoesNotStopOtherDevices(t *testing.T) {
	inv := newTestInventory(t)
	site, _, _, goodDevice := seedCatalog(t, inv, "mock")

	brokenType := &models.DeviceType{Name: "type-" + uuid.NewString()}
	require.NoError(t, inv.DeviceType.CreateDeviceType(brokenType))
	brokenMetric := &models.Metric{Name: "metric-" + uuid.NewString(), Unit: "unit", Call: "no_such_sampler"}
	require.NoError(t, inv.Metric.CreateMetric(brokenMetric))
	_, err := inv.DeviceType.AttachMetric(brokenType.ID, brokenMetric.ID)
	require.NoError(t, err)

	brokenDevice := &models.Device{Name: "device-" + uuid.NewString(), IsActive: true}
	require.NoError(t, inv.Device.CreateDevice(brokenDevice, brokenType.ID, site.ID))

	collector := newTestCollector(inv, inventory.NewRegistry())

	err = collector.RunOnce(context.Background())
	require.Error(t, err)

	var unknown *inventory.UnknownSamplerError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no_such_sampler", unknown.Call)

	assert.EqualValues(t, 0, countMeasurements(t, inv, brokenDevice.ID))
	assert.EqualValues(t, 1, countMeasurements(t, inv, goodDevice.ID))
}

func TestCollectorDeviceLoadError(t *testing.T) {
	inv := newTestInventory(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDevice := mocks.NewMockIDevice(ctrl)
	mockDevice.
		EXPECT().
		ListActiveDevices().
		Return(nil, fmt.Errorf("disk on fire")).
		Times(1)

	inv.WithServices(inventory.ServiceOpts{Device: mockDevice})

	collector := newTestCollector(inv, inventory.NewRegistry())

	err := collector.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestCollectorSkipIfRunning(t *testing.T) {
	inv := newTestInventory(t)
	_, _, _, _ = seedCatalog(t, inv, "block")

	entered := make(chan struct{})
	release := make(chan struct{})

	registry := inventory.NewRegistry()
	registry.Register("block", func(_ context.Context, _ *models.Metric, _ *models.Device) (float64, error) {
		close(entered)
		<-release
		return 1.0, nil
	})

	collector := newTestCollector(inv, registry)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- collector.RunOnce(context.Background())
	}()

	<-entered
	err := collector.RunOnce(context.Background())
	require.ErrorIs(t, err, inventory.ErrCycleRunning)

	close(release)
	require.NoError(t, <-firstDone)
}

func TestCollectorRunOnce_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}

	inv := newTestInventory(t)
	seedCatalog(t, inv, "mock")

	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	collector := newTestCollector(inv, inventory.NewRegistry())
	require.NoError(t, collector.RunOnce(context.Background()))

	logs := ParseLogs(buf)

	started, completed := false, false
	for _, log := range logs {
		lobj := log.(map[string]any)
		if lobj["msg"] == "Starting measurement of devices" {
			started = true
		}
		if lobj["msg"] == "Measurement of devices completed" &&
			lobj["devices"] == 1.0 &&
			lobj["measurements"] == 1.0 {
			completed = true
		}
	}
	assert.True(t, started, "start log not found")
	assert.True(t, completed, "completion log not found")
}
