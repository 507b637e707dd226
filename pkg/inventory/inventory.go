package inventory

import (
	"context"

	"devmon.xyz/device-inventory-service/pkg/db"
	"devmon.xyz/device-inventory-service/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_services.go -package=mocks devmon.xyz/device-inventory-service/pkg/inventory IDevice,IRegistry

type ISite interface {
	ListSites() ([]models.Site, error)
	GetSite(id uint) (*models.Site, error)
	CreateSite(site *models.Site) error
	UpdateSite(id uint, name string) (*models.Site, error)
	DeleteSite(id uint) (*models.Site, error)
}

type IDeviceType interface {
	ListDeviceTypes() ([]models.DeviceType, error)
	GetDeviceType(id uint) (*models.DeviceType, error)
	CreateDeviceType(deviceType *models.DeviceType) error
	UpdateDeviceType(id uint, name string) (*models.DeviceType, error)
	DeleteDeviceType(id uint) (*models.DeviceType, error)
	AttachMetric(deviceTypeID uint, metricID uint) (*models.DeviceType, error)
	DetachMetric(deviceTypeID uint, metricID uint) (*models.DeviceType, error)
}

type IMetric interface {
	ListMetrics() ([]models.Metric, error)
	GetMetric(id uint) (*models.Metric, error)
	CreateMetric(metric *models.Metric) error
	UpdateMetric(id uint, input *models.Metric) (*models.Metric, error)
	DeleteMetric(id uint) (*models.Metric, error)
}

type IDevice interface {
	GetDevice(id uint) (*models.Device, error)
	CreateDevice(device *models.Device, deviceTypeID uint, siteID uint) error
	UpdateDevice(id uint, input *models.Device) (*models.Device, error)
	DeleteDevice(id uint) (*models.Device, error)
	ListActiveDevices() ([]models.Device, error)
}

type IHistory interface {
	LatestSnapshot(deviceID uint) ([]models.Measurement, error)
	History(deviceID uint, metricID uint) ([]models.Measurement, error)
}

// SamplerFunc fetches one value of a metric for a device. Real samplers talk
// to external telemetry sources and should respect ctx deadlines.
type SamplerFunc func(ctx context.Context, metric *models.Metric, device *models.Device) (float64, error)

type IRegistry interface {
	Resolve(call string) (SamplerFunc, error)
}

type Inventory struct {
	Db         db.DB
	Site       ISite
	DeviceType IDeviceType
	Metric     IMetric
	Device     IDevice
	History    IHistory
}

type ServiceOpts struct {
	Site       ISite
	DeviceType IDeviceType
	Metric     IMetric
	Device     IDevice
	History    IHistory
}

func (i *Inventory) WithServices(opts ServiceOpts) *Inventory {
	if opts.Site != nil {
		i.Site = opts.Site
	}
	if opts.DeviceType != nil {
		i.DeviceType = opts.DeviceType
	}
	if opts.Metric != nil {
		i.Metric = opts.Metric
	}
	if opts.Device != nil {
		i.Device = opts.Device
	}
	if opts.History != nil {
		i.History = opts.History
	}
	return i
}
