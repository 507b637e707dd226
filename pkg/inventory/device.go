package inventory

import (
	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/models"
	"go.uber.org/zap"
)

func (i *Inventory) getDevice(id uint) (*models.Device, error) {
	var device models.Device
	if err := i.Db.Conn.Preload("Site").Preload("DeviceType").First(&device, id).Error; err != nil {
		return nil, notFoundOr(err, "Device")
	}
	return &device, nil
}

func (i *Inventory) createDevice(device *models.Device, deviceTypeID uint, siteID uint) error {
	logger := common.GetLoggerWith(
		common.LoggerNameInventoryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDevice),
	)

	var deviceType models.DeviceType
	if err := i.Db.Conn.First(&deviceType, deviceTypeID).Error; err != nil {
		return notFoundOr(err, "Device Type")
	}

	var site models.Site
	if err := i.Db.Conn.First(&site, siteID).Error; err != nil {
		return notFoundOr(err, "Site")
	}

	device.DeviceTypeID = deviceType.ID
	device.SiteID = site.ID
	if device.Name == "" {
		device.Name = deviceType.Name
	}

	if err := i.Db.Conn.Create(device).Error; err != nil {
		return err
	}

	device.DeviceType = deviceType
	device.Site = site

	logger.Info("Created device",
		zap.Uint("device_id", device.ID),
		zap.String("name", device.Name),
		zap.Uint("site_id", site.ID),
		zap.Uint("device_type_id", deviceType.ID))
	return nil
}

func (i *Inventory) updateDevice(id uint, input *models.Device) (*models.Device, error) {
	var device models.Device
	if err := i.Db.Conn.First(&device, id).Error; err != nil {
		return nil, notFoundOr(err, "Device")
	}

	var site models.Site
	if err := i.Db.Conn.First(&site, input.SiteID).Error; err != nil {
		return nil, notFoundOr(err, "Site")
	}

	var deviceType models.DeviceType
	if err := i.Db.Conn.First(&deviceType, input.DeviceTypeID).Error; err != nil {
		return nil, notFoundOr(err, "Device Type")
	}

	// a map update writes is_active even when toggling back to false, which
	// a struct update would treat as a zero value and skip
	if err := i.Db.Conn.Model(&device).
		Updates(map[string]any{
			"name":           input.Name,
			"site_id":        site.ID,
			"device_type_id": deviceType.ID,
			"is_active":      input.IsActive,
		}).Error; err != nil {
		return nil, err
	}

	return i.getDevice(id)
}

func (i *Inventory) deleteDevice(id uint) (*models.Device, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameInventoryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDevice),
	)

	var device models.Device
	if err := i.Db.Conn.First(&device, id).Error; err != nil {
		return nil, notFoundOr(err, "Device")
	}

	if err := i.Db.Conn.Delete(&device).Error; err != nil {
		return nil, err
	}

	logger.Info("Deleted device", zap.Uint("device_id", id), zap.String("name", device.Name))
	return &device, nil
}

// listActiveDevices is the collector's read: one query resolving each active
// device together with its type and the type's metric set.
func (i *Inventory) listActiveDevices() ([]models.Device, error) {
	var devices []models.Device
	err := i.Db.Conn.
		Where("is_active = ?", true).
		Preload("DeviceType.Metrics").
		Find(&devices).Error
	return devices, err
}

type IDeviceImpl struct {
	inv *Inventory
}

func (id *IDeviceImpl) GetDevice(deviceID uint) (*models.Device, error) {
	return id.inv.getDevice(deviceID)
}

func (id *IDeviceImpl) CreateDevice(device *models.Device, deviceTypeID uint, siteID uint) error {
	return id.inv.createDevice(device, deviceTypeID, siteID)
}

func (id *IDeviceImpl) UpdateDevice(deviceID uint, input *models.Device) (*models.Device, error) {
	return id.inv.updateDevice(deviceID, input)
}

func (id *IDeviceImpl) DeleteDevice(deviceID uint) (*models.Device, error) {
	return id.inv.deleteDevice(deviceID)
}

func (id *IDeviceImpl) ListActiveDevices() ([]models.Device, error) {
	return id.inv.listActiveDevices()
}

func (i *Inventory) GetIDevice() IDevice {
	return &IDeviceImpl{inv: i}
}
