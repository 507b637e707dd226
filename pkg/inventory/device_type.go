package inventory

import (
	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/models"
	"go.uber.org/zap"
)

func (i *Inventory) listDeviceTypes() ([]models.DeviceType, error) {
	var deviceTypes []models.DeviceType
	err := i.Db.Conn.Find(&deviceTypes).Error
	return deviceTypes, err
}

func (i *Inventory) getDeviceType(id uint) (*models.DeviceType, error) {
	var deviceType models.DeviceType
	if err := i.Db.Conn.Preload("Metrics").First(&deviceType, id).Error; err != nil {
		return nil, notFoundOr(err, "Device Type")
	}
	return &deviceType, nil
}

func (i *Inventory) createDeviceType(deviceType *models.DeviceType) error {
	logger := common.GetLoggerWith(
		common.LoggerNameInventoryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDeviceType),
	)

	if err := i.Db.Conn.Create(deviceType).Error; err != nil {
		return err
	}

	logger.Info("Created device type", zap.Reflect("device_type", deviceType))
	return nil
}

func (i *Inventory) updateDeviceType(id uint, name string) (*models.DeviceType, error) {
	var deviceType models.DeviceType
	if err := i.Db.Conn.First(&deviceType, id).Error; err != nil {
		return nil, notFoundOr(err, "Device Type")
	}

	deviceType.Name = name
	if err := i.Db.Conn.Save(&deviceType).Error; err != nil {
		return nil, err
	}
	return &deviceType, nil
}

func (i *Inventory) deleteDeviceType(id uint) (*models.DeviceType, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameInventoryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDeviceType),
	)

	var deviceType models.DeviceType
	if err := i.Db.Conn.First(&deviceType, id).Error; err != nil {
		return nil, notFoundOr(err, "Device Type")
	}

	if err := i.Db.Conn.Delete(&deviceType).Error; err != nil {
		return nil, err
	}

	logger.Info("Deleted device type", zap.Uint("device_type_id", id), zap.String("name", deviceType.Name))
	return &deviceType, nil
}

func (i *Inventory) metricAttached(deviceTypeID uint, metricID uint) (bool, error) {
	var count int64
	err := i.Db.Conn.Table("device_type_metrics").
		Where("device_type_id = ? AND metric_id = ?", deviceTypeID, metricID).
		Count(&count).Error
	return count > 0, err
}

func (i *Inventory) attachMetric(deviceTypeID uint, metricID uint) (*models.DeviceType, error) {
	var deviceType models.DeviceType
	if err := i.Db.Conn.First(&deviceType, deviceTypeID).Error; err != nil {
		return nil, notFoundOr(err, "Device Type")
	}

	var metric models.Metric
	if err := i.Db.Conn.First(&metric, metricID).Error; err != nil {
		return nil, notFoundOr(err, "Metric")
	}

	attached, err := i.metricAttached(deviceTypeID, metricID)
	if err != nil {
		return nil, err
	}
	if attached {
		return nil, ErrMetricAlreadyAttached
	}

	if err := i.Db.Conn.Model(&deviceType).Association("Metrics").Append(&metric); err != nil {
		return nil, err
	}

	return i.getDeviceType(deviceTypeID)
}

func (i *Inventory) detachMetric(deviceTypeID uint, metricID uint) (*models.DeviceType, error) {
	var deviceType models.DeviceType
	if err := i.Db.Conn.First(&deviceType, deviceTypeID).Error; err != nil {
		return nil, notFoundOr(err, "Device Type")
	}

	var metric models.Metric
	if err := i.Db.Conn.First(&metric, metricID).Error; err != nil {
		return nil, notFoundOr(err, "Metric")
	}

	attached, err := i.metricAttached(deviceTypeID, metricID)
	if err != nil {
		return nil, err
	}
	if !attached {
		return nil, ErrMetricNotAttached
	}

	if err := i.Db.Conn.Model(&deviceType).Association("Metrics").Delete(&metric); err != nil {
		return nil, err
	}

	return i.getDeviceType(deviceTypeID)
}

type IDeviceTypeImpl struct {
	inv *Inventory
}

func (idt *IDeviceTypeImpl) ListDeviceTypes() ([]models.DeviceType, error) {
	return idt.inv.listDeviceTypes()
}

func (idt *IDeviceTypeImpl) GetDeviceType(id uint) (*models.DeviceType, error) {
	return idt.inv.getDeviceType(id)
}

func (idt *IDeviceTypeImpl) CreateDeviceType(deviceType *models.DeviceType) error {
	return idt.inv.createDeviceType(deviceType)
}

func (idt *IDeviceTypeImpl) UpdateDeviceType(id uint, name string) (*models.DeviceType, error) {
	return idt.inv.updateDeviceType(id, name)
}

func (idt *IDeviceTypeImpl) DeleteDeviceType(id uint) (*models.DeviceType, error) {
	return idt.inv.deleteDeviceType(id)
}

func (idt *IDeviceTypeImpl) AttachMetric(deviceTypeID uint, metricID uint) (*models.DeviceType, error) {
	return idt.inv.attachMetric(deviceTypeID, metricID)
}

func (idt *IDeviceTypeImpl) DetachMetric(deviceTypeID uint, metricID uint) (*models.DeviceType, error) {
	return idt.inv.detachMetric(deviceTypeID, metricID)
}

func (i *Inventory) GetIDeviceType() IDeviceType {
	return &IDeviceTypeImpl{inv: i}
}
