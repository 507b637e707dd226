package inventory

import (
	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/models"
	"go.uber.org/zap"
)

func (i *Inventory) listMetrics() ([]models.Metric, error) {
	var metrics []models.Metric
	err := i.Db.Conn.Find(&metrics).Error
	return metrics, err
}

func (i *Inventory) getMetric(id uint) (*models.Metric, error) {
	var metric models.Metric
	if err := i.Db.Conn.First(&metric, id).Error; err != nil {
		return nil, notFoundOr(err, "Metric")
	}
	return &metric, nil
}

func (i *Inventory) createMetric(metric *models.Metric) error {
	logger := common.GetLoggerWith(
		common.LoggerNameInventoryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryMetric),
	)

	if metric.Call == "" {
		metric.Call = "mock"
	}

	if err := i.Db.Conn.Create(metric).Error; err != nil {
		return err
	}

	logger.Info("Created metric", zap.Reflect("metric", metric))
	return nil
}

func (i *Inventory) updateMetric(id uint, input *models.Metric) (*models.Metric, error) {
	var metric models.Metric
	if err := i.Db.Conn.First(&metric, id).Error; err != nil {
		return nil, notFoundOr(err, "Metric")
	}

	metric.Name = input.Name
	metric.Unit = input.Unit
	metric.Call = input.Call
	if err := i.Db.Conn.Save(&metric).Error; err != nil {
		return nil, err
	}
	return &metric, nil
}

// deleteMetric cascades to the type associations and to every measurement
// recorded for the metric.
func (i *Inventory) deleteMetric(id uint) (*models.Metric, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameInventoryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryMetric),
	)

	var metric models.Metric
	if err := i.Db.Conn.First(&metric, id).Error; err != nil {
		return nil, notFoundOr(err, "Metric")
	}

	if err := i.Db.Conn.Delete(&metric).Error; err != nil {
		return nil, err
	}

	logger.Info("Deleted metric", zap.Uint("metric_id", id), zap.String("name", metric.Name))
	return &metric, nil
}

type IMetricImpl struct {
	inv *Inventory
}

func (im *IMetricImpl) ListMetrics() ([]models.Metric, error) {
	return im.inv.listMetrics()
}

func (im *IMetricImpl) GetMetric(id uint) (*models.Metric, error) {
	return im.inv.getMetric(id)
}

func (im *IMetricImpl) CreateMetric(metric *models.Metric) error {
	return im.inv.createMetric(metric)
}

func (im *IMetricImpl) UpdateMetric(id uint, input *models.Metric) (*models.Metric, error) {
	return im.inv.updateMetric(id, input)
}

func (im *IMetricImpl) DeleteMetric(id uint) (*models.Metric, error) {
	return im.inv.deleteMetric(id)
}

func (i *Inventory) GetIMetric() IMetric {
	return &IMetricImpl{inv: i}
}
