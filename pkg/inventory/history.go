package inventory

import (
	"sort"

	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/models"
)

// Both projections order by timestamp descending with id descending as the
// tie-break, so when two measurements carry an identical timestamp the later
// insertion wins. history[0] for a metric is therefore always the same row
// the snapshot picks.

func (i *Inventory) latestSnapshot(deviceID uint) ([]models.Measurement, error) {
	var measurements []models.Measurement
	err := i.Db.Conn.
		Preload("Metric").
		Where("device_id = ?", deviceID).
		Order("timestamp DESC, id DESC").
		Find(&measurements).Error
	if err != nil {
		return nil, err
	}

	// first occurrence per metric is the newest, given the query order
	latest := common.Reducer(measurements,
		func(acc map[uint]models.Measurement, m models.Measurement) map[uint]models.Measurement {
			if _, seen := acc[m.MetricID]; !seen {
				acc[m.MetricID] = m
			}
			return acc
		},
		map[uint]models.Measurement{})

	metricIDs := make([]uint, 0, len(latest))
	for metricID := range latest {
		metricIDs = append(metricIDs, metricID)
	}
	sort.Slice(metricIDs, func(a, b int) bool { return metricIDs[a] < metricIDs[b] })

	return common.Mapper(metricIDs, func(metricID uint) models.Measurement {
		return latest[metricID]
	}), nil
}

func (i *Inventory) history(deviceID uint, metricID uint) ([]models.Measurement, error) {
	var measurements []models.Measurement
	err := i.Db.Conn.
		Where("device_id = ? AND metric_id = ?", deviceID, metricID).
		Order("timestamp DESC, id DESC").
		Find(&measurements).Error
	return measurements, err
}

type IHistoryImpl struct {
	inv *Inventory
}

func (ih *IHistoryImpl) LatestSnapshot(deviceID uint) ([]models.Measurement, error) {
	return ih.inv.latestSnapshot(deviceID)
}

func (ih *IHistoryImpl) History(deviceID uint, metricID uint) ([]models.Measurement, error) {
	return ih.inv.history(deviceID, metricID)
}

func (i *Inventory) GetIHistory() IHistory {
	return &IHistoryImpl{inv: i}
}
