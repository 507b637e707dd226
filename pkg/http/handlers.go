package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/inventory"
	"devmon.xyz/device-inventory-service/pkg/models"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type SiteRequest struct {
	Name string `json:"name"`
}

var siteRequestSchema = z.Struct(z.Shape{
	"name": z.String().Required(),
})

type DeviceTypeRequest struct {
	Name string `json:"name"`
}

var deviceTypeRequestSchema = z.Struct(z.Shape{
	"name": z.String().Required(),
})

type MetricRequest struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
	Call string `json:"call"`
}

var metricRequestSchema = z.Struct(z.Shape{
	"name": z.String().Required(),
	"unit": z.String().Required(),
	"call": z.String(),
})

type DeviceCreateRequest struct {
	Name string `json:"name"`
}

var deviceCreateRequestSchema = z.Struct(z.Shape{
	"name": z.String(),
})

type DeviceRequest struct {
	Name         string `json:"name"`
	IsActive     bool   `json:"is_active" zog:"is_active"`
	SiteID       int    `json:"site_id" zog:"site_id"`
	DeviceTypeID int    `json:"device_type_id" zog:"device_type_id"`
}

// Shape keys address the struct fields; the zog tags above carry the
// snake_case wire keys.
var deviceRequestSchema = z.Struct(z.Shape{
	"name":         z.String().Required(),
	"IsActive":     z.Bool(),
	"SiteID":       z.Int().Required(),
	"DeviceTypeID": z.Int().Required(),
})

func siteLink(id uint) string       { return fmt.Sprintf("/site/%d", id) }
func deviceTypeLink(id uint) string { return fmt.Sprintf("/device_type/%d", id) }
func deviceLink(id uint) string     { return fmt.Sprintf("/device/%d", id) }
func metricLink(id uint) string     { return fmt.Sprintf("/metric/%d", id) }
func historyLink(deviceID uint, metricID uint) string {
	return fmt.Sprintf("/history/%d/%d", deviceID, metricID)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// writeError maps the service error taxonomy onto the HTTP surface: missing
// entities are 404, association conflicts are 400, the rest is 500.
func writeError(c *gin.Context, err error) {
	var notFound *inventory.NotFoundError
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound.Error()})
	case errors.Is(err, inventory.ErrMetricAlreadyAttached):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Metric already exists in Device Type"})
	case errors.Is(err, inventory.ErrMetricNotAttached):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Metric not found in Device Type"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

func metricEntry(metric models.Metric) gin.H {
	return gin.H{"id": metric.ID, "name": metric.Name, "unit": metric.Unit, "call": metric.Call}
}

func deviceTypePage(deviceType *models.DeviceType) gin.H {
	return gin.H{
		"id":   deviceType.ID,
		"name": deviceType.Name,
		"link": deviceTypeLink(deviceType.ID),
		"metrics": common.Mapper(deviceType.Metrics, func(metric models.Metric) gin.H {
			return metricEntry(metric)
		}),
	}
}

func (rs *RestfulServer) ListSites(c *gin.Context) {
	sites, err := rs.Inv.Site.ListSites()
	if err != nil {
		writeError(c, err)
		return
	}

	if len(sites) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "The system is empty, please create a site first."})
		return
	}

	c.JSON(http.StatusOK, common.Mapper(sites, func(site models.Site) gin.H {
		return gin.H{"id": site.ID, "name": site.Name, "link": siteLink(site.ID)}
	}))
}

func (rs *RestfulServer) GetSite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	site, err := rs.Inv.Site.GetSite(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   site.ID,
		"name": site.Name,
		"link": siteLink(site.ID),
		"devices": common.Mapper(site.Devices, func(device models.Device) gin.H {
			return gin.H{
				"id":          device.ID,
				"name":        device.Name,
				"device_type": device.DeviceType.Name,
				"link":        deviceLink(device.ID),
			}
		}),
	})
}

func (rs *RestfulServer) CreateSite(c *gin.Context) {
	var req SiteRequest
	if err := siteRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	site := models.Site{Name: req.Name}
	if err := rs.Inv.Site.CreateSite(&site); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": site.ID, "name": site.Name, "link": siteLink(site.ID)})
}

func (rs *RestfulServer) UpdateSite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SiteRequest
	if err := siteRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	site, err := rs.Inv.Site.UpdateSite(id, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": site.ID, "name": site.Name, "link": siteLink(site.ID)})
}

func (rs *RestfulServer) DeleteSite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	site, err := rs.Inv.Site.DeleteSite(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": fmt.Sprintf("Site %s deleted", site.Name)})
}

func (rs *RestfulServer) ListDeviceTypes(c *gin.Context) {
	deviceTypes, err := rs.Inv.DeviceType.ListDeviceTypes()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.Mapper(deviceTypes, func(deviceType models.DeviceType) gin.H {
		return gin.H{"id": deviceType.ID, "name": deviceType.Name, "link": deviceTypeLink(deviceType.ID)}
	}))
}

func (rs *RestfulServer) GetDeviceType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	deviceType, err := rs.Inv.DeviceType.GetDeviceType(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, deviceTypePage(deviceType))
}

func (rs *RestfulServer) CreateDeviceType(c *gin.Context) {
	var req DeviceTypeRequest
	if err := deviceTypeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	deviceType := models.DeviceType{Name: req.Name}
	if err := rs.Inv.DeviceType.CreateDeviceType(&deviceType); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": deviceType.ID, "name": deviceType.Name, "link": deviceTypeLink(deviceType.ID)})
}

func (rs *RestfulServer) UpdateDeviceType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req DeviceTypeRequest
	if err := deviceTypeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	deviceType, err := rs.Inv.DeviceType.UpdateDeviceType(id, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": deviceType.ID, "name": deviceType.Name, "link": deviceTypeLink(deviceType.ID)})
}

func (rs *RestfulServer) AddMetric(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	metricID, ok := paramID(c, "metric_id")
	if !ok {
		return
	}

	deviceType, err := rs.Inv.DeviceType.AttachMetric(id, metricID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, deviceTypePage(deviceType))
}

func (rs *RestfulServer) RemoveMetric(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	metricID, ok := paramID(c, "metric_id")
	if !ok {
		return
	}

	deviceType, err := rs.Inv.DeviceType.DetachMetric(id, metricID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, deviceTypePage(deviceType))
}

func (rs *RestfulServer) DeleteDeviceType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	deviceType, err := rs.Inv.DeviceType.DeleteDeviceType(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": fmt.Sprintf("Device Type %s deleted", deviceType.Name)})
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	device, err := rs.Inv.Device.GetDevice(id)
	if err != nil {
		writeError(c, err)
		return
	}

	snapshot, err := rs.Inv.History.LatestSnapshot(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        device.ID,
		"name":      device.Name,
		"link":      deviceLink(device.ID),
		"is_active": device.IsActive,
		"site": gin.H{
			"id":   device.Site.ID,
			"name": device.Site.Name,
			"link": siteLink(device.Site.ID),
		},
		"device_type": gin.H{
			"id":   device.DeviceType.ID,
			"name": device.DeviceType.Name,
			"link": deviceTypeLink(device.DeviceType.ID),
		},
		"last_measures": common.Mapper(snapshot, func(measurement models.Measurement) gin.H {
			return gin.H{
				"timestamp":   measurement.Timestamp,
				"metric_id":   measurement.MetricID,
				"metric_name": measurement.Metric.Name,
				"value":       measurement.Value,
				"unit":        measurement.Metric.Unit,
				"link":        historyLink(device.ID, measurement.MetricID),
			}
		}),
	})
}

func (rs *RestfulServer) CreateDevice(c *gin.Context) {
	deviceTypeID, ok := paramID(c, "device_type_id")
	if !ok {
		return
	}
	siteID, ok := paramID(c, "site_id")
	if !ok {
		return
	}

	var req DeviceCreateRequest
	if err := deviceCreateRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	device := models.Device{Name: req.Name, IsActive: true}
	if err := rs.Inv.Device.CreateDevice(&device, deviceTypeID, siteID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             device.ID,
		"name":           device.Name,
		"link":           deviceLink(device.ID),
		"is_active":      device.IsActive,
		"site_id":        device.SiteID,
		"device_type_id": device.DeviceTypeID,
	})
}

func (rs *RestfulServer) UpdateDevice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req DeviceRequest
	if err := deviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	device, err := rs.Inv.Device.UpdateDevice(id, &models.Device{
		Name:         req.Name,
		IsActive:     req.IsActive,
		SiteID:       uint(req.SiteID),
		DeviceTypeID: uint(req.DeviceTypeID),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             device.ID,
		"name":           device.Name,
		"link":           deviceLink(device.ID),
		"is_active":      device.IsActive,
		"site_id":        device.SiteID,
		"device_type_id": device.DeviceTypeID,
	})
}

func (rs *RestfulServer) DeleteDevice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	device, err := rs.Inv.Device.DeleteDevice(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": fmt.Sprintf("Device %s deleted", device.Name)})
}

func (rs *RestfulServer) ListMetrics(c *gin.Context) {
	metrics, err := rs.Inv.Metric.ListMetrics()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.Mapper(metrics, func(metric models.Metric) gin.H {
		entry := metricEntry(metric)
		entry["link"] = metricLink(metric.ID)
		return entry
	}))
}

func (rs *RestfulServer) GetMetric(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	metric, err := rs.Inv.Metric.GetMetric(id)
	if err != nil {
		writeError(c, err)
		return
	}

	entry := metricEntry(*metric)
	entry["link"] = metricLink(metric.ID)
	c.JSON(http.StatusOK, entry)
}

func (rs *RestfulServer) CreateMetric(c *gin.Context) {
	var req MetricRequest
	if err := metricRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	metric := models.Metric{Name: req.Name, Unit: req.Unit, Call: req.Call}
	if err := rs.Inv.Metric.CreateMetric(&metric); err != nil {
		writeError(c, err)
		return
	}

	entry := metricEntry(metric)
	entry["link"] = metricLink(metric.ID)
	c.JSON(http.StatusOK, entry)
}

func (rs *RestfulServer) UpdateMetric(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req MetricRequest
	if err := metricRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	metric, err := rs.Inv.Metric.UpdateMetric(id, &models.Metric{Name: req.Name, Unit: req.Unit, Call: req.Call})
	if err != nil {
		writeError(c, err)
		return
	}

	entry := metricEntry(*metric)
	entry["link"] = metricLink(metric.ID)
	c.JSON(http.StatusOK, entry)
}

func (rs *RestfulServer) DeleteMetric(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	metric, err := rs.Inv.Metric.DeleteMetric(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": fmt.Sprintf("Metric %s deleted", metric.Name)})
}

type HistoryEntry struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

func (rs *RestfulServer) GetHistory(c *gin.Context) {
	deviceID, ok := paramID(c, "device_id")
	if !ok {
		return
	}
	metricID, ok := paramID(c, "metric_id")
	if !ok {
		return
	}

	device, err := rs.Inv.Device.GetDevice(deviceID)
	if err != nil {
		writeError(c, err)
		return
	}

	metric, err := rs.Inv.Metric.GetMetric(metricID)
	if err != nil {
		writeError(c, err)
		return
	}

	measurements, err := rs.Inv.History.History(deviceID, metricID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device": gin.H{
			"id":   device.ID,
			"name": device.Name,
			"link": deviceLink(device.ID),
			"site": gin.H{
				"id":   device.Site.ID,
				"name": device.Site.Name,
				"link": siteLink(device.Site.ID),
			},
			"device_type": gin.H{
				"id":   device.DeviceType.ID,
				"name": device.DeviceType.Name,
				"link": deviceTypeLink(device.DeviceType.ID),
			},
		},
		"metric": gin.H{
			"id":   metric.ID,
			"name": metric.Name,
			"unit": metric.Unit,
		},
		"history": common.Mapper(measurements, func(measurement models.Measurement) HistoryEntry {
			return HistoryEntry{Value: measurement.Value, Timestamp: measurement.Timestamp}
		}),
	})
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
