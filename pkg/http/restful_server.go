package http

import (
	"devmon.xyz/device-inventory-service/pkg/inventory"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RestfulServer struct {
	Server *gin.Engine
	Inv    *inventory.Inventory
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	// metric CRUD owns /metrics/, so the exposition endpoint lives on the
	// z-page next to /healthz
	rs.Server.GET("/metricsz", gin.WrapH(promhttp.Handler()))

	rs.Server.GET("/", rs.ListSites)

	site := rs.Server.Group("/site")
	{
		site.GET("/:id", rs.GetSite)
		site.POST("/", rs.CreateSite)
		site.POST("/:id", rs.UpdateSite)
		site.DELETE("/:id", rs.DeleteSite)
	}

	rs.Server.GET("/device_types/", rs.ListDeviceTypes)
	deviceType := rs.Server.Group("/device_type")
	{
		deviceType.GET("/:id", rs.GetDeviceType)
		deviceType.POST("/", rs.CreateDeviceType)
		deviceType.POST("/:id", rs.UpdateDeviceType)
		deviceType.POST("/:id/add_metric/:metric_id", rs.AddMetric)
		deviceType.POST("/:id/remove_metric/:metric_id", rs.RemoveMetric)
		deviceType.DELETE("/:id", rs.DeleteDeviceType)
	}

	device := rs.Server.Group("/device")
	{
		device.GET("/:id", rs.GetDevice)
		device.POST("/device_type/:device_type_id/site/:site_id", rs.CreateDevice)
		device.POST("/:id", rs.UpdateDevice)
		device.DELETE("/:id", rs.DeleteDevice)
	}

	rs.Server.GET("/metrics/", rs.ListMetrics)
	metric := rs.Server.Group("/metric")
	{
		metric.GET("/:id", rs.GetMetric)
		metric.POST("/", rs.CreateMetric)
		metric.POST("/:id", rs.UpdateMetric)
		metric.DELETE("/:id", rs.DeleteMetric)
	}

	rs.Server.GET("/history/:device_id/:metric_id", rs.GetHistory)
}
