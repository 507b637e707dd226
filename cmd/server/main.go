package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/db"
	invHttp "devmon.xyz/device-inventory-service/pkg/http"
	"devmon.xyz/device-inventory-service/pkg/inventory"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func envSeconds(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		log.Fatalf("Invalid %s, should be a positive integer number of seconds", key)
	}
	return time.Duration(seconds) * time.Second
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	var err error
	dbType := os.Getenv(common.EnvKeyInventoryDBType)
	switch dbType {
	case "file":
		dbInstance, err = db.Open(db.UseSqliteDialector())
	case "memory":
		dbInstance, err = db.Open(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown INVENTORY_DB_TYPE: " + dbType)
	}
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}

	logger := common.GetLogger()

	inv := inventory.Inventory{
		Db: *dbInstance,
	}
	inv.WithServices(inventory.ServiceOpts{
		Site:       inv.GetISite(),
		DeviceType: inv.GetIDeviceType(),
		Metric:     inv.GetIMetric(),
		Device:     inv.GetIDevice(),
		History:    inv.GetIHistory(),
	})

	registry := inventory.NewRegistry()

	var sampleRate float64
	var sampleBurst int64
	if raw := strings.TrimSpace(os.Getenv(common.EnvKeyInventorySampleRate)); raw != "" {
		if sampleRate, err = strconv.ParseFloat(raw, 64); err != nil {
			log.Fatal("Invalid INVENTORY_SAMPLE_RATE, should be a float64 value")
		}
	}
	if raw := strings.TrimSpace(os.Getenv(common.EnvKeyInventorySampleBurst)); raw != "" {
		if sampleBurst, err = strconv.ParseInt(raw, 10, 64); err != nil {
			log.Fatal("Invalid INVENTORY_SAMPLE_BURST, should be an int value")
		}
	}

	collector := inventory.NewCollector(&inv, registry, inventory.CollectorOpts{
		Interval:      envSeconds(common.EnvKeyInventoryCollectIntervalSeconds, inventory.DefaultCollectInterval),
		SampleTimeout: envSeconds(common.EnvKeyInventorySampleTimeoutSeconds, inventory.DefaultSampleTimeout),
		SampleRate:    rate.Limit(sampleRate),
		SampleBurst:   int(sampleBurst),
	})
	collector.Start()

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyInventoryHttpHostPort))
	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &invHttp.RestfulServer{
		Server: gin.Default(),
		Inv:    &inv,
	}
	rs.Setup()

	logger.Info("Starting HTTP server on: " + httpHostPort)
	go func() {
		if err := rs.Server.Run(httpHostPort); err != nil {
			log.Fatalf("http server failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// stop the collector before closing the store so no cycle commits
	// through a closed handle
	logger.Info("Shutting down")
	collector.Stop()
	if err := dbInstance.Close(); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	}
}
