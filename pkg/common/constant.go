package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyInventoryDBType string = "INVENTORY_DB_TYPE"
	EnvKeyInventoryDbPath string = "INVENTORY_DB_PATH"

	EnvKeyInventoryHttpHostPort string = "INVENTORY_HTTP_HOST_PORT"

	EnvKeyInventoryCollectIntervalSeconds string = "INVENTORY_COLLECT_INTERVAL_SECONDS"
	EnvKeyInventorySampleTimeoutSeconds   string = "INVENTORY_SAMPLE_TIMEOUT_SECONDS"
	EnvKeyInventorySampleRate             string = "INVENTORY_SAMPLE_RATE"
	EnvKeyInventorySampleBurst            string = "INVENTORY_SAMPLE_BURST"

	LoggerNameInventoryCore string = "inventory_core"
	LoggerNameCollector     string = "collector"
	LoggerNameRestfulServer string = "restful_server"

	LoggerFieldCategory string = "category"

	LoggerCategorySite       string = "site"
	LoggerCategoryDeviceType string = "device_type"
	LoggerCategoryDevice     string = "device"
	LoggerCategoryMetric     string = "metric"
	LoggerCategoryRegistry   string = "registry"
)
