package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxDevices int = 1000
var httpHostPort string = "127.0.0.1:1080"

func postJSON(path string, payload any) map[string]any {
	body, _ := json.Marshal(payload)
	resp, err := http.Post(
		fmt.Sprintf("http://%s%s", httpHostPort, path),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		log.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("POST %s returned %d", path, resp.StatusCode)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		log.Fatalf("POST %s returned unparsable body: %v", path, err)
	}
	return decoded
}

func getOK(path string) {
	resp, err := http.Get(fmt.Sprintf("http://%s%s", httpHostPort, path))
	if err != nil {
		log.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("GET %s returned %d", path, resp.StatusCode)
	}
}

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	site := postJSON("/site/", map[string]any{"name": "bench-site-" + uuid.NewString()})
	siteID := int(site["id"].(float64))

	deviceType := postJSON("/device_type/", map[string]any{"name": "bench-type-" + uuid.NewString()})
	deviceTypeID := int(deviceType["id"].(float64))

	metric := postJSON("/metric/", map[string]any{
		"name": "bench-metric-" + uuid.NewString(),
		"unit": "unit",
		"call": "mock",
	})
	metricID := int(metric["id"].(float64))

	postJSON(fmt.Sprintf("/device_type/%d/add_metric/%d", deviceTypeID, metricID), map[string]any{})

	fmt.Printf("catalog seeded: site=%d type=%d metric=%d\n", siteID, deviceTypeID, metricID)

	deviceIDs := make([]int, maxDevices)

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	for i := 0; i < maxDevices; i++ {
		device := postJSON(
			fmt.Sprintf("/device/device_type/%d/site/%d", deviceTypeID, siteID),
			map[string]any{"name": "bench-device-" + uuid.NewString()},
		)
		deviceIDs[i] = int(device["id"].(float64))
	}
	usedTime = time.Since(startTime)
	fmt.Printf("created %v devices in %v (%.2f devices/sec)\n",
		maxDevices, usedTime, float64(maxDevices)/usedTime.Seconds())

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for _, deviceID := range deviceIDs {
		deviceID := deviceID
		wg.Add(1)
		go func() {
			defer wg.Done()
			getOK(fmt.Sprintf("/device/%d", deviceID))
			getOK(fmt.Sprintf("/history/%d/%d", deviceID, metricID))
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)
	fmt.Printf("read %v snapshots + histories in %v (%.2f reads/sec)\n",
		maxDevices, usedTime, float64(2*maxDevices)/usedTime.Seconds())
}
