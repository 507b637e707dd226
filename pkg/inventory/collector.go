package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	DefaultCollectInterval = 180 * time.Second
	DefaultSampleTimeout   = 10 * time.Second
)

// Collector periodically samples every active device's metrics and appends
// the results to the measurement log. It never writes the catalog. Failures
// stay inside the cycle: a failed sampling call skips that metric, an unknown
// call identifier skips the rest of that device, and a failed commit is left
// for the next tick.
type Collector struct {
	Inv      *Inventory
	Registry IRegistry

	Interval      time.Duration
	SampleTimeout time.Duration
	Limiter       *rate.Limiter

	runMu sync.Mutex
	stop  chan struct{}
	done  chan struct{}
}

type CollectorOpts struct {
	Interval      time.Duration
	SampleTimeout time.Duration
	SampleRate    rate.Limit // 0 means unlimited
	SampleBurst   int
}

func NewCollector(inv *Inventory, registry IRegistry, opts CollectorOpts) *Collector {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultCollectInterval
	}

	sampleTimeout := opts.SampleTimeout
	if sampleTimeout <= 0 {
		sampleTimeout = DefaultSampleTimeout
	}

	sampleRate := opts.SampleRate
	if sampleRate <= 0 {
		sampleRate = rate.Inf
	}

	return &Collector{
		Inv:           inv,
		Registry:      registry,
		Interval:      interval,
		SampleTimeout: sampleTimeout,
		Limiter:       rate.NewLimiter(sampleRate, max(opts.SampleBurst, 1)),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the collection loop on its own goroutine, off the request
// path. A tick that arrives while the previous cycle is still running is
// skipped rather than overlapped.
func (c *Collector) Start() {
	logger := common.GetLoggerWith(common.LoggerNameCollector)
	logger.Info("Starting collector", zap.Duration("interval", c.Interval))

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(c.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.stop:
				logger.Info("Collector stopped")
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), c.Interval)
				err := c.RunOnce(ctx)
				cancel()

				switch {
				case errors.Is(err, ErrCycleRunning):
					logger.Warn("Previous collection cycle still running, skipping tick")
				case err != nil:
					logger.Error("Collection cycle finished with error", zap.Error(err))
				}
			}
		}
	}()
}

// Stop blocks until the loop has exited. A cycle in flight finishes first.
func (c *Collector) Stop() {
	close(c.stop)
	<-c.done
}

func (c *Collector) RunOnce(ctx context.Context) error {
	if !c.runMu.TryLock() {
		return ErrCycleRunning
	}
	defer c.runMu.Unlock()
	return c.collect(ctx)
}

func (c *Collector) collect(ctx context.Context) error {
	logger := common.GetLoggerWith(common.LoggerNameCollector)

	started := time.Now()
	collectorRunsTotal.Inc()
	logger.Info("Starting measurement of devices")

	devices, err := c.Inv.Device.ListActiveDevices()
	if err != nil {
		return fmt.Errorf("failed to load active devices: %w", err)
	}

	var batch []models.Measurement
	var cycleErr error

	for di := range devices {
		device := &devices[di]
		for mi := range device.DeviceType.Metrics {
			metric := &device.DeviceType.Metrics[mi]

			sampler, err := c.Registry.Resolve(metric.Call)
			if err != nil {
				// catalog misconfiguration; the rest of this device's
				// metrics come from the same broken configuration, so stop
				// the device here and let an operator fix the metric
				collectorConfigErrorsTotal.Inc()
				logger.Error("Metric sampling function not registered",
					zap.String("metric", metric.Name),
					zap.String("call", metric.Call),
					zap.Uint("device_id", device.ID))
				cycleErr = err
				break
			}

			value, err := c.sample(ctx, sampler, metric, device)
			if err != nil {
				collectorSamplingFailuresTotal.Inc()
				logger.Warn("Sampling failed, skipping metric",
					zap.String("metric", metric.Name),
					zap.String("call", metric.Call),
					zap.Uint("device_id", device.ID),
					zap.Error(err))
				continue
			}

			batch = append(batch, models.Measurement{
				DeviceID:  device.ID,
				MetricID:  metric.ID,
				Value:     value,
				Timestamp: time.Now().UTC(),
			})
		}
	}

	if len(batch) > 0 {
		err := c.Inv.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&batch).Error
		})
		if err != nil {
			return fmt.Errorf("failed to commit measurements, will retry next cycle: %w", err)
		}
		collectorMeasurementsTotal.Add(float64(len(batch)))
	}

	collectorRunDurationSeconds.Observe(time.Since(started).Seconds())
	logger.Info("Measurement of devices completed",
		zap.Int("devices", len(devices)),
		zap.Int("measurements", len(batch)))

	return cycleErr
}

func (c *Collector) sample(ctx context.Context, sampler SamplerFunc, metric *models.Metric, device *models.Device) (float64, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return 0, err
	}

	sctx, cancel := context.WithTimeout(ctx, c.SampleTimeout)
	defer cancel()

	return sampler(sctx, metric, device)
}
