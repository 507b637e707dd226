package inventory

import (
	"context"
	"math/rand"

	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/models"
	"go.uber.org/zap"
)

// Registry maps a metric's call identifier to its sampling function. All
// registrations happen at startup, before the collector runs; after that the
// table is read-only, so lookups need no locking.
type Registry struct {
	samplers map[string]SamplerFunc
}

func NewRegistry() *Registry {
	r := &Registry{samplers: map[string]SamplerFunc{}}
	r.Register("mock", MockSampler)
	return r
}

func (r *Registry) Register(name string, fn SamplerFunc) {
	logger := common.GetLoggerWith(
		common.LoggerNameInventoryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRegistry),
	)

	r.samplers[name] = fn
	logger.Info("Registered sampler function", zap.String("call", name))
}

func (r *Registry) Resolve(call string) (SamplerFunc, error) {
	fn, ok := r.samplers[call]
	if !ok {
		return nil, &UnknownSamplerError{Call: call}
	}
	return fn, nil
}

// MockSampler stands in for a real telemetry source and returns a
// pseudo-random value in [1, 100).
func MockSampler(_ context.Context, _ *models.Metric, _ *models.Device) (float64, error) {
	return 1 + rand.Float64()*99, nil
}
