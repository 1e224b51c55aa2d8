package simulator

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/InsiderP/smart-energy/internal/energy"
	"github.com/InsiderP/smart-energy/internal/observability/metrics"
)

// connectivityFailureProbability is the chance a device reports
// disconnected on a given tick.
const connectivityFailureProbability = 0.1

// ReadingSink receives every reading the simulator persists. Sinks are
// best-effort; a sink must not block the tick.
type ReadingSink interface {
	PublishReading(reading energy.Reading)
}

// Simulator generates one synthetic reading per active device per tick.
type Simulator struct {
	devices  energy.DeviceRepository
	readings energy.ReadingRepository
	registry *PayloadRegistry
	rng      *rand.Rand
	sinks    []ReadingSink
	logger   *log.Logger
}

// Option configures the Simulator.
type Option func(*Simulator)

// WithRand overrides the random source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSinks attaches sinks notified after each persisted reading.
func WithSinks(sinks ...ReadingSink) Option {
	return func(s *Simulator) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// New constructs a Simulator.
func New(devices energy.DeviceRepository, readings energy.ReadingRepository, registry *PayloadRegistry, logger *log.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		devices:  devices,
		readings: readings,
		registry: registry,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick loads all active devices and persists one reading for each. A
// per-device failure is logged and skipped so sibling devices in the
// same tick still get their readings. Only a failure to enumerate
// devices surfaces as the tick's error.
func (s *Simulator) Tick(ctx context.Context, now time.Time) error {
	devices, err := s.devices.ListActive(ctx)
	if err != nil {
		return energy.WrapStorage("list active devices", err)
	}

	for _, device := range devices {
		reading := s.generateReading(device, now)
		if err := s.readings.Insert(ctx, reading); err != nil {
			metrics.ReadingPersisted(metrics.ResultError)
			if s.logger != nil {
				s.logger.Printf("tick insert error: device=%s ts=%s err=%v", device.DeviceID, now.Format(time.RFC3339), err)
			}
			continue
		}
		metrics.ReadingPersisted(metrics.ResultSuccess)

		if err := s.devices.UpdateTickState(ctx, device.DeviceID, reading.IsConnected, reading.EnergyConsumption); err != nil && s.logger != nil {
			s.logger.Printf("tick device update error: device=%s err=%v", device.DeviceID, err)
		}

		for _, sink := range s.sinks {
			sink.PublishReading(reading)
		}
	}
	return nil
}

func (s *Simulator) generateReading(device energy.Device, now time.Time) energy.Reading {
	return energy.Reading{
		DeviceID:          device.DeviceID,
		Timestamp:         now,
		EnergyConsumption: energyConsumption(device.DeviceType, s.rng),
		IsConnected:       s.rng.Float64() > connectivityFailureProbability,
		SensorData:        s.registry.Generate(device.DeviceType, s.rng, now),
	}
}
