package simulator

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/InsiderP/smart-energy/internal/energy"
	"github.com/InsiderP/smart-energy/internal/energy/memory"
)

type flakyReadingRepo struct {
	energy.ReadingRepository
	mu       sync.Mutex
	failFor  string
	inserted []energy.Reading
}

func (r *flakyReadingRepo) Insert(_ context.Context, reading energy.Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reading.DeviceID == r.failFor {
		return errors.New("disk full")
	}
	r.inserted = append(r.inserted, reading)
	return nil
}

type recordingSink struct {
	mu       sync.Mutex
	readings []energy.Reading
}

func (s *recordingSink) PublishReading(reading energy.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, reading)
}

func seededDevices(t *testing.T) *memory.DeviceRepository {
	t.Helper()
	repo := memory.NewDeviceRepository()
	err := repo.InsertMany(context.Background(), []energy.Device{
		{DeviceID: "BULB001", DeviceType: "smart-bulb", IsActive: true},
		{DeviceID: "PLUG001", DeviceType: "smart-plug", IsActive: true},
		{DeviceID: "FRIDGE001", DeviceType: "refrigerator", IsActive: true},
		{DeviceID: "CAM001", DeviceType: "camera", IsActive: false},
	})
	if err != nil {
		t.Fatalf("seed devices: %v", err)
	}
	return repo
}

func TestTickPersistsOneReadingPerActiveDevice(t *testing.T) {
	devices := seededDevices(t)
	readings := memory.NewReadingRepository()
	sim := New(devices, readings, NewPayloadRegistry(), nil, WithRand(rand.New(rand.NewSource(1))))

	now := time.Date(2026, time.August, 29, 10, 30, 0, 0, time.UTC)
	if err := sim.Tick(context.Background(), now); err != nil {
		t.Fatalf("tick: %v", err)
	}

	stored, err := readings.LatestN(context.Background(), 10)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("got %d readings, want 3 (inactive devices are skipped)", len(stored))
	}
	for _, reading := range stored {
		if reading.DeviceID == "CAM001" {
			t.Error("inactive device produced a reading")
		}
		if reading.EnergyConsumption < 0 {
			t.Errorf("negative consumption for %s", reading.DeviceID)
		}
		if len(reading.SensorData) == 0 {
			t.Errorf("empty sensor payload for %s", reading.DeviceID)
		}
		if !reading.Timestamp.Equal(now) {
			t.Errorf("timestamp = %v, want %v", reading.Timestamp, now)
		}
	}
}

func TestTickIsolatesPerDeviceFailures(t *testing.T) {
	devices := seededDevices(t)
	readings := &flakyReadingRepo{failFor: "PLUG001"}
	sim := New(devices, readings, NewPayloadRegistry(), nil, WithRand(rand.New(rand.NewSource(2))))

	if err := sim.Tick(context.Background(), time.Now().UTC()); err != nil {
		t.Fatalf("tick should swallow per-device errors, got %v", err)
	}

	if len(readings.inserted) != 2 {
		t.Fatalf("got %d sibling readings, want 2", len(readings.inserted))
	}
	for _, reading := range readings.inserted {
		if reading.DeviceID == "PLUG001" {
			t.Error("failed device should not appear among inserts")
		}
	}
}

func TestTickUpdatesDeviceState(t *testing.T) {
	devices := seededDevices(t)
	readings := memory.NewReadingRepository()
	sim := New(devices, readings, NewPayloadRegistry(), nil, WithRand(rand.New(rand.NewSource(3))))

	if err := sim.Tick(context.Background(), time.Now().UTC()); err != nil {
		t.Fatalf("tick: %v", err)
	}

	active, err := devices.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var touched int
	for _, device := range active {
		if device.EnergyConsumptionWatts > 0 {
			touched++
		}
	}
	if touched != len(active) {
		t.Errorf("tick updated %d of %d active devices", touched, len(active))
	}
}

func TestTickNotifiesSinks(t *testing.T) {
	devices := seededDevices(t)
	readings := memory.NewReadingRepository()
	sink := &recordingSink{}
	sim := New(devices, readings, NewPayloadRegistry(), nil,
		WithRand(rand.New(rand.NewSource(4))), WithSinks(sink))

	if err := sim.Tick(context.Background(), time.Now().UTC()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(sink.readings) != 3 {
		t.Errorf("sink saw %d readings, want 3", len(sink.readings))
	}
}

type failingDeviceRepo struct {
	energy.DeviceRepository
}

func (failingDeviceRepo) ListActive(context.Context) ([]energy.Device, error) {
	return nil, errors.New("connection refused")
}

func TestTickSurfacesListFailure(t *testing.T) {
	sim := New(failingDeviceRepo{}, memory.NewReadingRepository(), NewPayloadRegistry(), nil)
	err := sim.Tick(context.Background(), time.Now().UTC())
	var storageErr *energy.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("err = %v, want StorageError", err)
	}
}
