// Package memory holds in-memory repositories for demo mode and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/InsiderP/smart-energy/internal/energy"
)

// DeviceRepository is an in-memory device store.
type DeviceRepository struct {
	mu      sync.RWMutex
	devices []energy.Device
}

// NewDeviceRepository constructs a repository.
func NewDeviceRepository() *DeviceRepository {
	return &DeviceRepository{}
}

// Count returns the number of stored devices.
func (r *DeviceRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices), nil
}

// InsertMany appends devices in order.
func (r *DeviceRepository) InsertMany(_ context.Context, devices []energy.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = append(r.devices, devices...)
	return nil
}

// ListActive returns devices flagged active, in insertion order.
func (r *DeviceRepository) ListActive(_ context.Context) ([]energy.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make([]energy.Device, 0, len(r.devices))
	for _, device := range r.devices {
		if device.IsActive {
			active = append(active, device)
		}
	}
	return active, nil
}

// UpdateTickState mutates connectivity and draw for one device.
func (r *DeviceRepository) UpdateTickState(_ context.Context, deviceID string, connected bool, watts float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.devices {
		if r.devices[i].DeviceID == deviceID {
			r.devices[i].IsConnected = connected
			r.devices[i].EnergyConsumptionWatts = watts
			return nil
		}
	}
	return energy.ErrNotFound
}

// ReadingRepository is an in-memory reading store.
type ReadingRepository struct {
	mu       sync.RWMutex
	readings []energy.Reading
}

// NewReadingRepository constructs a repository.
func NewReadingRepository() *ReadingRepository {
	return &ReadingRepository{}
}

// Insert appends one reading.
func (r *ReadingRepository) Insert(_ context.Context, reading energy.Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, reading)
	return nil
}

// Latest returns the most recent reading or nil.
func (r *ReadingRepository) Latest(_ context.Context) (*energy.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *energy.Reading
	for i := range r.readings {
		if latest == nil || r.readings[i].Timestamp.After(latest.Timestamp) {
			latest = &r.readings[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

// LatestN returns the limit most recent readings, newest first.
func (r *ReadingRepository) LatestN(_ context.Context, limit int) ([]energy.Reading, error) {
	r.mu.RLock()
	sorted := make([]energy.Reading, len(r.readings))
	copy(sorted, r.readings)
	r.mu.RUnlock()

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.After(sorted[j].Timestamp) })
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// LatestForDevice returns the limit most recent readings for one
// device, newest first.
func (r *ReadingRepository) LatestForDevice(_ context.Context, deviceID string, limit int) ([]energy.Reading, error) {
	r.mu.RLock()
	matched := make([]energy.Reading, 0)
	for _, reading := range r.readings {
		if reading.DeviceID == deviceID {
			matched = append(matched, reading)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// HourlySums groups readings in [start, end] by hour-of-day.
func (r *ReadingRepository) HourlySums(_ context.Context, start, end time.Time) ([]energy.HourlyBucket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sums := make(map[int]float64)
	for _, reading := range r.readings {
		if reading.Timestamp.Before(start) || reading.Timestamp.After(end) {
			continue
		}
		sums[reading.Timestamp.UTC().Hour()] += reading.EnergyConsumption
	}

	hours := make([]int, 0, len(sums))
	for hour := range sums {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	buckets := make([]energy.HourlyBucket, 0, len(hours))
	for _, hour := range hours {
		buckets = append(buckets, energy.HourlyBucket{Hour: hour, Consumption: sums[hour]})
	}
	return buckets, nil
}

// Range returns readings in [start, end] inclusive, oldest first.
func (r *ReadingRepository) Range(_ context.Context, start, end time.Time) ([]energy.Reading, error) {
	r.mu.RLock()
	matched := make([]energy.Reading, 0)
	for _, reading := range r.readings {
		if reading.Timestamp.Before(start) || reading.Timestamp.After(end) {
			continue
		}
		matched = append(matched, reading)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Timestamp.Before(matched[j].Timestamp) })
	return matched, nil
}

// BudgetRepository is an in-memory budget store.
type BudgetRepository struct {
	mu      sync.RWMutex
	budgets []energy.Budget
}

// NewBudgetRepository constructs a repository.
func NewBudgetRepository() *BudgetRepository {
	return &BudgetRepository{}
}

// Insert stores one budget, stamping CreatedAt when unset.
func (r *BudgetRepository) Insert(_ context.Context, budget energy.Budget) error {
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.budgets = append(r.budgets, budget)
	return nil
}

// CurrentAt returns the budget containing now. When windows overlap,
// the latest StartDate wins, then the latest CreatedAt.
func (r *BudgetRepository) CurrentAt(_ context.Context, now time.Time) (*energy.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var current *energy.Budget
	for i := range r.budgets {
		b := &r.budgets[i]
		if !b.Contains(now) {
			continue
		}
		if current == nil ||
			b.StartDate.After(current.StartDate) ||
			(b.StartDate.Equal(current.StartDate) && b.CreatedAt.After(current.CreatedAt)) {
			current = b
		}
	}
	if current == nil {
		return nil, nil
	}
	copied := *current
	return &copied, nil
}

// Overlaps reports whether any budget window intersects [start, end].
func (r *BudgetRepository) Overlaps(_ context.Context, start, end time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.budgets {
		if !start.After(b.EndDate) && !end.Before(b.StartDate) {
			return true, nil
		}
	}
	return false, nil
}
