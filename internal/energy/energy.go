package energy

import (
	"context"
	"time"
)

// Device is one simulated smart-home device from the seeded catalog.
// The simulator mutates IsConnected and EnergyConsumptionWatts on each
// tick; everything else is fixed at seed time.
type Device struct {
	DeviceID               string         `json:"deviceId"`
	DeviceName             string         `json:"deviceName"`
	DeviceType             string         `json:"deviceType"`
	IsActive               bool           `json:"isActive"`
	IsConnected            bool           `json:"isConnected"`
	Specifications         map[string]any `json:"specifications"`
	EnergyConsumptionWatts float64        `json:"energyConsumptionWatts"`
}

// Reading is one timestamped energy/sensor observation for one device.
// Readings are append-only and reference devices by id, not by pointer;
// a reading outlives deactivation of its device.
type Reading struct {
	DeviceID          string             `json:"deviceId"`
	Timestamp         time.Time          `json:"timestamp"`
	EnergyConsumption float64            `json:"energyConsumption"`
	IsConnected       bool               `json:"isConnected"`
	SensorData        map[string]any     `json:"sensorData,omitempty"`
	DeviceConsumption map[string]float64 `json:"deviceConsumption,omitempty"`
}

// Budget is a spending target valid inside [StartDate, EndDate].
type Budget struct {
	Amount    float64   `json:"amount"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Contains reports whether now falls inside the budget window.
func (b Budget) Contains(now time.Time) bool {
	return !now.Before(b.StartDate) && !now.After(b.EndDate)
}

// HourlyBucket is the per-hour consumption sum for the current day.
// Hours with no readings are absent, not zero-filled.
type HourlyBucket struct {
	Hour        int     `json:"hour"`
	Consumption float64 `json:"consumption"`
}

// HistoryBucket is a (calendar date, hour-of-day) consumption sum used
// for historical charts. DeviceConsumption carries the breakdown of the
// first reading seen in the bucket.
type HistoryBucket struct {
	Date              string             `json:"date"`
	Hour              int                `json:"hour"`
	Consumption       float64            `json:"consumption"`
	DeviceConsumption map[string]float64 `json:"deviceConsumption,omitempty"`
}

// TypeStat summarizes the devices of one type.
type TypeStat struct {
	DeviceType   string  `json:"deviceType"`
	Count        int     `json:"count"`
	TotalWattage float64 `json:"totalWattage"`
	Connected    int     `json:"connected"`
}

// UsageStats summarizes the active device roster for the dashboard.
type UsageStats struct {
	TotalDevices     int        `json:"totalDevices"`
	ConnectedDevices int        `json:"connectedDevices"`
	TotalWattage     float64    `json:"totalWattage"`
	ByType           []TypeStat `json:"byType"`
}

// Snapshot is the composite dashboard response.
type Snapshot struct {
	CurrentEnergy     *Reading       `json:"currentEnergy,omitempty"`
	Devices           []Device       `json:"devices"`
	HourlyConsumption []HourlyBucket `json:"hourlyConsumption"`
	Stats             UsageStats     `json:"stats"`
	Budget            *Budget        `json:"budget,omitempty"`
}

// DeviceRepository persists the device catalog.
type DeviceRepository interface {
	Count(ctx context.Context) (int, error)
	InsertMany(ctx context.Context, devices []Device) error
	ListActive(ctx context.Context) ([]Device, error)
	// UpdateTickState records the connectivity and instantaneous draw
	// observed by the simulator for one device.
	UpdateTickState(ctx context.Context, deviceID string, connected bool, watts float64) error
}

// ReadingRepository persists and queries telemetry readings.
type ReadingRepository interface {
	Insert(ctx context.Context, reading Reading) error
	// Latest returns the single most recent reading across all devices,
	// or nil when no readings exist yet.
	Latest(ctx context.Context) (*Reading, error)
	LatestN(ctx context.Context, limit int) ([]Reading, error)
	LatestForDevice(ctx context.Context, deviceID string, limit int) ([]Reading, error)
	// HourlySums groups readings inside [start, end] by hour-of-day and
	// sums consumption per group, sorted by hour ascending.
	HourlySums(ctx context.Context, start, end time.Time) ([]HourlyBucket, error)
	// Range returns readings with timestamp inside [start, end]
	// inclusive, sorted by timestamp ascending.
	Range(ctx context.Context, start, end time.Time) ([]Reading, error)
}

// BudgetRepository persists energy budgets.
type BudgetRepository interface {
	Insert(ctx context.Context, budget Budget) error
	// CurrentAt returns the budget whose window contains now, or nil if
	// none matches. When windows overlap the latest StartDate wins,
	// then the latest CreatedAt.
	CurrentAt(ctx context.Context, now time.Time) (*Budget, error)
	// Overlaps reports whether any stored budget window intersects
	// [start, end].
	Overlaps(ctx context.Context, start, end time.Time) (bool, error)
}
