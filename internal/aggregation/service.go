package aggregation

import (
	"context"
	"sort"
	"time"

	"github.com/InsiderP/smart-energy/internal/energy"
	"github.com/InsiderP/smart-energy/internal/observability/metrics"
)

// deviceHistoryLimit caps per-device reading queries.
const deviceHistoryLimit = 24

// Service answers dashboard and historical queries by combining the
// device roster, readings and the active budget.
type Service struct {
	devices  energy.DeviceRepository
	readings energy.ReadingRepository
	budgets  energy.BudgetRepository
}

// NewService constructs a Service.
func NewService(devices energy.DeviceRepository, readings energy.ReadingRepository, budgets energy.BudgetRepository) *Service {
	return &Service{devices: devices, readings: readings, budgets: budgets}
}

// DashboardSnapshot builds the composite dashboard view as of now. Any
// storage failure aborts the whole build; partial snapshots are never
// returned.
func (s *Service) DashboardSnapshot(ctx context.Context, now time.Time) (*energy.Snapshot, error) {
	started := time.Now()
	snapshot, err := s.buildSnapshot(ctx, now)
	if err != nil {
		metrics.ObserveSnapshot(metrics.ResultError, time.Since(started))
		return nil, err
	}
	metrics.ObserveSnapshot(metrics.ResultSuccess, time.Since(started))
	return snapshot, nil
}

func (s *Service) buildSnapshot(ctx context.Context, now time.Time) (*energy.Snapshot, error) {
	latest, err := s.readings.Latest(ctx)
	if err != nil {
		return nil, energy.WrapStorage("latest reading", err)
	}

	devices, err := s.devices.ListActive(ctx)
	if err != nil {
		return nil, energy.WrapStorage("list active devices", err)
	}

	dayStart, dayEnd := dayBounds(now)
	hourly, err := s.readings.HourlySums(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, energy.WrapStorage("hourly sums", err)
	}

	budget, err := s.budgets.CurrentAt(ctx, now)
	if err != nil {
		return nil, energy.WrapStorage("current budget", err)
	}

	return &energy.Snapshot{
		CurrentEnergy:     latest,
		Devices:           devices,
		HourlyConsumption: hourly,
		Stats:             computeStats(devices),
		Budget:            budget,
	}, nil
}

// HistoricalConsumption groups readings inside [start, end] inclusive
// by (calendar date, hour-of-day), summing consumption per bucket. The
// deviceConsumption breakdown of the first reading seen in a bucket is
// carried forward unchanged; later readings never average into it. An
// empty range yields an empty slice, not an error.
func (s *Service) HistoricalConsumption(ctx context.Context, start, end time.Time) ([]energy.HistoryBucket, error) {
	readings, err := s.readings.Range(ctx, start, end)
	if err != nil {
		return nil, energy.WrapStorage("range readings", err)
	}

	type bucketKey struct {
		date string
		hour int
	}
	sums := make(map[bucketKey]*energy.HistoryBucket)
	order := make([]bucketKey, 0)

	for _, reading := range readings {
		ts := reading.Timestamp.UTC()
		key := bucketKey{date: ts.Format("2006-01-02"), hour: ts.Hour()}
		bucket, ok := sums[key]
		if !ok {
			bucket = &energy.HistoryBucket{
				Date:              key.date,
				Hour:              key.hour,
				DeviceConsumption: reading.DeviceConsumption,
			}
			sums[key] = bucket
			order = append(order, key)
		}
		bucket.Consumption += reading.EnergyConsumption
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].date != order[j].date {
			return order[i].date < order[j].date
		}
		return order[i].hour < order[j].hour
	})

	buckets := make([]energy.HistoryBucket, 0, len(order))
	for _, key := range order {
		buckets = append(buckets, *sums[key])
	}
	return buckets, nil
}

// DeviceConsumption returns up to 24 most-recent readings for one
// device, newest first.
func (s *Service) DeviceConsumption(ctx context.Context, deviceID string) ([]energy.Reading, error) {
	if deviceID == "" {
		return nil, energy.NewValidationError("device id is required")
	}
	readings, err := s.readings.LatestForDevice(ctx, deviceID, deviceHistoryLimit)
	if err != nil {
		return nil, energy.WrapStorage("device readings", err)
	}
	return readings, nil
}

// LatestReadings returns the most recent limit readings across all
// devices, newest first.
func (s *Service) LatestReadings(ctx context.Context, limit int) ([]energy.Reading, error) {
	if limit <= 0 {
		limit = 20
	}
	readings, err := s.readings.LatestN(ctx, limit)
	if err != nil {
		return nil, energy.WrapStorage("latest readings", err)
	}
	return readings, nil
}

// computeStats summarizes the roster by device type. Stats come from
// the device collection, not from readings.
func computeStats(devices []energy.Device) energy.UsageStats {
	byType := make(map[string]*energy.TypeStat)
	order := make([]string, 0)
	stats := energy.UsageStats{ByType: []energy.TypeStat{}}

	for _, device := range devices {
		stat, ok := byType[device.DeviceType]
		if !ok {
			stat = &energy.TypeStat{DeviceType: device.DeviceType}
			byType[device.DeviceType] = stat
			order = append(order, device.DeviceType)
		}
		stat.Count++
		stat.TotalWattage += device.EnergyConsumptionWatts
		if device.IsConnected {
			stat.Connected++
		}

		stats.TotalDevices++
		stats.TotalWattage += device.EnergyConsumptionWatts
		if device.IsConnected {
			stats.ConnectedDevices++
		}
	}

	sort.Strings(order)
	for _, deviceType := range order {
		stats.ByType = append(stats.ByType, *byType[deviceType])
	}
	return stats
}

// dayBounds returns [start of day, end of day] for ts in UTC.
func dayBounds(ts time.Time) (time.Time, time.Time) {
	ts = ts.UTC()
	start := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// DayBounds exposes the day window used for dashboard and per-day
// historical queries.
func DayBounds(ts time.Time) (time.Time, time.Time) {
	return dayBounds(ts)
}
