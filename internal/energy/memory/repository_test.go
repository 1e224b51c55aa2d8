package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/InsiderP/smart-energy/internal/energy"
)

func day(d int) time.Time {
	return time.Date(2026, time.August, d, 0, 0, 0, 0, time.UTC)
}

func TestDeviceRepositoryListActive(t *testing.T) {
	repo := NewDeviceRepository()
	ctx := context.Background()

	err := repo.InsertMany(ctx, []energy.Device{
		{DeviceID: "BULB001", IsActive: true},
		{DeviceID: "CAM001", IsActive: false},
		{DeviceID: "PLUG001", IsActive: true},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 3 {
		t.Fatalf("count = %d, %v; want 3", count, err)
	}

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 || active[0].DeviceID != "BULB001" || active[1].DeviceID != "PLUG001" {
		t.Errorf("active = %+v, want BULB001 and PLUG001 in insertion order", active)
	}
}

func TestDeviceRepositoryUpdateTickState(t *testing.T) {
	repo := NewDeviceRepository()
	ctx := context.Background()
	_ = repo.InsertMany(ctx, []energy.Device{{DeviceID: "BULB001", IsActive: true, IsConnected: true}})

	if err := repo.UpdateTickState(ctx, "BULB001", false, 6.5); err != nil {
		t.Fatalf("update: %v", err)
	}
	active, _ := repo.ListActive(ctx)
	if active[0].IsConnected || active[0].EnergyConsumptionWatts != 6.5 {
		t.Errorf("device = %+v, want disconnected at 6.5W", active[0])
	}

	err := repo.UpdateTickState(ctx, "GHOST", true, 1)
	if !errors.Is(err, energy.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReadingRepositoryLatestOrdering(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	// Insertion order deliberately differs from timestamp order.
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "B", Timestamp: day(20)})
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "C", Timestamp: day(25)})
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "A", Timestamp: day(10)})

	latest, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.DeviceID != "C" {
		t.Errorf("latest = %+v, want device C", latest)
	}

	top, err := repo.LatestN(ctx, 2)
	if err != nil {
		t.Fatalf("latestN: %v", err)
	}
	if len(top) != 2 || top[0].DeviceID != "C" || top[1].DeviceID != "B" {
		t.Errorf("latestN = %+v, want [C B]", top)
	}
}

func TestReadingRepositoryLatestEmpty(t *testing.T) {
	repo := NewReadingRepository()
	latest, err := repo.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Errorf("latest = %+v, want nil on empty store", latest)
	}
}

func TestReadingRepositoryLatestForDevice(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	_ = repo.Insert(ctx, energy.Reading{DeviceID: "BULB001", Timestamp: day(10)})
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "PLUG001", Timestamp: day(11)})
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "BULB001", Timestamp: day(12)})

	got, err := repo.LatestForDevice(ctx, "BULB001", 10)
	if err != nil {
		t.Fatalf("latestForDevice: %v", err)
	}
	if len(got) != 2 || !got[0].Timestamp.Equal(day(12)) {
		t.Errorf("got %+v, want two BULB001 readings newest first", got)
	}
}

func TestReadingRepositoryHourlySums(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()
	base := day(15)

	_ = repo.Insert(ctx, energy.Reading{DeviceID: "A", Timestamp: base.Add(3 * time.Hour), EnergyConsumption: 1.5})
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "B", Timestamp: base.Add(3*time.Hour + 30*time.Minute), EnergyConsumption: 2.5})
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "A", Timestamp: base.Add(7 * time.Hour), EnergyConsumption: 4})
	// Outside the window.
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "A", Timestamp: base.AddDate(0, 0, 1), EnergyConsumption: 100})

	buckets, err := repo.HourlySums(ctx, base, base.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		t.Fatalf("hourlySums: %v", err)
	}
	want := []energy.HourlyBucket{{Hour: 3, Consumption: 4}, {Hour: 7, Consumption: 4}}
	if len(buckets) != 2 || buckets[0] != want[0] || buckets[1] != want[1] {
		t.Errorf("buckets = %+v, want %+v", buckets, want)
	}
}

func TestReadingRepositoryRangeInclusive(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	_ = repo.Insert(ctx, energy.Reading{DeviceID: "EDGE_LO", Timestamp: day(10)})
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "MID", Timestamp: day(12)})
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "EDGE_HI", Timestamp: day(14)})
	_ = repo.Insert(ctx, energy.Reading{DeviceID: "OUT", Timestamp: day(15)})

	got, err := repo.Range(ctx, day(10), day(14))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d readings, want 3 (both edges inclusive)", len(got))
	}
	if got[0].DeviceID != "EDGE_LO" || got[2].DeviceID != "EDGE_HI" {
		t.Errorf("range = %+v, want oldest first with both edges", got)
	}
}

func TestBudgetRepositoryCurrentAtTieBreak(t *testing.T) {
	repo := NewBudgetRepository()
	ctx := context.Background()
	now := day(20)

	_ = repo.Insert(ctx, energy.Budget{Amount: 100, StartDate: day(1), EndDate: day(28), CreatedAt: day(1)})
	_ = repo.Insert(ctx, energy.Budget{Amount: 200, StartDate: day(15), EndDate: day(25), CreatedAt: day(15)})
	// Same start as the 200 budget but created later.
	_ = repo.Insert(ctx, energy.Budget{Amount: 300, StartDate: day(15), EndDate: day(22), CreatedAt: day(16)})

	current, err := repo.CurrentAt(ctx, now)
	if err != nil {
		t.Fatalf("currentAt: %v", err)
	}
	if current == nil || current.Amount != 300 {
		t.Errorf("current = %+v, want latest start then latest created", current)
	}
}

func TestBudgetRepositoryCurrentAtNone(t *testing.T) {
	repo := NewBudgetRepository()
	ctx := context.Background()
	_ = repo.Insert(ctx, energy.Budget{Amount: 100, StartDate: day(1), EndDate: day(5)})

	current, err := repo.CurrentAt(ctx, day(10))
	if err != nil {
		t.Fatalf("currentAt: %v", err)
	}
	if current != nil {
		t.Errorf("current = %+v, want nil outside every window", current)
	}
}

func TestBudgetRepositoryOverlaps(t *testing.T) {
	repo := NewBudgetRepository()
	ctx := context.Background()
	_ = repo.Insert(ctx, energy.Budget{Amount: 100, StartDate: day(10), EndDate: day(20)})

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", day(12), day(14), true},
		{"touching end", day(20), day(25), true},
		{"touching start", day(5), day(10), true},
		{"before", day(1), day(9), false},
		{"after", day(21), day(28), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.Overlaps(ctx, tc.start, tc.end)
			if err != nil {
				t.Fatalf("overlaps: %v", err)
			}
			if got != tc.want {
				t.Errorf("overlaps(%s, %s) = %v, want %v", tc.start.Format("01-02"), tc.end.Format("01-02"), got, tc.want)
			}
		})
	}
}
