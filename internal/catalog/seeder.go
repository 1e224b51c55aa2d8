package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/InsiderP/smart-energy/internal/energy"
)

// seedEntry is one fixed catalog row inserted at first boot.
type seedEntry struct {
	deviceType string
	id         string
	location   string
}

// initialCatalog spans the lighting, power, climate, security and
// appliance categories.
var initialCatalog = []seedEntry{
	// Smart home devices.
	{"smart-bulb", "001", "Living Room"},
	{"smart-bulb", "002", "Bedroom"},
	{"smart-plug", "001", "Kitchen"},
	{"ceiling-fan", "001", "Master Bedroom"},
	{"air-purifier", "001", "Living Room"},
	{"humidifier", "001", "Bedroom"},

	// Security devices.
	{"camera", "001", "Front Door"},
	{"camera", "002", "Backyard"},
	{"door-lock", "001", "Front Door"},
	{"sensor", "001", "Living Room Window"},

	// Appliances.
	{"vacuum", "001", ""},
	{"washing-machine", "001", ""},
	{"refrigerator", "001", ""},
	{"smart-plug", "002", "Living Room"},
	{"smart-plug", "003", "Bedroom"},
}

// Seeder inserts the initial device catalog exactly once.
type Seeder struct {
	devices energy.DeviceRepository
	logger  *log.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(devices energy.DeviceRepository, logger *log.Logger) *Seeder {
	return &Seeder{devices: devices, logger: logger}
}

// Seed inserts the fixed catalog when the device collection is empty
// and skips otherwise, so re-running the process never duplicates
// devices.
func (s *Seeder) Seed(ctx context.Context) error {
	count, err := s.devices.Count(ctx)
	if err != nil {
		return energy.WrapStorage("count devices", err)
	}
	if count > 0 {
		if s.logger != nil {
			s.logger.Printf("found %d existing devices, skipping seed", count)
		}
		return nil
	}

	devices := make([]energy.Device, 0, len(initialCatalog))
	for _, entry := range initialCatalog {
		device, err := Generate(entry.deviceType, entry.id, entry.location)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		devices = append(devices, device)
	}

	if err := s.devices.InsertMany(ctx, devices); err != nil {
		return energy.WrapStorage("seed devices", err)
	}
	if s.logger != nil {
		s.logger.Printf("seeded %d initial devices", len(devices))
	}
	return nil
}
