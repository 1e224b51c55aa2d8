// Package postgres holds pgx-backed repositories for the energy
// collections.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/InsiderP/smart-energy/internal/energy"
)

const defaultDeviceTable = "devices"

// DeviceRepository is a Postgres implementation of the device catalog.
type DeviceRepository struct {
	db    *sql.DB
	table string
}

// DeviceRepositoryOption configures the repository.
type DeviceRepositoryOption func(*DeviceRepository)

// WithDeviceTable overrides the default table name.
func WithDeviceTable(table string) DeviceRepositoryOption {
	return func(repo *DeviceRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewDeviceRepository constructs a repository with the default table.
func NewDeviceRepository(db *sql.DB, opts ...DeviceRepositoryOption) *DeviceRepository {
	repo := &DeviceRepository{db: db, table: defaultDeviceTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Count returns the number of stored devices.
func (r *DeviceRepository) Count(ctx context.Context) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("device repo: nil db")
	}
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table)
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// InsertMany inserts catalog devices in one transaction.
func (r *DeviceRepository) InsertMany(ctx context.Context, devices []energy.Device) error {
	if r == nil || r.db == nil {
		return errors.New("device repo: nil db")
	}
	if len(devices) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	device_id,
	device_name,
	device_type,
	is_active,
	is_connected,
	specifications,
	energy_consumption_watts
) VALUES ($1, $2, $3, $4, $5, $6, $7)`, r.table)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, device := range devices {
		if device.DeviceID == "" || device.DeviceType == "" {
			_ = tx.Rollback()
			return errors.New("device repo: invalid device")
		}
		specs, err := json.Marshal(device.Specifications)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := stmt.ExecContext(
			ctx,
			device.DeviceID,
			device.DeviceName,
			device.DeviceType,
			device.IsActive,
			device.IsConnected,
			specs,
			device.EnergyConsumptionWatts,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// ListActive returns devices flagged active, by device id.
func (r *DeviceRepository) ListActive(ctx context.Context) ([]energy.Device, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("device repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT device_id, device_name, device_type, is_active, is_connected, specifications, energy_consumption_watts
FROM %s
WHERE is_active
ORDER BY device_id ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	devices := make([]energy.Device, 0)
	for rows.Next() {
		var device energy.Device
		var specs []byte
		if err := rows.Scan(
			&device.DeviceID,
			&device.DeviceName,
			&device.DeviceType,
			&device.IsActive,
			&device.IsConnected,
			&specs,
			&device.EnergyConsumptionWatts,
		); err != nil {
			return nil, err
		}
		if len(specs) > 0 {
			if err := json.Unmarshal(specs, &device.Specifications); err != nil {
				return nil, err
			}
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}

// UpdateTickState records connectivity and draw for one device.
func (r *DeviceRepository) UpdateTickState(ctx context.Context, deviceID string, connected bool, watts float64) error {
	if r == nil || r.db == nil {
		return errors.New("device repo: nil db")
	}
	if deviceID == "" {
		return errors.New("device repo: empty device id")
	}

	query := fmt.Sprintf(`
UPDATE %s
SET is_connected = $2,
	energy_consumption_watts = $3,
	updated_at = NOW()
WHERE device_id = $1`, r.table)

	result, err := r.db.ExecContext(ctx, query, deviceID, connected, watts)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return energy.ErrNotFound
	}
	return nil
}
