package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/InsiderP/smart-energy/internal/energy"
)

const defaultReadingTable = "energy_readings"

// ReadingRepository is a Postgres implementation of the reading store.
type ReadingRepository struct {
	db    *sql.DB
	table string
}

// ReadingRepositoryOption configures the repository.
type ReadingRepositoryOption func(*ReadingRepository)

// WithReadingTable overrides the default table name.
func WithReadingTable(table string) ReadingRepositoryOption {
	return func(repo *ReadingRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewReadingRepository constructs a repository with the default table.
func NewReadingRepository(db *sql.DB, opts ...ReadingRepositoryOption) *ReadingRepository {
	repo := &ReadingRepository{db: db, table: defaultReadingTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Insert appends one reading.
func (r *ReadingRepository) Insert(ctx context.Context, reading energy.Reading) error {
	if r == nil || r.db == nil {
		return errors.New("reading repo: nil db")
	}
	if reading.DeviceID == "" || reading.Timestamp.IsZero() {
		return errors.New("reading repo: invalid reading")
	}

	sensorData, err := json.Marshal(reading.SensorData)
	if err != nil {
		return err
	}
	var breakdown []byte
	if reading.DeviceConsumption != nil {
		if breakdown, err = json.Marshal(reading.DeviceConsumption); err != nil {
			return err
		}
	}

	query := fmt.Sprintf(`
INSERT INTO %s (device_id, ts, energy_consumption, is_connected, sensor_data, device_consumption)
VALUES ($1, $2, $3, $4, $5, $6)`, r.table)

	_, err = r.db.ExecContext(
		ctx,
		query,
		reading.DeviceID,
		reading.Timestamp,
		reading.EnergyConsumption,
		reading.IsConnected,
		sensorData,
		breakdown,
	)
	return err
}

// Latest returns the most recent reading across all devices, or nil
// when the table is empty.
func (r *ReadingRepository) Latest(ctx context.Context) (*energy.Reading, error) {
	readings, err := r.LatestN(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, nil
	}
	return &readings[0], nil
}

// LatestN returns the limit most recent readings, newest first.
func (r *ReadingRepository) LatestN(ctx context.Context, limit int) ([]energy.Reading, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repo: nil db")
	}
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
SELECT device_id, ts, energy_consumption, is_connected, sensor_data, device_consumption
FROM %s
ORDER BY ts DESC
LIMIT $1`, r.table)

	return r.queryReadings(ctx, query, limit)
}

// LatestForDevice returns the limit most recent readings for one
// device, newest first.
func (r *ReadingRepository) LatestForDevice(ctx context.Context, deviceID string, limit int) ([]energy.Reading, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repo: nil db")
	}
	if deviceID == "" {
		return nil, errors.New("reading repo: empty device id")
	}
	if limit <= 0 {
		limit = 24
	}

	query := fmt.Sprintf(`
SELECT device_id, ts, energy_consumption, is_connected, sensor_data, device_consumption
FROM %s
WHERE device_id = $1
ORDER BY ts DESC
LIMIT $2`, r.table)

	return r.queryReadings(ctx, query, deviceID, limit)
}

// HourlySums groups readings inside [start, end] by hour-of-day and
// sums consumption per group, sorted by hour ascending. Hours with no
// readings are absent from the result.
func (r *ReadingRepository) HourlySums(ctx context.Context, start, end time.Time) ([]energy.HourlyBucket, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT EXTRACT(HOUR FROM ts AT TIME ZONE 'UTC')::int AS hour, SUM(energy_consumption)
FROM %s
WHERE ts >= $1 AND ts <= $2
GROUP BY hour
ORDER BY hour ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]energy.HourlyBucket, 0)
	for rows.Next() {
		var bucket energy.HourlyBucket
		if err := rows.Scan(&bucket.Hour, &bucket.Consumption); err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}
	return buckets, rows.Err()
}

// Range returns readings inside [start, end] inclusive, oldest first.
func (r *ReadingRepository) Range(ctx context.Context, start, end time.Time) ([]energy.Reading, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT device_id, ts, energy_consumption, is_connected, sensor_data, device_consumption
FROM %s
WHERE ts >= $1 AND ts <= $2
ORDER BY ts ASC`, r.table)

	return r.queryReadings(ctx, query, start, end)
}

func (r *ReadingRepository) queryReadings(ctx context.Context, query string, args ...any) ([]energy.Reading, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]energy.Reading, 0)
	for rows.Next() {
		var reading energy.Reading
		var sensorData, breakdown []byte
		if err := rows.Scan(
			&reading.DeviceID,
			&reading.Timestamp,
			&reading.EnergyConsumption,
			&reading.IsConnected,
			&sensorData,
			&breakdown,
		); err != nil {
			return nil, err
		}
		if len(sensorData) > 0 {
			if err := json.Unmarshal(sensorData, &reading.SensorData); err != nil {
				return nil, err
			}
		}
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &reading.DeviceConsumption); err != nil {
				return nil, err
			}
		}
		readings = append(readings, reading)
	}
	return readings, rows.Err()
}
