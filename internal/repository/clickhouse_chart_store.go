package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"TrueArk/internal/domain/models"
	"TrueArk/internal/domain/repository"
)

// ClickHouseChartStore implements ChartStore for ClickHouse. Chart results
// are stored as a JSON column; list queries filter on the flat metadata
// columns only and never parse the blob server-side.
type ClickHouseChartStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseChartStore creates ClickHouse chart storage.
func NewClickHouseChartStore(db *sql.DB, table string) repository.ChartStore {
	if table == "" {
		table = "charts"
	}
	return &ClickHouseChartStore{db: db, table: table}
}

func (s *ClickHouseChartStore) Init(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id String,
		datetime_utc String,
		latitude Float64,
		longitude Float64,
		result String,
		julian_day Float64,
		ephemeris_mode LowCardinality(String),
		entity_id String,
		entity_type LowCardinality(String),
		created_at DateTime64(3)
	) ENGINE = MergeTree()
	ORDER BY (created_at, id)`, s.table)
	_, err := s.db.ExecContext(ctx, q)
	if err != nil {
		return fmt.Errorf("init charts table: %w", err)
	}
	return nil
}

func (s *ClickHouseChartStore) Store(ctx context.Context, c *models.StoredChart) error {
	blob, err := json.Marshal(c.Result)
	if err != nil {
		return fmt.Errorf("marshal chart result: %w", err)
	}
	q := fmt.Sprintf("INSERT INTO %s (id, datetime_utc, latitude, longitude, result, julian_day, ephemeris_mode, entity_id, entity_type, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err = s.db.ExecContext(ctx, q,
		c.ID,
		c.DatetimeUTC,
		c.Latitude,
		c.Longitude,
		string(blob),
		c.JulianDay,
		c.Mode,
		c.EntityID,
		c.EntityType,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chart %s: %w", c.ID, err)
	}
	return nil
}

func (s *ClickHouseChartStore) Get(ctx context.Context, id string) (*models.StoredChart, error) {
	q := fmt.Sprintf("SELECT id, datetime_utc, latitude, longitude, result, julian_day, ephemeris_mode, entity_id, entity_type, created_at FROM %s WHERE id = ? LIMIT 1", s.table)
	row := s.db.QueryRowContext(ctx, q, id)
	c, err := scanChart(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chart %s: %w", id, err)
	}
	return c, nil
}

func (s *ClickHouseChartStore) List(ctx context.Context, entityID, entityType string, limit int) ([]*models.StoredChart, error) {
	if limit <= 0 {
		limit = 100
	}
	q := fmt.Sprintf("SELECT id, datetime_utc, latitude, longitude, result, julian_day, ephemeris_mode, entity_id, entity_type, created_at FROM %s", s.table)
	var (
		conds []string
		args  []interface{}
	)
	if entityID != "" {
		conds = append(conds, "entity_id = ?")
		args = append(args, entityID)
	}
	if entityType != "" {
		conds = append(conds, "entity_type = ?")
		args = append(args, entityType)
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list charts: %w", err)
	}
	defer rows.Close()

	var charts []*models.StoredChart
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chart: %w", err)
		}
		charts = append(charts, c)
	}
	return charts, rows.Err()
}

func (s *ClickHouseChartStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseChartStore) Close() error {
	return nil // connection owned by pkg client
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChart(r rowScanner) (*models.StoredChart, error) {
	var (
		c    models.StoredChart
		blob string
	)
	if err := r.Scan(&c.ID, &c.DatetimeUTC, &c.Latitude, &c.Longitude, &blob, &c.JulianDay, &c.Mode, &c.EntityID, &c.EntityType, &c.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(blob), &c.Result); err != nil {
		return nil, fmt.Errorf("decode chart result: %w", err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
