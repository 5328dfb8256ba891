// This file backs the dashboard: headline counts plus a created-at
// time-bucket series for the intake chart.
package repository

import (
	"context"
	"database/sql"
	"time"
)

// DashboardStats are the headline counters shown on the dashboard.
type DashboardStats struct {
	TotalDetainees int64 `json:"total_detainees"`
	CurrentlyIn    int64 `json:"currently_in"`
	TotalRooms     int64 `json:"total_rooms"`
	TotalUsers     int64 `json:"total_users"`
}

// ChartPoint is one bucket of the intake chart.
type ChartPoint struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// periodConfig maps a chart period to its lookback window and the MySQL
// DATE_FORMAT pattern used to label buckets.
type periodConfig struct {
	window time.Duration
	format string
}

var periodConfigs = map[string]periodConfig{
	"daily":   {30 * 24 * time.Hour, "%Y-%m-%d"},   // last 30 days
	"weekly":  {12 * 7 * 24 * time.Hour, "%x-W%v"}, // last 12 ISO weeks
	"monthly": {365 * 24 * time.Hour, "%Y-%m"},     // last 12 months
	"yearly":  {5 * 365 * 24 * time.Hour, "%Y"},    // last 5 years
	"live":    {24 * time.Hour, "%Y-%m-%dT%H:00"},  // last 24 hours
}

// NormalizePeriod maps unknown period names to the default "monthly".
func NormalizePeriod(period string) string {
	if _, ok := periodConfigs[period]; !ok {
		return "monthly"
	}
	return period
}

// DashboardRepo aggregates counts across entities for reporting.
type DashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) *DashboardRepo {
	return &DashboardRepo{db: db}
}

// Stats computes the headline counters.  Soft-deleted detainees and rooms
// are excluded; users are counted regardless of state.
func (r *DashboardRepo) Stats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	queries := []struct {
		q    string
		dest *int64
	}{
		{"SELECT COUNT(*) FROM detainees WHERE deleted_at IS NULL", &s.TotalDetainees},
		{"SELECT COUNT(*) FROM detainees WHERE deleted_at IS NULL AND status = 'in_prison'", &s.CurrentlyIn},
		{"SELECT COUNT(*) FROM rooms WHERE deleted_at IS NULL", &s.TotalRooms},
		{"SELECT COUNT(*) FROM users", &s.TotalUsers},
	}
	for _, it := range queries {
		if err := r.db.QueryRowContext(ctx, it.q).Scan(it.dest); err != nil {
			return DashboardStats{}, err
		}
	}
	return s, nil
}

// IntakeChart buckets detainee creation times for the given period and
// returns the series in ascending label order.
func (r *DashboardRepo) IntakeChart(ctx context.Context, period string) ([]ChartPoint, error) {
	cfg := periodConfigs[NormalizePeriod(period)]
	start := time.Now().Add(-cfg.window)

	const q = `SELECT DATE_FORMAT(created_at, ?) AS bucket, COUNT(*)
	           FROM detainees
	           WHERE deleted_at IS NULL AND created_at >= ?
	           GROUP BY bucket ORDER BY bucket`
	rows, err := r.db.QueryContext(ctx, q, cfg.format, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChartPoint
	for rows.Next() {
		var p ChartPoint
		if err := rows.Scan(&p.Label, &p.Count); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
