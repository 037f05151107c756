package db

import (
	"context"
	"fmt"
	"time"

	"github.com/j-veylop/artillery-report-tui/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// UpsertRecentReport records that a report was opened. Opening the same path
// again refreshes its metadata and bumps its open count.
func (db *DB) UpsertRecentReport(r *models.RecentReport) error {
	query := `
		INSERT INTO recent_reports (path, label, opened_at, snapshots, requests, open_count)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT(path) DO UPDATE SET
			label = excluded.label,
			opened_at = excluded.opened_at,
			snapshots = excluded.snapshots,
			requests = excluded.requests,
			open_count = recent_reports.open_count + 1
	`

	openedAt := r.OpenedAt
	if openedAt.IsZero() {
		openedAt = time.Now()
	}

	_, err := db.ExecContext(context.Background(), query,
		r.Path,
		r.Label,
		openedAt.UTC().Format(timeLayout),
		r.Snapshots,
		r.Requests,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert recent report: %w", err)
	}
	return nil
}

// GetRecentReports returns the most recently opened reports, newest first.
func (db *DB) GetRecentReports(limit int) ([]models.RecentReport, error) {
	query := `
		SELECT path, label, opened_at, snapshots, requests, open_count
		FROM recent_reports
		ORDER BY opened_at DESC, path ASC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []models.RecentReport
	for rows.Next() {
		var r models.RecentReport
		if err := rows.Scan(&r.Path, &r.Label, &r.OpenedAt, &r.Snapshots, &r.Requests, &r.OpenCount); err != nil {
			return nil, fmt.Errorf("failed to scan recent report: %w", err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent reports: %w", err)
	}

	return reports, nil
}

// DeleteRecentReport forgets a report path.
func (db *DB) DeleteRecentReport(path string) error {
	if _, err := db.ExecContext(context.Background(), "DELETE FROM recent_reports WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to delete recent report: %w", err)
	}
	return nil
}

// PruneRecentReports keeps only the newest keep entries and returns how many
// rows were removed.
func (db *DB) PruneRecentReports(keep int) (int64, error) {
	query := `
		DELETE FROM recent_reports
		WHERE path NOT IN (
			SELECT path FROM recent_reports ORDER BY opened_at DESC, path ASC LIMIT ?
		)
	`

	result, err := db.ExecContext(context.Background(), query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune recent reports: %w", err)
	}
	return result.RowsAffected()
}
