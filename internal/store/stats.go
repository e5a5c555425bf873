package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
)

// GetStatistics assembles the system-wide overview: stock totals, request
// counts by status, a 7-day submission trend, and per-category aggregates.
func GetStatistics(ctx context.Context, db *sql.DB) (*model.Statistics, error) {
	stats := &model.Statistics{
		RequestCounts: map[string]int{
			model.RequestStatusPending:           0,
			model.RequestStatusApproved:          0,
			model.RequestStatusRejected:          0,
			model.RequestStatusReturned:          0,
			model.RequestStatusPartiallyReturned: 0,
		},
	}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(in_stock), 0) FROM items`,
	).Scan(&stats.TotalItems, &stats.TotalStock, &stats.CurrentStock)
	if err != nil {
		return nil, fmt.Errorf("aggregating stock: %w", err)
	}
	stats.BorrowedStock = stats.TotalStock - stats.CurrentStock

	rows, err := db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM requests GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting requests: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning request count: %w", err)
		}
		stats.RequestCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting requests: %w", err)
	}

	trend, err := weeklyTrend(ctx, db)
	if err != nil {
		return nil, err
	}
	stats.WeeklyTrend = trend

	catRows, err := db.QueryContext(ctx,
		`SELECT c.name, COUNT(i.id), COALESCE(SUM(i.total), 0), COALESCE(SUM(i.in_stock), 0)
		 FROM categories c
		 LEFT JOIN items i ON i.category = c.name
		 GROUP BY c.id
		 ORDER BY c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating categories: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var cs model.CategoryStat
		if err := catRows.Scan(&cs.Category, &cs.ItemCount, &cs.TotalStock, &cs.CurrentStock); err != nil {
			return nil, fmt.Errorf("scanning category stat: %w", err)
		}
		cs.BorrowedStock = cs.TotalStock - cs.CurrentStock
		stats.CategoryCounts = append(stats.CategoryCounts, cs)
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("aggregating categories: %w", err)
	}

	return stats, nil
}

// weeklyTrend counts request submissions per day for the last 7 days,
// newest first. Days without submissions appear with a zero count.
func weeklyTrend(ctx context.Context, db *sql.DB) ([]model.DayCount, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -6)

	rows, err := db.QueryContext(ctx,
		`SELECT date(created_at), COUNT(*) FROM requests
		 WHERE created_at >= ? GROUP BY date(created_at)`,
		since.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("querying weekly trend: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scanning trend row: %w", err)
		}
		counts[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying weekly trend: %w", err)
	}

	trend := make([]model.DayCount, 0, 7)
	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		trend = append(trend, model.DayCount{Date: day, Count: counts[day]})
	}
	return trend, nil
}
