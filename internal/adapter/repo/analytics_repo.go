// Package repo holds the direct-SQL repositories. Only aggregate analytics
// run here; row CRUD goes through the PostgREST store.
package repo

import (
	"context"
	"fmt"

	"hrserver/internal/domain"
	"hrserver/internal/infra"
)

// AnalyticsRepository runs the dashboard aggregate queries against the
// Supabase Postgres.
type AnalyticsRepository struct {
	db infra.SQLExecutor
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(db infra.SQLExecutor) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Summary returns the overview numbers for one user's dashboard.
func (r *AnalyticsRepository) Summary(ctx context.Context, userID string) (*domain.AnalyticsSummary, error) {
	query := `
SELECT
    (SELECT COUNT(*) FROM jobs WHERE user_id = $1 AND status = 'active'),
    (SELECT COUNT(*) FROM employees WHERE user_id = $1),
    COALESCE((SELECT AVG(performance_score) FROM employees WHERE user_id = $1), 0),
    COALESCE((SELECT AVG(CASE WHEN status IN ('present', 'late') THEN 100.0 ELSE 0.0 END)
        FROM attendance
        WHERE user_id = $1 AND date >= (CURRENT_DATE - INTERVAL '30 days')), 0),
    COALESCE((SELECT SUM(net_salary) FROM payroll
        WHERE user_id = $1 AND status = 'paid' AND year = EXTRACT(YEAR FROM CURRENT_DATE)), 0),
    COALESCE((SELECT SUM(net_salary) FROM payroll
        WHERE user_id = $1 AND status = 'pending' AND year = EXTRACT(YEAR FROM CURRENT_DATE)), 0),
    (SELECT COUNT(*) FROM resume_screening_results WHERE decision = 'shortlisted'),
    (SELECT COUNT(*) FROM resume_screening_results WHERE decision IS NULL);
`
	row := r.db.QueryRow(ctx, query, userID)
	var s domain.AnalyticsSummary
	if err := row.Scan(
		&s.ActiveJobs,
		&s.TotalEmployees,
		&s.AvgPerformance,
		&s.AttendanceRate,
		&s.PayrollPaidYTD,
		&s.PayrollPendingYTD,
		&s.Shortlisted,
		&s.ScreeningPending,
	); err != nil {
		return nil, fmt.Errorf("analytics summary: %w", err)
	}
	return &s, nil
}

// DepartmentHeadcount returns employees grouped by department, largest first.
func (r *AnalyticsRepository) DepartmentHeadcount(ctx context.Context, userID string) ([]domain.DepartmentHeadcount, error) {
	query := `
SELECT department, COUNT(*)
FROM employees
WHERE user_id = $1
GROUP BY department
ORDER BY COUNT(*) DESC, department;
`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("department headcount: %w", err)
	}
	defer rows.Close()

	var out []domain.DepartmentHeadcount
	for rows.Next() {
		var h domain.DepartmentHeadcount
		if err := rows.Scan(&h.Department, &h.Count); err != nil {
			return nil, fmt.Errorf("scan headcount: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
