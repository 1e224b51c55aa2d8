package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/InsiderP/smart-energy/internal/energy"
)

const defaultBudgetTable = "budgets"

// BudgetRepository is a Postgres implementation of the budget store.
type BudgetRepository struct {
	db    *sql.DB
	table string
}

// BudgetRepositoryOption configures the repository.
type BudgetRepositoryOption func(*BudgetRepository)

// WithBudgetTable overrides the default table name.
func WithBudgetTable(table string) BudgetRepositoryOption {
	return func(repo *BudgetRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewBudgetRepository constructs a repository with the default table.
func NewBudgetRepository(db *sql.DB, opts ...BudgetRepositoryOption) *BudgetRepository {
	repo := &BudgetRepository{db: db, table: defaultBudgetTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Insert stores one budget.
func (r *BudgetRepository) Insert(ctx context.Context, budget energy.Budget) error {
	if r == nil || r.db == nil {
		return errors.New("budget repo: nil db")
	}
	if budget.Amount <= 0 || budget.StartDate.IsZero() || budget.EndDate.IsZero() {
		return errors.New("budget repo: invalid budget")
	}

	query := fmt.Sprintf(`
INSERT INTO %s (amount, start_date, end_date)
VALUES ($1, $2, $3)`, r.table)

	_, err := r.db.ExecContext(ctx, query, budget.Amount, budget.StartDate, budget.EndDate)
	return err
}

// CurrentAt returns the budget whose window contains now, or nil when
// none matches. Overlapping windows resolve to the latest start date,
// then the latest created_at.
func (r *BudgetRepository) CurrentAt(ctx context.Context, now time.Time) (*energy.Budget, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("budget repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT amount, start_date, end_date, created_at
FROM %s
WHERE start_date <= $1 AND end_date >= $1
ORDER BY start_date DESC, created_at DESC
LIMIT 1`, r.table)

	var budget energy.Budget
	err := r.db.QueryRowContext(ctx, query, now).Scan(
		&budget.Amount,
		&budget.StartDate,
		&budget.EndDate,
		&budget.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// Overlaps reports whether any budget window intersects [start, end].
func (r *BudgetRepository) Overlaps(ctx context.Context, start, end time.Time) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("budget repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT EXISTS (
	SELECT 1 FROM %s
	WHERE start_date <= $2 AND end_date >= $1
)`, r.table)

	var overlaps bool
	if err := r.db.QueryRowContext(ctx, query, start, end).Scan(&overlaps); err != nil {
		return false, err
	}
	return overlaps, nil
}
