package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spendwise/budgetd/internal/budget/domain"
	"github.com/spendwise/budgetd/internal/budget/store"
)

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, income, savings, budget_data,
		       valid_time, version, created_at, updated_at
		FROM users
		WHERE username = ?`, username)

	var (
		u       domain.User
		rawData string
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Income, &u.Savings,
		&rawData, &u.ValidTime, &u.Version, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	if err := json.Unmarshal([]byte(rawData), &u.BudgetData); err != nil {
		return domain.User{}, fmt.Errorf("decode budget_data for %q: %w", username, err)
	}
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	data, err := encodeBudgetData(u.BudgetData)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, income, savings,
		                   budget_data, valid_time, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.Income, u.Savings,
		data, u.ValidTime, now, now,
	)
	return mapConstraint(err)
}

// Upsert writes the whole user document. The version predicate makes the
// write conditional: a concurrent writer that committed since our read
// bumped the version, so our update matches zero rows and the caller gets
// ErrVersionConflict instead of silently dropping the other write.
func (r *usersRepo) Upsert(ctx context.Context, u domain.User) error {
	data, err := encodeBudgetData(u.BudgetData)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	// valid_time is deliberately left out: the watermark only moves through
	// UpdatePassword, and a stale snapshot must not roll it back.
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET income = ?, savings = ?, budget_data = ?,
		    version = version + 1, updated_at = ?
		WHERE username = ? AND version = ?`,
		u.Income, u.Savings, data, now, u.Username, u.Version,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// Either the row is gone or the version moved. Insert when absent,
	// otherwise report the conflict.
	var exists int
	err = r.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE username = ?`, u.Username).Scan(&exists)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return r.Create(ctx, u)
	case err != nil:
		return err
	default:
		return store.ErrVersionConflict
	}
}

func (r *usersRepo) SetIncome(ctx context.Context, username string, income float64) error {
	return r.setScalar(ctx, "income", username, income)
}

func (r *usersRepo) SetSavings(ctx context.Context, username string, savings float64) error {
	return r.setScalar(ctx, "savings", username, savings)
}

func (r *usersRepo) setScalar(ctx context.Context, column, username string, v float64) error {
	// column is one of two literals above, never user input.
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+column+` = ?, updated_at = ? WHERE username = ?`,
		v, time.Now().UTC(), username,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) UpdatePassword(ctx context.Context, username, passwordHash string, validTime int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, valid_time = ?, updated_at = ?
		WHERE username = ?`,
		passwordHash, validTime, time.Now().UTC(), username,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// encodeBudgetData always stores an array, never JSON null, so decoding a
// fresh user yields an empty slice rather than nil surprises downstream.
func encodeBudgetData(items []domain.BudgetItem) (string, error) {
	if items == nil {
		items = []domain.BudgetItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode budget_data: %w", err)
	}
	return string(data), nil
}
