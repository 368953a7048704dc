package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/spendwise/budgetd/internal/budget/domain"
	"github.com/spendwise/budgetd/internal/budget/store"
	"github.com/spendwise/budgetd/pkg/colorx"
)

// Ledger implements the budget operations on a gate-resolved user
// snapshot. Add and delete follow the document model: mutate the in-memory
// copy, write the whole document back; the store's version check turns a
// concurrent overwrite into an explicit conflict instead of a lost update.
type Ledger struct {
	Store store.Store
}

// Snapshot is the read view the dashboard charts consume.
type Snapshot struct {
	BudgetData []domain.BudgetItem `json:"budgetData"`
	Income     float64             `json:"income"`
	Savings    float64             `json:"savings"`
}

// GetSnapshot returns the user's budget state verbatim. Read-only; the
// item slice is never nil so the JSON stays an array.
func (s *Ledger) GetSnapshot(user domain.User) Snapshot {
	items := user.BudgetData
	if items == nil {
		items = []domain.BudgetItem{}
	}
	return Snapshot{BudgetData: items, Income: user.Income, Savings: user.Savings}
}

// UpdateIncome validates and persists a new income value. Only the income
// column is written.
func (s *Ledger) UpdateIncome(ctx context.Context, user domain.User, raw any) (float64, error) {
	v, err := parseAmount(raw)
	if err != nil {
		return 0, err
	}
	if err := s.Store.Users().SetIncome(ctx, user.Username, v); err != nil {
		return 0, err
	}
	return v, nil
}

// UpdateSavings validates and persists a new savings value.
func (s *Ledger) UpdateSavings(ctx context.Context, user domain.User, raw any) (float64, error) {
	v, err := parseAmount(raw)
	if err != nil {
		return 0, err
	}
	if err := s.Store.Users().SetSavings(ctx, user.Username, v); err != nil {
		return 0, err
	}
	return v, nil
}

// AddItem appends a new budget category. Titles are unique per user,
// matched case-sensitively; a duplicate rejects the add before anything is
// touched. The color goes through normalization and the item lands at the
// end of the collection, preserving insertion order.
func (s *Ledger) AddItem(ctx context.Context, user domain.User, title string, rawBudget any, color string) error {
	if _, exists := user.Item(title); exists {
		return ErrDuplicateTitle
	}

	budget, err := parseAmount(rawBudget)
	if err != nil {
		return err
	}

	user.BudgetData = append(user.BudgetData, domain.BudgetItem{
		Title:  title,
		Budget: budget,
		Color:  colorx.Normalize(color),
	})
	return s.Store.Users().Upsert(ctx, user)
}

// DeleteItem removes every item with the given title (at most one, given
// the uniqueness invariant) and persists the document. Deleting an absent
// title is not an error: the unchanged document is written and the call
// reports success, so deletes are idempotent.
func (s *Ledger) DeleteItem(ctx context.Context, user domain.User, title string) error {
	kept := make([]domain.BudgetItem, 0, len(user.BudgetData))
	for _, it := range user.BudgetData {
		if it.Title != title {
			kept = append(kept, it)
		}
	}
	user.BudgetData = kept
	return s.Store.Users().Upsert(ctx, user)
}

// parseAmount accepts the value shapes a JSON body can carry for a money
// field: a number, or a string holding one (the original dashboard sent
// both). Anything else, and NaN or infinities, fail validation.
func parseAmount(raw any) (float64, error) {
	var (
		v   float64
		err error
	)
	switch t := raw.(type) {
	case float64:
		v = t
	case json.Number:
		v, err = t.Float64()
	case string:
		v, err = strconv.ParseFloat(t, 64)
	default:
		return 0, ErrInvalidAmount
	}
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
