package domain

import "time"

// BudgetItem is a single category inside a user's budget collection. Items
// have no identity outside the owning user's BudgetData slice; the title is
// the only lookup key.
type BudgetItem struct {
	Title  string  `json:"title"`
	Budget float64 `json:"budget"`
	Color  string  `json:"color"`
}

// User is the per-username budget document. BudgetData keeps insertion
// order and titles are unique within it. ValidTime is a unix-seconds
// watermark: tokens issued before it are rejected, which is how a password
// change invalidates every previously issued token without a revocation
// list. Version guards whole-document writes against concurrent overwrites.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Income       float64
	Savings      float64
	BudgetData   []BudgetItem
	ValidTime    int64
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Item returns the budget item with the given title, matched exactly.
func (u *User) Item(title string) (BudgetItem, bool) {
	for _, it := range u.BudgetData {
		if it.Title == title {
			return it, true
		}
	}
	return BudgetItem{}, false
}
