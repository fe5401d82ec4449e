package models

import "time"

// Solve is one recorded attempt at a practice problem. Rows are append-only;
// nothing in the API mutates a solve after creation.
type Solve struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	UnitID    int       `db:"unit_id" json:"unitId"`
	UnitName  string    `db:"unit_name" json:"unitName,omitempty"`
	Category  string    `db:"category" json:"category"`
	Question  string    `db:"question" json:"question"`
	UserInput string    `db:"user_input" json:"userInput"`
	IsCorrect bool      `db:"is_correct" json:"isCorrect"`
	HelpText  *string   `db:"help_text" json:"helpText,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// SolveCursor keys backward pagination on the last-seen sort tuple.
// (CreatedAt, ID) is a total order over solves under the
// (created_at DESC, id DESC) listing order.
type SolveCursor struct {
	T  time.Time `json:"t"`
	ID int64     `json:"id"`
}

// SolveHistoryFilter constrains paginated history queries.
type SolveHistoryFilter struct {
	From      *time.Time
	To        *time.Time
	IsCorrect *bool
	Cursor    *SolveCursor
	Limit     int
}

// SolvePage is one page of history plus an authoritative has-more flag.
type SolvePage struct {
	Items   []Solve `json:"items"`
	HasMore bool    `json:"hasMore"`
}

// SolveUnitAggregate carries per-unit totals for a user. Units without
// matching solves are omitted.
type SolveUnitAggregate struct {
	UnitID  int `db:"unit_id" json:"unitId"`
	Total   int `db:"total" json:"total"`
	Correct int `db:"correct" json:"correct"`
}

// UnitStats joins aggregate counts against unit names. Unlike
// SolveUnitAggregate every unit in the reference table appears, zero-filled.
type UnitStats struct {
	UnitID   int    `db:"unit_id" json:"unitId"`
	UnitName string `db:"unit_name" json:"unitName"`
	Total    int    `db:"total" json:"total"`
	Correct  int    `db:"correct" json:"correct"`
}

// SolveSample is the reduced projection served on recent-sample slices.
type SolveSample struct {
	ID        int64     `db:"id" json:"id"`
	Question  string    `db:"question" json:"question"`
	IsCorrect bool      `db:"is_correct" json:"isCorrect"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
