package models

// Unit is a curriculum topic grouping. Static reference data.
type Unit struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
