package models

// Vaccine is an inventory line. Doses never go below zero.
type Vaccine struct {
	Name  string `db:"name"`
	Doses int64  `db:"doses"`
}
