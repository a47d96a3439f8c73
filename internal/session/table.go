// Package session holds the append-only result table accumulated during a
// session and ties it to an optional persistent store.
package session

import "github.com/amishk599/synergy/internal/model"

// Table is an ordered, append-only sequence of result rows. The zero value
// is an empty table. Tables are values: Append returns a new Table and
// never modifies the receiver.
type Table struct {
	rows []model.ResultRow
}

// NewTable returns a table holding rows in the given order.
func NewTable(rows ...model.ResultRow) Table {
	return Table{}.Append(rows...)
}

// Append returns a table with rows added after the existing ones.
// Duplicates are kept.
func (t Table) Append(rows ...model.ResultRow) Table {
	next := make([]model.ResultRow, 0, len(t.rows)+len(rows))
	next = append(next, t.rows...)
	next = append(next, rows...)
	return Table{rows: next}
}

// Rows returns a copy of the rows in insertion order.
func (t Table) Rows() []model.ResultRow {
	out := make([]model.ResultRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.rows) == 0 }
