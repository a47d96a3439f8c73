package session

import (
	"fmt"

	"github.com/amishk599/synergy/internal/model"
)

// Session is a table bound to an ID in a SessionStore.
type Session struct {
	ID    string
	store model.SessionStore
	table Table
}

// Start creates a new, empty session in store.
func Start(store model.SessionStore) (*Session, error) {
	id, err := store.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &Session{ID: id, store: store}, nil
}

// Resume loads an existing session from store.
func Resume(store model.SessionStore, id string) (*Session, error) {
	ok, err := store.HasSession(id)
	if err != nil {
		return nil, fmt.Errorf("resume session %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("resume session %s: not found", id)
	}
	rows, err := store.Load(id)
	if err != nil {
		return nil, fmt.Errorf("resume session %s: %w", id, err)
	}
	return &Session{ID: id, store: store, table: NewTable(rows...)}, nil
}

// Table returns the current table.
func (s *Session) Table() Table {
	return s.table
}

// Commit replaces the session table with next and persists the rows next
// added. next must extend the current table; rows are never removed.
func (s *Session) Commit(next Table) error {
	cur := s.table.Len()
	if next.Len() < cur {
		return fmt.Errorf("commit session %s: table shrank from %d to %d rows", s.ID, cur, next.Len())
	}
	for i := 0; i < cur; i++ {
		if next.rows[i] != s.table.rows[i] {
			return fmt.Errorf("commit session %s: row %d was modified", s.ID, i)
		}
	}
	added := next.rows[cur:]
	if len(added) == 0 {
		return nil
	}
	if err := s.store.Append(s.ID, added); err != nil {
		return fmt.Errorf("commit session %s: %w", s.ID, err)
	}
	s.table = next
	return nil
}
