package store

import (
	"github.com/google/uuid"

	"github.com/amishk599/synergy/internal/model"
)

// NopStore keeps nothing. It is used when no database path is configured, so
// the session lives only as long as the process.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) CreateSession() (string, error)                 { return uuid.NewString(), nil }
func (s *NopStore) HasSession(id string) (bool, error)             { return false, nil }
func (s *NopStore) Load(id string) ([]model.ResultRow, error)      { return nil, nil }
func (s *NopStore) Append(id string, rows []model.ResultRow) error { return nil }
