package session

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	// Save persists the session row and replaces its activation tuples and
	// snapshot history with the given state.
	Save(ctx context.Context, s *Session) error
	List(ctx context.Context, limit, offset int) ([]*Session, int, error)
}
