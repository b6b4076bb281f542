package simulation

import (
	"context"

	"github.com/google/uuid"
)

type AttemptRepository interface {
	Create(ctx context.Context, a *Attempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*Attempt, error)
	List(ctx context.Context, limit, offset int) ([]*Attempt, int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Attempt, int, error)
	ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*Attempt, int, error)
}
