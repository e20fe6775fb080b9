package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager carries the authenticated client id through a request context.
type ContextManager interface {
	SetClientIDToContext(ctx context.Context, clientID uuid.UUID) context.Context
	GetClientIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
