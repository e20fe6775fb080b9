package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// clientIDKey is the metadata key used to store and retrieve client ID in gRPC context.
const (
	clientIDKey string = "client_id"
)

// Manager represents a gRPC context manager for client ID operations.
// It provides methods to set and retrieve client IDs from gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetClientIDToContext sets the client ID in the incoming metadata of ctx.
// A client ID already present is replaced.
func (m *Manager) SetClientIDToContext(ctx context.Context, clientID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(map[string]string{clientIDKey: clientID.String()})
	} else {
		md = md.Copy()
		md.Set(clientIDKey, clientID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetClientIDFromContext retrieves the client ID from incoming metadata.
//
// Returns the client UUID and a boolean indicating if the client ID was found.
func (m *Manager) GetClientIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	clientIDs := md.Get(clientIDKey)
	if len(clientIDs) == 0 {
		return uuid.Nil, false
	}

	clientID, err := uuid.Parse(clientIDs[0])
	if err != nil {
		return uuid.Nil, false
	}

	return clientID, true
}
