package model

import "github.com/google/uuid"

// TokenManager signs and validates client tokens.
type TokenManager interface {
	GenerateClientToken(clientID uuid.UUID) (string, error)
	ParseClientToken(token string) (uuid.UUID, error)
}
