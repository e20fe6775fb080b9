package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/taskboard-server/internal/logger"
	"github.com/dtroode/taskboard-server/internal/model"
)

var (
	errMissingToken = errors.New("missing client token")
	errInvalidToken = errors.New("invalid client token")
)

// TokenParser resolves the client ID carried by a client token.
type TokenParser interface {
	ParseClientToken(token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects client ID into context.
type Authenticate struct {
	tokenParser    TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenParser TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenParser: tokenParser, contextManager: contextManager, logger: logger}
}

// AuthFunc parses Authorization header, validates token and returns a context with client ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimPrefix(authHeaders[0], "Bearer ")
		}
	}

	clientID, authErr := m.authenticateClient(tokenString)
	if authErr != nil {
		return nil, status.Error(codes.Unauthenticated, authErr.Error())
	}

	return m.contextManager.SetClientIDToContext(ctx, clientID), nil
}

func (m *Authenticate) authenticateClient(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, errMissingToken
	}

	clientID, err := m.tokenParser.ParseClientToken(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: rejected client token", "error", err.Error())
		return uuid.Nil, errInvalidToken
	}

	if clientID == uuid.Nil {
		return uuid.Nil, errInvalidToken
	}

	return clientID, nil
}
