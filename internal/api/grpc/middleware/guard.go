package middleware

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/taskboard-server/internal/guard"
	"github.com/dtroode/taskboard-server/internal/logger"
	"github.com/dtroode/taskboard-server/internal/model"
)

// RedirectTrailer carries the path a denied client should navigate to.
const RedirectTrailer = "x-redirect-to"

// AuthState reports whether a client has a signed-in user.
type AuthState interface {
	IsAuthenticated(ctx context.Context, clientID uuid.UUID) (bool, error)
}

// Guard enforces the access policy of every method.
type Guard struct {
	table          guard.Table
	state          AuthState
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewGuard creates a Guard checking methods against table.
func NewGuard(table guard.Table, state AuthState, contextManager model.ContextManager, logger *logger.Logger) *Guard {
	return &Guard{
		table:          table,
		state:          state,
		contextManager: contextManager,
		logger:         logger,
	}
}

// HandleGRPC rejects calls the caller's session does not permit. Denied
// protected calls fail with Unauthenticated, denied guest calls with
// FailedPrecondition; both set RedirectTrailer.
func (g *Guard) HandleGRPC(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	policy := g.table.Lookup(info.FullMethod)
	if policy == guard.Public {
		return handler(ctx, req)
	}

	clientID, ok := g.contextManager.GetClientIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, errMissingToken.Error())
	}

	authenticated, err := g.state.IsAuthenticated(ctx, clientID)
	if err != nil {
		g.logger.Error("Guard middleware: failed to load session",
			"client_id", clientID.String(),
			"error", err.Error())
		return nil, status.Error(codes.Unavailable, "session is unavailable")
	}

	decision := guard.Decide(policy, authenticated)
	if decision.Allowed {
		return handler(ctx, req)
	}

	g.logger.Debug("Guard middleware: call denied",
		"method", info.FullMethod,
		"policy", policy.String(),
		"redirect_to", decision.RedirectTo)

	// fails outside a server stream, as in unit tests
	_ = grpc.SetTrailer(ctx, metadata.Pairs(RedirectTrailer, decision.RedirectTo))

	code := codes.Unauthenticated
	if policy == guard.Guest {
		code = codes.FailedPrecondition
	}

	return nil, status.Errorf(code, "redirect to %s", decision.RedirectTo)
}
