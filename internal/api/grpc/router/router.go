package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/taskboard-server/internal/api/grpc/handler"
	"github.com/dtroode/taskboard-server/internal/api/grpc/middleware"
	"github.com/dtroode/taskboard-server/internal/api/grpc/taskboard"
	"github.com/dtroode/taskboard-server/internal/guard"
	"github.com/dtroode/taskboard-server/internal/logger"
	"github.com/dtroode/taskboard-server/internal/model"
	"github.com/dtroode/taskboard-server/internal/service"
)

// Policies maps TaskBoard methods to their access policy. Methods missing
// from the map are protected.
var Policies = guard.Table{
	Routes: map[string]guard.Policy{
		taskboard.FullMethod("OpenSession"): guard.Public,
		taskboard.FullMethod("Me"):          guard.Public,
		taskboard.FullMethod("Register"):    guard.Guest,
		taskboard.FullMethod("Login"):       guard.Guest,
	},
	Default: guard.Protected,
}

// Router represents a gRPC router for the task board.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	workspaces     *service.Workspaces
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - workspaces: The registry of per-client sessions and task lists
//   - tokenManager: Issues and validates client tokens
//   - contextManager: Carries the client ID through the call context
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	workspaces *service.Workspaces,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		workspaces:     workspaces,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresToken matches every method but the one handing out tokens.
func requiresToken(_ context.Context, c interceptors.CallMeta) bool {
	return c.FullMethod() != taskboard.FullMethod("OpenSession")
}

// Register registers the TaskBoard service and its middleware.
// Calls pass logging, token authentication and the route guard in order.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)
	routeGuard := middleware.NewGuard(Policies, r.workspaces, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresToken),
			),
			routeGuard.HandleGRPC,
		),
	)
	r.registerTaskBoardRoutes(s)

	return s
}

func (r *Router) registerTaskBoardRoutes(server *grpc.Server) {
	taskBoardHandler := handler.NewTaskBoard(r.workspaces, r.tokenManager, r.contextManager, r.logger)
	taskboard.RegisterTaskBoardServer(server, taskBoardHandler)
}
