package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	grpcctx "github.com/dtroode/taskboard-server/internal/api/grpc/context"
	"github.com/dtroode/taskboard-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/taskboard-server/internal/api/grpc/server"
	"github.com/dtroode/taskboard-server/internal/config"
	"github.com/dtroode/taskboard-server/internal/logger"
	"github.com/dtroode/taskboard-server/internal/model"
	"github.com/dtroode/taskboard-server/internal/server"
	"github.com/dtroode/taskboard-server/internal/service"
	"github.com/dtroode/taskboard-server/internal/storage"
	"github.com/dtroode/taskboard-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()
	logger.Info("storage ready", "driver", cfg.Storage.Driver)

	workspaces, err := service.NewWorkspaces(backend, service.NewBcryptHasher(cfg.Auth.BcryptCost), logger, cfg.Workspace.CacheSize)
	if err != nil {
		logger.Fatal("failed to initialize workspaces", "error", err)
	}

	tokenManager := token.NewJWT(cfg.Token.Secret, cfg.Token.TTL)
	ctxMgr := grpcctx.NewManager()

	grpcServer := registerGRPCServer(logger, workspaces, tokenManager, ctxMgr, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer

	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(
	logger *logger.Logger,
	workspaces *service.Workspaces,
	tokenManager model.TokenManager,
	ctxMgr model.ContextManager,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(workspaces, tokenManager, ctxMgr, logger)

	return grpcServer.NewGRPCServer(r.Register(), addr)
}
