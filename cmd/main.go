package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/migraplan/portal-server/internal/api/http/context"
	"github.com/migraplan/portal-server/internal/api/http/router"
	"github.com/migraplan/portal-server/internal/config"
	"github.com/migraplan/portal-server/internal/identity"
	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
	"github.com/migraplan/portal-server/internal/repository/postgres"
	"github.com/migraplan/portal-server/internal/server"
	"github.com/migraplan/portal-server/internal/service"
	storage "github.com/migraplan/portal-server/internal/storage/minio"
	"github.com/migraplan/portal-server/internal/token"
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

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	profileRepo := postgres.NewProfileRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	provider := identity.NewClient(cfg.Auth.BaseURL, cfg.Auth.ServiceKey, &http.Client{Timeout: 15 * time.Second}, logger)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, logger)
	passwordChange := service.NewPasswordChange(provider, clientRepo, service.ChangePolicy{
		MinLength:             cfg.PasswordChange.MinLength,
		RequireUpper:          cfg.PasswordChange.RequireUpper,
		RequireDigit:          cfg.PasswordChange.RequireDigit,
		RequireReverification: cfg.PasswordChange.RequireReverification,
	}, logger)
	authService := service.NewAuth(provider, profileRepo, tokenService, passwordChange, logger)
	provisioning := service.NewProvisioning(provider, profileRepo, clientRepo, logger)
	documentService := service.NewDocument(documentRepo, clientRepo, storageClient, logger)

	ctxMgr := httpctx.NewManager()

	r := router.New(authService, tokenService, provisioning, passwordChange, documentService, profileRepo, ctxMgr, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
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
