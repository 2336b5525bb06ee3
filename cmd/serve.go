package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"document-approval-server/config"
	_ "document-approval-server/docs"
	"document-approval-server/internal/handler"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/queue"
	"document-approval-server/internal/repository"
	"document-approval-server/internal/security"
	"document-approval-server/internal/service"
	"document-approval-server/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запуск HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush, err := bootstrap()
			if err != nil {
				return err
			}
			defer flush()

			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	db, closeDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	var cacheRepo ports.CacheRepository
	var cleanupQueue ports.CleanupQueue
	if cfg.RedisConfig.Addr != "" {
		redisClient, err := config.SetupRedis(&cfg.RedisConfig)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zap.L().Warn("ошибка при закрытии Redis", zap.Error(err))
			}
		}()
		cacheRepo = repository.NewCacheRepository(redisClient, cfg.CacheTTL())

		if cfg.Queue.Enabled {
			client := asynq.NewClient(cfg.RedisConfig.AsynqOpt())
			defer client.Close()
			cleanupQueue = queue.NewCleanupQueue(client, cfg.Queue.MaxRetry)
		}
	} else {
		zap.L().Warn("Redis не настроен: кэш и очередь очистки отключены")
	}

	store, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		return err
	}

	authorizer, err := security.NewCasbinAuthorizer()
	if err != nil {
		return err
	}
	jwtService := security.NewJWTService(&cfg.JWT)

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	requestRepo := repository.NewPermissionRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifier := service.NewLedgerNotifier(notificationRepo, userRepo)
	cleaner := service.NewFileCleaner(store, cleanupQueue)

	docService := service.NewDocumentService(db, docRepo, requestRepo, cacheRepo, notifier, authorizer)
	approvalService := service.NewApprovalService(db, docRepo, requestRepo, cacheRepo, notifier, authorizer, cleaner)
	notificationService := service.NewNotificationService(db, notificationRepo)
	authService := service.NewAuthenticationService(db, userRepo, jwtService)

	authHandler := handler.NewAuthenticationHandler(authService)
	docHandler := handler.NewDocumentHandler(docService, store, cfg.Storage.MaxUploadMB)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler)
	setupDocumentRoutes(router, docHandler, jwtService)
	setupApprovalRoutes(router, approvalHandler, jwtService)
	setupNotificationRoutes(router, notificationHandler, jwtService)

	return runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
	})
}

func setupDocumentRoutes(r chi.Router, h *handler.DocumentHandler, jwtService *security.JWTService) {
	r.Route("/api/documents", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))
		r.Get("/", h.ListDocuments)
		r.Post("/", h.CreateDocument)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetDocument)
			r.Get("/download", h.DownloadDocument)
			r.Post("/request-delete", h.RequestDelete)
			r.Post("/request-replace", h.RequestReplace)
		})
	})
}

func setupApprovalRoutes(r chi.Router, h *handler.ApprovalHandler, jwtService *security.JWTService) {
	r.Route("/api/approvals/requests", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))
		r.Get("/", h.ListPending)
		r.Post("/{id}/approve", h.Approve)
		r.Post("/{id}/reject", h.Reject)
	})
}

func setupNotificationRoutes(r chi.Router, h *handler.NotificationHandler, jwtService *security.JWTService) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))
		r.Get("/", h.ListNotifications)
		r.Post("/{id}/read", h.MarkRead)
	})
}

func runServer(ctx context.Context, srv *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		zap.L().Info("сервер запущен", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			zap.L().Error("ошибка запуска сервера", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	zap.L().Info("остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("ошибка при остановке сервера", zap.Error(err))
		return err
	}

	zap.L().Info("сервер корректно остановлен")
	return nil
}
