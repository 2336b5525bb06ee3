package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"document-approval-server/config"
	"document-approval-server/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// @title Document-approval-server
// @version 1.0
// @description REST API документооборота: удаление и замена документов только через согласование администратором

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "document-approval-server: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "document-approval-server",
		Short:        "Документооборот с согласованием удаления и замены файлов",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Путь к YAML конфигурации")
	cmd.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newMigrateCmd(),
		newCreateUserCmd(),
		newPromoteAdminCmd(),
	)
	return cmd
}

// bootstrap : конфигурация и глобальный логгер, общие для всех команд
func bootstrap() (*config.AppConfig, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	logger, err := util.NewLogger(cfg.Logging.Environment, cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(logger)

	return cfg, func() {
		_ = logger.Sync()
		restore()
	}, nil
}

func openDatabase(cfg *config.AppConfig) (*config.Database, func(), error) {
	db, err := config.SetupDatabase(&cfg.DatabaseConfig)
	if err != nil {
		return nil, nil, err
	}

	return db, func() {
		if err := db.Close(); err != nil {
			zap.L().Warn("ошибка при закрытии БД", zap.Error(err))
		}
	}, nil
}
