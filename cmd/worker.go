package main

import (
	"document-approval-server/internal/queue"
	"document-approval-server/internal/storage"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Обработка отложенного удаления файлов (asynq)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush, err := bootstrap()
			if err != nil {
				return err
			}
			defer flush()

			ctx := cmd.Context()
			store, err := storage.New(ctx, &cfg.Storage)
			if err != nil {
				return err
			}

			server := asynq.NewServer(cfg.RedisConfig.AsynqOpt(), asynq.Config{
				Concurrency: cfg.Queue.Concurrency,
				Logger:      zap.S(),
			})
			processor := queue.NewProcessor(store)

			go func() {
				<-ctx.Done()
				server.Shutdown()
			}()

			zap.L().Info("воркер очистки файлов запущен", zap.Int("concurrency", cfg.Queue.Concurrency))
			return server.Run(processor.Handler())
		},
	}
}
