package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed *.sql
var embedMigrations embed.FS

// Dialect : диалект goose по имени драйвера database/sql
func Dialect(driver string) (string, error) {
	switch driver {
	case "postgres", "pgx":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("[Migrations] неподдерживаемый драйвер %q", driver)
	}
}

func Up(ctx context.Context, db *sql.DB, driver string) error {
	dialect, err := Dialect(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("[Migrations] ошибка выбора диалекта: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("[Migrations] ошибка применения миграций: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("[Migrations] не удалось получить версию схемы: %w", err)
	}

	zap.L().Info("[Migrations] схема актуальна", zap.Int64("version", version))
	return nil
}
