package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Migrate 通过 pgx 的 database/sql 驱动执行内置迁移，完成后关闭连接。
// 检查点表建好之后才交给 GORM 使用。
func Migrate(ctx context.Context, dsn string) error {
	if err := ValidateDSN(dsn); err != nil {
		return fmt.Errorf("invalid POSTGRES_DSN: %w", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := ApplyMigrations(ctx, db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
