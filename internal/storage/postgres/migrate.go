package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ApplyMigrations 执行内置的 SQL 迁移
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	return ApplyMigrationsFS(ctx, db, migrationFS, "migrations")
}

// ApplyMigrationsFS 以“按文件名排序”的方式执行 SQL 迁移。
// 迁移脚本须可重复执行（if not exists）。
func ApplyMigrationsFS(ctx context.Context, db *sql.DB, fsys fs.FS, dir string) error {
	ents, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}

	var files []string
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, path.Join(dir, e.Name()))
	}
	sort.Strings(files)

	for _, f := range files {
		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(b)); err != nil {
			return fmt.Errorf("apply %s: %w", path.Base(f), err)
		}
	}
	return nil
}
