package postgres

import (
	"database/sql"
	"fmt"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx" para database/sql
	migrate "github.com/rubenv/sql-migrate"

	"github.com/jhoicas/Tenancy-api/internal/infrastructure/postgres/migrations"
)

// MigrationsTable tabla donde sql-migrate registra las migraciones aplicadas.
const MigrationsTable = "tenancy_migrations"

// MigrationStatus estado de un script del esquema.
type MigrationStatus struct {
	ID      string
	Applied bool
}

func migrationSource() migrate.MigrationSource {
	return migrate.HttpFileSystemMigrationSource{FileSystem: http.FS(migrations.FS)}
}

func openSQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate aplica (Up) o revierte (Down) hasta count migraciones; count 0 = todas.
func Migrate(dsn string, dir migrate.MigrationDirection, count int) (int, error) {
	db, err := openSQL(dsn)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	ms := migrate.MigrationSet{TableName: MigrationsTable}
	n, err := ms.ExecMax(db, "postgres", migrationSource(), dir, count)
	if err != nil {
		return n, fmt.Errorf("migrate: %w", err)
	}
	return n, nil
}

// Status lista los scripts embebidos indicando cuáles están aplicados.
func Status(dsn string) ([]MigrationStatus, error) {
	db, err := openSQL(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ms := migrate.MigrationSet{TableName: MigrationsTable}
	records, err := ms.GetMigrationRecords(db, "postgres")
	if err != nil {
		return nil, fmt.Errorf("migration records: %w", err)
	}
	applied := make(map[string]bool, len(records))
	for _, r := range records {
		applied[r.Id] = true
	}
	all, err := migrationSource().FindMigrations()
	if err != nil {
		return nil, fmt.Errorf("find migrations: %w", err)
	}
	out := make([]MigrationStatus, 0, len(all))
	for _, m := range all {
		out = append(out, MigrationStatus{ID: m.Id, Applied: applied[m.Id]})
	}
	return out, nil
}
