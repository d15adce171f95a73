package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/cmarinek/red-square-broadcast/internal/config"
)

const (
	migrationUp   = "up"
	migrationDown = "down"
)

func mustMigrateUp(m *migrate.Migrate) {
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		panic(err)
	}
	fmt.Println("migrations applied successfully")
}

func mustMigrateDown(m *migrate.Migrate) {
	if err := m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		panic(err)
	}
	fmt.Println("migrations downed successfully")
}

// The database URL comes from -db-url or, when empty, from the DB_* variables.
func main() {
	var dbURL, migrationsPath, migrationsTable, migrationType string
	flag.StringVar(&migrationType, "migration-type", migrationUp, "migration type (up|down)")
	flag.StringVar(&dbURL, "db-url", "", "golang-migrate mysql:// URL")
	flag.StringVar(&migrationsPath, "migrations-path", "./migrations", "path to migrations")
	flag.StringVar(&migrationsTable, "migrations-table", "schema_migrations", "name of migrations table")
	flag.Parse()

	if dbURL == "" {
		_ = godotenv.Load()
		dbURL = config.LoadDBConfig().MigrateURL(migrationsTable)
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), dbURL)
	if err != nil {
		panic(err)
	}
	defer m.Close()

	if migrationType == migrationDown {
		mustMigrateDown(m)
		return
	}
	mustMigrateUp(m)
}
