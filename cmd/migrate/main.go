package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/samirrijal/dayroute/internal/pkg/config"
)

const migrationsDir = "migrations"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load("dayroute-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		files, err := migrationFiles(false)
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		runMigrations(ctx, pool, files)
	case "down":
		files, err := migrationFiles(true)
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		slices.Reverse(files)
		runMigrations(ctx, pool, files)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// migrationFiles lists NNN_name.sql (up) or NNN_name.down.sql (down) in
// lexical order.
func migrationFiles(down bool) ([]string, error) {
	all, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, f := range all {
		if strings.HasSuffix(f, ".down.sql") == down {
			files = append(files, f)
		}
	}
	slices.Sort(files)
	return files, nil
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, files []string) {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		_, err = pool.Exec(ctx, string(data))
		if err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Printf("%d migrations applied", len(files))
}
