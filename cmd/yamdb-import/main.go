package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"yamdb/internal/importer"
	"yamdb/internal/logging"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	dir := flag.String("dir", "static/data", "directory holding the CSV files")
	flag.Parse()

	_ = godotenv.Load(".env")
	logger := logging.New(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "text"))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	logger.Info("starting import", "dir", *dir)
	stats, err := importer.New(db, *dir, logger).Run(ctx)
	if err != nil {
		logger.Error("import failed, nothing was written", "error", err)
		os.Exit(1)
	}

	files := make([]string, 0, len(stats))
	for f := range stats {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		logger.Info("import summary", "file", f, "rows", stats[f])
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
