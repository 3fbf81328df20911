package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/ingest"
	"github.com/shenikar/safe_route_system/internal/repository"
	"github.com/shenikar/safe_route_system/pkg/logger"
	"github.com/shenikar/safe_route_system/pkg/postgres"
	"github.com/sirupsen/logrus"
)

// Загрузка исторических инцидентов из CSV в настроенное хранилище
func main() {
	file := flag.String("file", "", "path to the crime CSV export")
	batchSize := flag.Int("batch", 500, "number of incidents per append batch")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	if *file == "" {
		log.Fatal("-file is required")
	}
	if cfg.StoreBackend == config.BackendMemory {
		log.Fatal("STORE_BACKEND=memory does not persist imported incidents")
	}

	if cfg.StoreBackend == config.BackendPostgres {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer f.Close()

	backend, err := repository.OpenBackend(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open incident store: %v", err)
	}
	defer backend.Close(context.Background())

	stats, err := ingest.NewImporter(backend.Writer, log, *batchSize).Import(ctx, f)
	if err != nil {
		log.WithFields(logrus.Fields{
			"imported":    stats.Imported,
			"quarantined": stats.Quarantined,
		}).Fatalf("Import failed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"file":        *file,
		"imported":    stats.Imported,
		"quarantined": stats.Quarantined,
	}).Info("Import finished")
}
