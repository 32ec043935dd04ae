package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Tisseo/mimirsbrunn/app/config"
	"github.com/Tisseo/mimirsbrunn/app/services"
	"github.com/Tisseo/mimirsbrunn/internal/search"
)

func main() {
	var (
		dataset  = flag.String("dataset", "fr", "dataset to import into")
		input    = flag.String("input", "", "BANO CSV file or directory of CSV files")
		noLog    = flag.Bool("no-run-log", false, "skip persisting the run report to MongoDB")
		lastRuns = flag.Int64("last-runs", 0, "print the N most recent import runs and exit")
	)
	flag.Parse()

	if *input == "" && *lastRuns <= 0 {
		log.Fatal("missing -input")
	}

	cfg := config.Load()

	logger := initLogger(cfg.App.Env)
	defer logger.Sync()

	if *lastRuns > 0 {
		printLastRuns(cfg, *dataset, *lastRuns, logger)
		return
	}

	logger.Info("Starting import worker",
		zap.String("dataset", *dataset),
		zap.String("input", *input))

	backend, err := search.NewMeili(search.MeiliConfig{
		Host:        cfg.Meili.Host,
		APIKey:      cfg.Meili.APIKey,
		IndexPrefix: cfg.Meili.IndexPrefix,
		Datasets:    cfg.Meili.Datasets,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize search backend", zap.Error(err))
	}

	runLog, mongoClient := initRunLog(cfg, *noLog, logger)
	if mongoClient != nil {
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
			}
		}()
	}

	importService := services.NewImportService(backend, runLog, logger)

	// SIGINT/SIGTERM cancels the run; batches already written stay indexed
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := importService.Run(ctx, services.ImportConfig{
		Dataset:   *dataset,
		Input:     *input,
		Workers:   cfg.Import.Workers,
		BatchSize: cfg.Import.BatchSize,
		Settings: search.IndexSettings{
			NbShards:   cfg.Import.NbShards,
			NbReplicas: cfg.Import.NbReplicas,
		},
	})
	if err != nil {
		logger.Error("Import failed",
			zap.String("run_id", report.RunID),
			zap.Int64("indexed", report.Indexed),
			zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Import done",
		zap.String("run_id", report.RunID),
		zap.Int64("indexed", report.Indexed),
		zap.Int64("skipped", report.Skipped),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)))
}

func initLogger(env string) *zap.Logger {
	var zapCfg zap.Config
	if env == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	return logger
}

// printLastRuns lists the most recent run reports for the dataset.
func printLastRuns(cfg *config.Config, dataset string, limit int64, logger *zap.Logger) {
	runLog, mongoClient := initRunLog(cfg, false, logger)
	if runLog == nil {
		logger.Fatal("Run log unavailable, cannot list runs")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	runs, err := runLog.LastRuns(context.Background(), dataset, limit)
	if err != nil {
		logger.Fatal("Failed to list runs", zap.Error(err))
	}
	for _, run := range runs {
		logger.Info("run",
			zap.String("run_id", run.RunID),
			zap.String("dataset", run.Dataset),
			zap.String("status", run.Status),
			zap.Time("started_at", run.StartedAt),
			zap.Int64("indexed", run.Indexed),
			zap.Int64("skipped", run.Skipped))
	}
	logger.Info("runs listed", zap.Int("count", len(runs)))
}

// initRunLog connects MongoDB for the run report. Unreachable MongoDB only
// disables the report, the import itself proceeds.
func initRunLog(cfg *config.Config, disabled bool, logger *zap.Logger) (*services.ImportLogService, *mongo.Client) {
	if disabled {
		return nil, nil
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.Mongo.URL))
	if err != nil {
		logger.Warn("MongoDB unavailable, run report disabled", zap.Error(err))
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		logger.Warn("MongoDB unreachable, run report disabled", zap.Error(err))
		return nil, nil
	}

	runLog, err := services.NewImportLogService(client.Database(cfg.Mongo.Database), logger)
	if err != nil {
		logger.Warn("Import run log unavailable", zap.Error(err))
		return nil, client
	}
	return runLog, client
}
