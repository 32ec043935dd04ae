package services

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Tisseo/mimirsbrunn/app/models"
	"github.com/Tisseo/mimirsbrunn/helpers/utils"
	"github.com/Tisseo/mimirsbrunn/internal/bano"
	"github.com/Tisseo/mimirsbrunn/internal/geofinder"
	"github.com/Tisseo/mimirsbrunn/internal/search"
)

// ImportConfig drives one import run.
type ImportConfig struct {
	Dataset   string
	Input     string // a CSV file, or a directory of CSV files
	Workers   int    // 0 means one worker per CPU
	BatchSize int
	Settings  search.IndexSettings
}

// ImportReport summarizes a finished (or failed) import run.
type ImportReport struct {
	RunID      string    `json:"run_id" bson:"run_id"`
	Dataset    string    `json:"dataset" bson:"dataset"`
	StartedAt  time.Time `json:"started_at" bson:"started_at"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
	Files      int       `json:"files" bson:"files"`
	Admins     int       `json:"admins" bson:"admins"`
	Indexed    int64     `json:"indexed" bson:"indexed"`
	Skipped    int64     `json:"skipped" bson:"skipped"`
	Status     string    `json:"status" bson:"status"`
	Error      string    `json:"error,omitempty" bson:"error,omitempty"`
}

// Import run statuses.
const (
	ImportStatusDone   = "done"
	ImportStatusFailed = "failed"
)

// ImportService reads raw address files, enriches each row with its
// administrative context and bulk-writes the result into the dataset index.
type ImportService struct {
	backend search.Backend
	runLog  *ImportLogService // nil when mongo logging is disabled
	logger  *zap.Logger
}

func NewImportService(backend search.Backend, runLog *ImportLogService, logger *zap.Logger) *ImportService {
	return &ImportService{backend: backend, runLog: runLog, logger: logger}
}

// Run executes one import. Admin lookup being unavailable is not fatal:
// addresses are then indexed without hierarchy context and with weight 0.
// Any backend write failure aborts the run; batches already submitted stay
// in the index.
func (is *ImportService) Run(ctx context.Context, cfg ImportConfig) (*ImportReport, error) {
	report := &ImportReport{
		RunID:     utils.GenerateUUID(),
		Dataset:   cfg.Dataset,
		StartedAt: time.Now().UTC(),
	}

	err := is.run(ctx, cfg, report)
	report.FinishedAt = time.Now().UTC()
	if err != nil {
		report.Status = ImportStatusFailed
		report.Error = err.Error()
	} else {
		report.Status = ImportStatusDone
	}

	if is.runLog != nil {
		if logErr := is.runLog.Save(context.Background(), report); logErr != nil {
			is.logger.Warn("saving import report failed", zap.Error(logErr))
		}
	}
	return report, err
}

func (is *ImportService) run(ctx context.Context, cfg ImportConfig, report *ImportReport) error {
	if err := is.backend.EnsureIndex(ctx, cfg.Dataset, cfg.Settings); err != nil {
		return err
	}

	finder, byInsee := is.loadAdmins(ctx, cfg.Dataset, report)

	files, err := bano.ResolveFiles(cfg.Input)
	if err != nil {
		return err
	}
	report.Files = len(files)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	is.logger.Info("import starting",
		zap.String("run_id", report.RunID),
		zap.String("dataset", cfg.Dataset),
		zap.Int("files", len(files)),
		zap.Int("workers", workers))

	// buffered so a failing worker never blocks the others
	fileCh := make(chan string, len(files))
	for _, path := range files {
		fileCh <- path
	}
	close(fileCh)

	var (
		wg       sync.WaitGroup
		indexed  atomic.Int64
		skipped  atomic.Int64
		aborted  atomic.Bool
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			aborted.Store(true)
		})
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := make([]*models.Addr, 0, batchSize)

			flush := func() error {
				if len(batch) == 0 {
					return nil
				}
				if err := is.backend.BulkIndex(ctx, cfg.Dataset, batch); err != nil {
					return err
				}
				indexed.Add(int64(len(batch)))
				batch = batch[:0]
				return nil
			}

			for path := range fileCh {
				if aborted.Load() {
					return
				}
				err := bano.ReadFile(path, func(rec bano.Record) error {
					if err := ctx.Err(); err != nil {
						return err
					}
					addr, err := rec.ToAddr(byInsee, finder)
					if err != nil {
						skipped.Add(1)
						is.logger.Warn("skipping record",
							zap.String("id", rec.ID), zap.Error(err))
						return nil
					}
					batch = append(batch, addr)
					if len(batch) == batchSize {
						return flush()
					}
					return nil
				})
				if err != nil {
					fail(err)
					return
				}
			}
			if err := flush(); err != nil {
				fail(err)
			}
		}()
	}

	wg.Wait()

	report.Indexed = indexed.Load()
	report.Skipped = skipped.Load()
	if firstErr != nil {
		return firstErr
	}

	is.logger.Info("import finished",
		zap.String("run_id", report.RunID),
		zap.Int64("indexed", report.Indexed),
		zap.Int64("skipped", report.Skipped))
	return nil
}

// loadAdmins fetches the dataset's administrative regions and builds the
// point lookup plus the insee override table. Failures and empty result
// sets only disable enrichment.
func (is *ImportService) loadAdmins(ctx context.Context, dataset string, report *ImportReport) (*geofinder.GeoFinder, map[string]*models.Admin) {
	admins, err := is.backend.AdminsByDataset(ctx, dataset)
	if err != nil {
		is.logger.Warn("loading admins failed, importing without hierarchy",
			zap.String("dataset", dataset), zap.Error(err))
		return geofinder.New(nil), nil
	}
	if len(admins) == 0 {
		is.logger.Warn("no admins indexed, importing without hierarchy",
			zap.String("dataset", dataset))
		return geofinder.New(nil), nil
	}
	report.Admins = len(admins)

	byInsee := make(map[string]*models.Admin, len(admins))
	for _, a := range admins {
		if a.Insee == "" {
			continue
		}
		// the override table does not need geometry, keep it lean
		flat := *a
		flat.Boundary = nil
		byInsee[a.Insee] = &flat
	}
	return geofinder.New(admins), byInsee
}
