package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ImportLogService persists import run reports in MongoDB so operators can
// audit past runs across worker restarts.
type ImportLogService struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewImportLogService(db *mongo.Database, logger *zap.Logger) (*ImportLogService, error) {
	collection := db.Collection("import_runs")

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "run_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "dataset", Value: 1}, bson.E{Key: "started_at", Value: -1}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("cannot create indexes for import_runs", zap.Error(err))
	}

	return &ImportLogService{collection: collection, logger: logger}, nil
}

// Save upserts the report by run id.
func (ils *ImportLogService) Save(ctx context.Context, report *ImportReport) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"run_id": report.RunID}
	update := bson.M{"$set": report}
	opts := options.Update().SetUpsert(true)

	if _, err := ils.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("save import report: %w", err)
	}
	return nil
}

// LastRuns returns the most recent reports for a dataset, newest first.
// An empty dataset matches every run.
func (ils *ImportLogService) LastRuns(ctx context.Context, dataset string, limit int64) ([]ImportReport, error) {
	filter := bson.M{}
	if dataset != "" {
		filter["dataset"] = dataset
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "started_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := ils.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []ImportReport
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode import runs: %w", err)
	}
	return runs, nil
}
