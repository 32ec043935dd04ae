package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tisseo/mimirsbrunn/app/models"
	"github.com/Tisseo/mimirsbrunn/internal/search"
)

func parisAdmin() *models.Admin {
	ring := models.Ring{
		{Lon: 2, Lat: 48}, {Lon: 3, Lat: 48}, {Lon: 3, Lat: 49}, {Lon: 2, Lat: 49}, {Lon: 2, Lat: 48},
	}
	return &models.Admin{
		ID:       "admin:fr:75056",
		Name:     "Paris",
		Level:    models.LevelCity,
		Weight:   42,
		Insee:    "75056",
		Boundary: []models.Polygon{{ring}},
	}
}

func writeBanoFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportRun(t *testing.T) {
	dir := t.TempDir()
	writeBanoFile(t, dir, "bano-75.csv",
		"751010000A,12,Rue de la Paix,75001,Paris,bano,48.85,2.35\n"+
			"short,7,Rue Courte,75002,Paris,bano,48.86,2.36\n"+
			"751010000B,,Boulevard Haussmann,75008,Paris,bano,48.87,2.33\n")

	fb := &fakeBackend{admins: []*models.Admin{parisAdmin()}}
	svc := NewImportService(fb, nil, zap.NewNop())

	report, err := svc.Run(context.Background(), ImportConfig{
		Dataset:   "fr",
		Input:     dir,
		Workers:   2,
		BatchSize: 10,
		Settings:  search.IndexSettings{NbShards: 2, NbReplicas: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, ImportStatusDone, report.Status)
	assert.Equal(t, []string{"fr"}, fb.ensured)
	assert.Equal(t, search.IndexSettings{NbShards: 2, NbReplicas: 1}, fb.settings)
	assert.Equal(t, 1, report.Files)
	assert.Equal(t, 1, report.Admins)
	assert.EqualValues(t, 2, report.Indexed)
	assert.EqualValues(t, 1, report.Skipped, "malformed identifier is skipped, not fatal")
	assert.NotEmpty(t, report.RunID)

	var indexed []*models.Addr
	for _, batch := range fb.batches {
		indexed = append(indexed, batch...)
	}
	require.Len(t, indexed, 2)

	byID := map[string]*models.Addr{}
	for _, a := range indexed {
		byID[a.ID] = a
	}
	paix := byID["addr:2.35;48.85"]
	require.NotNil(t, paix)
	assert.Equal(t, "12 Rue de la Paix (Paris)", paix.Label)
	assert.Equal(t, float64(42), paix.Weight, "weight taken from the covering city")
}

func TestImportRunBatching(t *testing.T) {
	dir := t.TempDir()
	rows := ""
	for i := 0; i < 5; i++ {
		rows += "751010000A,12,Rue de la Paix,75001,Paris,bano,48.85,2.35\n"
	}
	writeBanoFile(t, dir, "bano.csv", rows)

	fb := &fakeBackend{}
	svc := NewImportService(fb, nil, zap.NewNop())

	report, err := svc.Run(context.Background(), ImportConfig{
		Dataset: "fr", Input: dir, Workers: 1, BatchSize: 2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, report.Indexed)
	assert.Len(t, fb.batches, 3, "two full batches plus the final partial flush")
}

func TestImportRunWithoutAdmins(t *testing.T) {
	dir := t.TempDir()
	writeBanoFile(t, dir, "bano.csv",
		"751010000A,12,Rue de la Paix,75001,Paris,bano,48.85,2.35\n")

	fb := &fakeBackend{adminsErr: errors.New("index not found")}
	svc := NewImportService(fb, nil, zap.NewNop())

	report, err := svc.Run(context.Background(), ImportConfig{Dataset: "fr", Input: dir})
	require.NoError(t, err, "missing admins only disables enrichment")

	assert.EqualValues(t, 1, report.Indexed)
	require.Len(t, fb.batches, 1)
	addr := fb.batches[0][0]
	assert.Empty(t, addr.Street.Admins)
	assert.Zero(t, addr.Weight)
}

func TestImportRunBulkFailure(t *testing.T) {
	dir := t.TempDir()
	writeBanoFile(t, dir, "bano.csv",
		"751010000A,12,Rue de la Paix,75001,Paris,bano,48.85,2.35\n")

	fb := &fakeBackend{bulkErr: &models.BackendError{Err: errors.New("engine down")}}
	svc := NewImportService(fb, nil, zap.NewNop())

	report, err := svc.Run(context.Background(), ImportConfig{Dataset: "fr", Input: dir})
	require.Error(t, err)

	var backendErr *models.BackendError
	assert.ErrorAs(t, err, &backendErr)
	assert.Equal(t, ImportStatusFailed, report.Status)
	assert.NotEmpty(t, report.Error)
}

func TestImportRunCancellation(t *testing.T) {
	dir := t.TempDir()
	writeBanoFile(t, dir, "bano.csv",
		"751010000A,12,Rue de la Paix,75001,Paris,bano,48.85,2.35\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fb := &fakeBackend{}
	svc := NewImportService(fb, nil, zap.NewNop())

	report, err := svc.Run(ctx, ImportConfig{Dataset: "fr", Input: dir})
	require.Error(t, err)
	assert.Equal(t, ImportStatusFailed, report.Status)
}
