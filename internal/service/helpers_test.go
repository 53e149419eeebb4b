package service

import (
	"context"
	"sync"

	"cloud.google.com/go/bigquery"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/repository/contract"
	"warehouse-ai-be/internal/warehouse"
)

// fakeRunner scripts warehouse behavior per call and records everything the
// service under test submitted.
type fakeRunner struct {
	mu sync.Mutex

	queries       []string
	execs         []string
	insertedInto  []string
	insertedRows  [][]warehouse.Row
	createdTables []string
	deletedTables []string

	runQueryFn func(sql string) ([]warehouse.Row, error)
	execFn     func(sql string) error
	insertFn   func(table string, rows []warehouse.Row) error
	createFn   func(table string) error
	deleteFn   func(table string) error
}

func (f *fakeRunner) RunQuery(_ context.Context, sql string) ([]warehouse.Row, error) {
	f.mu.Lock()
	f.queries = append(f.queries, sql)
	f.mu.Unlock()
	if f.runQueryFn != nil {
		return f.runQueryFn(sql)
	}
	return nil, nil
}

func (f *fakeRunner) Exec(_ context.Context, sql string) error {
	f.mu.Lock()
	f.execs = append(f.execs, sql)
	f.mu.Unlock()
	if f.execFn != nil {
		return f.execFn(sql)
	}
	return nil
}

func (f *fakeRunner) InsertRows(_ context.Context, table string, rows []warehouse.Row) error {
	f.mu.Lock()
	f.insertedInto = append(f.insertedInto, table)
	f.insertedRows = append(f.insertedRows, rows)
	f.mu.Unlock()
	if f.insertFn != nil {
		return f.insertFn(table, rows)
	}
	return nil
}

func (f *fakeRunner) CreateTable(_ context.Context, table string, _ bigquery.Schema) error {
	f.mu.Lock()
	f.createdTables = append(f.createdTables, table)
	f.mu.Unlock()
	if f.createFn != nil {
		return f.createFn(table)
	}
	return nil
}

func (f *fakeRunner) DeleteTable(_ context.Context, table string) error {
	f.mu.Lock()
	f.deletedTables = append(f.deletedTables, table)
	f.mu.Unlock()
	if f.deleteFn != nil {
		return f.deleteFn(table)
	}
	return nil
}

// fakeAudit records published audit records in order.
type fakeAudit struct {
	mu       sync.Mutex
	kinds    []string
	payloads []interface{}
}

func (f *fakeAudit) Publish(_ context.Context, kind string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
	f.payloads = append(f.payloads, payload)
}

type fakeGenerationRepo struct {
	stored     []*entity.GenerationRecord
	history    []*entity.GenerationRecord
	historyErr error
}

func (f *fakeGenerationRepo) Store(_ context.Context, record *entity.GenerationRecord) error {
	f.stored = append(f.stored, record)
	return nil
}

func (f *fakeGenerationRepo) History(_ context.Context, limit int, modelName string) ([]*entity.GenerationRecord, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

type fakeEmbeddingRepo struct {
	stored     []*entity.EmbeddingRecord
	byHash     map[string]*entity.EmbeddingRecord
	findErr    error
	history    []*entity.EmbeddingRecord
	historyErr error
}

func (f *fakeEmbeddingRepo) Store(_ context.Context, record *entity.EmbeddingRecord) error {
	f.stored = append(f.stored, record)
	return nil
}

func (f *fakeEmbeddingRepo) FindByHash(_ context.Context, contentHash string) (*entity.EmbeddingRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byHash[contentHash], nil
}

func (f *fakeEmbeddingRepo) History(_ context.Context, limit int, modelName, contentType string) ([]*entity.EmbeddingRecord, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

type fakeObjectRepo struct {
	tables   []*entity.ObjectTableMetadata
	refs     []*entity.ObjectRefMetadata
	analyses []*contract.ObjectAnalysisRecord
	stats    map[string]interface{}
	statsErr error
}

func (f *fakeObjectRepo) StoreTable(_ context.Context, record *entity.ObjectTableMetadata) error {
	f.tables = append(f.tables, record)
	return nil
}

func (f *fakeObjectRepo) StoreRef(_ context.Context, record *entity.ObjectRefMetadata) error {
	f.refs = append(f.refs, record)
	return nil
}

func (f *fakeObjectRepo) StoreAnalysis(_ context.Context, record *contract.ObjectAnalysisRecord) error {
	f.analyses = append(f.analyses, record)
	return nil
}

func (f *fakeObjectRepo) RefUsageStats(_ context.Context) (map[string]interface{}, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Warehouse: config.WarehouseConfig{
			ProjectID: "test-project",
			Location:  "US",
			DatasetID: "test_dataset",
			Bucket:    "test-bucket",
		},
		Models: config.ModelConfig{
			DefaultTextModel:      "gemini-pro",
			DefaultEmbeddingModel: "text-embedding-001",
			DefaultForecastModel:  "auto",
		},
	}
}
