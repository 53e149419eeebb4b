package warehouse

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"warehouse-ai-be/internal/config"
)

// Row is one result row keyed by column name.
type Row map[string]bigquery.Value

// Runner is the warehouse collaborator surface every feature service talks
// to: blocking query execution, streaming inserts with per-row errors, and
// table create/delete for temporary structures.
type Runner interface {
	// RunQuery submits sql and blocks until all result rows are drained.
	RunQuery(ctx context.Context, sql string) ([]Row, error)
	// Exec submits DDL/DML and blocks until the job completes.
	Exec(ctx context.Context, sql string) error
	// InsertRows streams rows into a table of the configured dataset.
	// Any per-row error is folded into the returned error.
	InsertRows(ctx context.Context, table string, rows []Row) error
	// CreateTable creates a table in the configured dataset.
	CreateTable(ctx context.Context, table string, schema bigquery.Schema) error
	// DeleteTable drops a table in the configured dataset. A missing table
	// is not an error.
	DeleteTable(ctx context.Context, table string) error
}

type sdkRunner struct {
	provider *Provider
	cfg      config.WarehouseConfig
}

func NewRunner(provider *Provider, cfg config.WarehouseConfig) Runner {
	return &sdkRunner{
		provider: provider,
		cfg:      cfg,
	}
}

func (r *sdkRunner) RunQuery(ctx context.Context, sql string) ([]Row, error) {
	client, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	q := client.Query(sql)
	q.Location = r.cfg.Location

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}

	var rows []Row
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read query results: %w", err)
		}
		rows = append(rows, Row(row))
	}
	return rows, nil
}

func (r *sdkRunner) Exec(ctx context.Context, sql string) error {
	client, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}

	q := client.Query(sql)
	q.Location = r.cfg.Location

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("submit statement: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for statement: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("statement failed: %w", err)
	}
	return nil
}

// rowSaver adapts a Row to the streaming insert API. An empty insert ID lets
// the warehouse assign one (no client-side dedup).
type rowSaver Row

func (s rowSaver) Save() (map[string]bigquery.Value, string, error) {
	return map[string]bigquery.Value(s), "", nil
}

func (r *sdkRunner) InsertRows(ctx context.Context, table string, rows []Row) error {
	client, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}

	savers := make([]*rowSaver, 0, len(rows))
	for i := range rows {
		s := rowSaver(rows[i])
		savers = append(savers, &s)
	}

	inserter := client.Dataset(r.cfg.DatasetID).Table(table).Inserter()
	if err := inserter.Put(ctx, savers); err != nil {
		return fmt.Errorf("insert rows into %s: %w", table, err)
	}
	return nil
}

func (r *sdkRunner) CreateTable(ctx context.Context, table string, schema bigquery.Schema) error {
	client, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}

	meta := &bigquery.TableMetadata{Schema: schema}
	if err := client.Dataset(r.cfg.DatasetID).Table(table).Create(ctx, meta); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

func (r *sdkRunner) DeleteTable(ctx context.Context, table string) error {
	client, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}

	if err := client.Dataset(r.cfg.DatasetID).Table(table).Delete(ctx); err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("delete table %s: %w", table, err)
	}
	return nil
}
