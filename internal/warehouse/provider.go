package warehouse

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/pkg/logger"
)

// Provider owns the single warehouse client handle for the process. The
// handle is built lazily from ambient credentials on first use and shared by
// every feature service afterwards.
type Provider struct {
	cfg config.WarehouseConfig
	log logger.ILogger

	mu     sync.Mutex
	client *bigquery.Client
}

func NewProvider(cfg config.WarehouseConfig, log logger.ILogger) *Provider {
	return &Provider{
		cfg: cfg,
		log: log,
	}
}

// Client returns the shared handle, constructing it on first call.
func (p *Provider) Client(ctx context.Context) (*bigquery.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	if p.cfg.ProjectID == "" {
		return nil, fmt.Errorf("warehouse project ID is not configured")
	}

	client, err := bigquery.NewClient(ctx, p.cfg.ProjectID)
	if err != nil {
		p.log.Error("warehouse", "Failed to create warehouse client", map[string]interface{}{
			"project_id": p.cfg.ProjectID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("create warehouse client: %w", err)
	}
	client.Location = p.cfg.Location

	p.log.Info("warehouse", "Warehouse client created", map[string]interface{}{
		"project_id": p.cfg.ProjectID,
		"location":   p.cfg.Location,
	})

	p.client = client
	return p.client, nil
}

// Ping validates connectivity with a trivial dataset listing call.
func (p *Provider) Ping(ctx context.Context) error {
	client, err := p.Client(ctx)
	if err != nil {
		return err
	}

	it := client.Datasets(ctx)
	_, err = it.Next()
	if err != nil && err != iterator.Done {
		return fmt.Errorf("warehouse connectivity probe failed: %w", err)
	}
	return nil
}

// Close releases the cached handle. Safe to call when nothing was built.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}
