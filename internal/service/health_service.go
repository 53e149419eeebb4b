package service

import (
	"context"
	"time"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/dto"
)

// Prober reports warehouse reachability. The warehouse provider implements
// it.
type Prober interface {
	Ping(ctx context.Context) error
}

type IHealthService interface {
	Check(ctx context.Context) *dto.HealthResponse
}

type healthService struct {
	cfg    *config.Config
	prober Prober
}

func NewHealthService(cfg *config.Config, prober Prober) IHealthService {
	return &healthService{
		cfg:    cfg,
		prober: prober,
	}
}

// Check aggregates configuration validity and a live warehouse probe. Any
// failing check flips the overall status; nothing here raises.
func (s *healthService) Check(ctx context.Context) *dto.HealthResponse {
	checks := map[string]string{
		"configuration": "ok",
		"warehouse":     "ok",
	}
	status := "healthy"

	if err := s.cfg.Validate(); err != nil {
		checks["configuration"] = err.Error()
		status = "unhealthy"
	}

	if err := s.prober.Ping(ctx); err != nil {
		checks["warehouse"] = err.Error()
		status = "unhealthy"
	}

	return &dto.HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now(),
	}
}
