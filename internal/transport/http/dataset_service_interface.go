package http

import (
	"context"

	"stockpulse/internal/dashboard"
	"stockpulse/internal/services"
)

// DatasetServiceInterface defines the dataset operations the handler needs.
type DatasetServiceInterface interface {
	Load(ctx context.Context, filename string, content []byte) (*services.Dataset, error)
	Get(ctx context.Context, id string) (*services.Dataset, error)
	RenderDashboard(ctx context.Context, id string, flags dashboard.Flags) (dashboard.Dashboard, error)
	Count() int
}
