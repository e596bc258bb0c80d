// Package dashboard fetches the aggregate account metrics. Strictly
// read-only: one authenticated fetch per view, no caching across views.
package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Kyle6012/plagiarism-detection/api/schemas"
)

// Fetcher is the slice of the API client this controller needs.
type Fetcher interface {
	Dashboard(ctx context.Context) (schemas.DashboardData, error)
}

// Controller holds the most recently fetched metrics and their error
// state. Errors stay inside this component; a failed metrics fetch never
// affects any other controller.
type Controller struct {
	mu      sync.Mutex
	metrics schemas.DashboardData
	loaded  bool
	lastErr error

	api Fetcher
	log *zap.Logger
}

// NewController creates a controller with no metrics loaded.
func NewController(api Fetcher, logger *zap.Logger) *Controller {
	return &Controller{
		api: api,
		log: logger.Named("dashboard"),
	}
}

// Load fetches the metrics fresh. No retries; the caller re-invokes on
// the next view entry.
func (c *Controller) Load(ctx context.Context) (schemas.DashboardData, error) {
	metrics, err := c.api.Dashboard(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.loaded = false
		c.metrics = schemas.DashboardData{}
		c.lastErr = err
		c.log.Warn("Dashboard metrics fetch failed", zap.Error(err))
		return schemas.DashboardData{}, err
	}

	c.metrics = metrics
	c.loaded = true
	c.lastErr = nil
	return metrics, nil
}

// Metrics returns the last loaded metrics and whether any are held.
func (c *Controller) Metrics() (schemas.DashboardData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics, c.loaded
}

// Err returns the error of the last failed fetch.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// AverageDocsPerBatch derives documents-per-batch from the given
// metrics. Defined as 0 when there are no batches, so the zero-account
// case never divides by zero.
func AverageDocsPerBatch(m schemas.DashboardData) float64 {
	if m.NumBatches == 0 {
		return 0
	}
	return float64(m.NumDocuments) / float64(m.NumBatches)
}
