// Package results retrieves and presents the per-document analysis
// results of a submitted batch.
package results

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Kyle6012/plagiarism-detection/api/schemas"
)

// ErrStaleResponse is returned when results arrive for a fetch that was
// invalidated by Reset while in flight.
var ErrStaleResponse = errors.New("results response discarded: controller was reset while it was in flight")

// State describes what the controller currently holds.
type State int

const (
	// StateIdle: no batch has been requested yet.
	StateIdle State = iota
	// StateLoading: a fetch is outstanding.
	StateLoading
	// StateLoaded: results are available. An empty set is still loaded,
	// never failed; "no results" is a valid terminal outcome.
	StateLoaded
	// StateFailed: the last fetch errored and no results are held.
	StateFailed
)

// Fetcher is the slice of the API client this controller needs.
type Fetcher interface {
	BatchResults(ctx context.Context, batchID string) ([]schemas.AnalysisResult, error)
}

// Controller fetches the result sequence for a batch identifier. A
// distinct identifier triggers a fetch; asking again for the batch that
// is already loaded serves the held results without another round trip.
type Controller struct {
	mu         sync.Mutex
	state      State
	batchID    string
	results    []schemas.AnalysisResult
	lastErr    error
	generation uint64

	api Fetcher
	log *zap.Logger
}

// NewController creates an idle controller.
func NewController(api Fetcher, logger *zap.Logger) *Controller {
	return &Controller{
		api: api,
		log: logger.Named("results"),
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Results returns the held result sequence, in server order. It is empty
// unless the state is StateLoaded.
func (c *Controller) Results() []schemas.AnalysisResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]schemas.AnalysisResult(nil), c.results...)
}

// Err returns the error of the last failed fetch.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Reset returns the controller to idle and invalidates any in-flight
// fetch so its late response is discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.batchID = ""
	c.results = nil
	c.lastErr = nil
	c.generation++
}

// Load fetches the results for batchID. The fetch is a single snapshot;
// if the server-side analysis is still running the sequence may be empty
// and the user refreshes by calling Load again with a different or reset
// controller. A failed fetch holds no partial results.
func (c *Controller) Load(ctx context.Context, batchID string) ([]schemas.AnalysisResult, error) {
	c.mu.Lock()
	if c.state == StateLoaded && c.batchID == batchID {
		// Same identifier: serve the snapshot already held.
		held := append([]schemas.AnalysisResult(nil), c.results...)
		c.mu.Unlock()
		return held, nil
	}
	c.state = StateLoading
	c.batchID = batchID
	c.results = nil
	gen := c.generation
	c.mu.Unlock()

	fetched, err := c.api.BatchResults(ctx, batchID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.Debug("Discarding stale results response", zap.String("batch_id", batchID))
		return nil, ErrStaleResponse
	}

	if err != nil {
		c.state = StateFailed
		c.results = nil
		c.lastErr = err
		c.log.Warn("Results fetch failed", zap.String("batch_id", batchID), zap.Error(err))
		return nil, err
	}

	c.state = StateLoaded
	c.results = fetched
	c.lastErr = nil
	c.log.Debug("Results loaded", zap.String("batch_id", batchID), zap.Int("count", len(fetched)))
	return append([]schemas.AnalysisResult(nil), fetched...), nil
}
