// Package upload implements the batch submission workflow: a pending
// file selection, a single-flight submit, and the success/failure rules
// that make manual retry safe.
package upload

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Kyle6012/plagiarism-detection/api/schemas"
)

var (
	// ErrEmptySelection is returned when Submit is called with no files
	// selected. It is a validation error: no network call is made.
	ErrEmptySelection = errors.New("select at least one file before submitting")

	// ErrSubmissionInFlight is returned when a submission is already
	// outstanding. Duplicate batches from repeated submits are not
	// possible.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")

	// ErrStaleResponse is returned when a response arrives for a
	// submission whose controller state was reset while it was in
	// flight. The response is discarded without mutating anything.
	ErrStaleResponse = errors.New("submission response discarded: selection was reset while it was in flight")
)

// Uploader is the slice of the API client this controller needs.
type Uploader interface {
	UploadBatch(ctx context.Context, files []schemas.BatchFile, mode schemas.AnalysisMode) (string, error)
}

// Controller owns one pending upload batch. It is safe for concurrent
// use; at most one submission is in flight at a time.
type Controller struct {
	mu         sync.Mutex
	files      []schemas.BatchFile
	mode       schemas.AnalysisMode
	busy       bool
	generation uint64
	lastErr    error

	api Uploader
	log *zap.Logger
}

// NewController creates a controller with an empty selection and the
// default analysis mode.
func NewController(api Uploader, logger *zap.Logger) *Controller {
	return &Controller{
		mode: schemas.DefaultAnalysisMode,
		api:  api,
		log:  logger.Named("upload"),
	}
}

// Select replaces the pending file selection.
func (c *Controller) Select(files ...schemas.BatchFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append([]schemas.BatchFile(nil), files...)
}

// Selection returns a copy of the pending file selection, in order.
func (c *Controller) Selection() []schemas.BatchFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]schemas.BatchFile(nil), c.files...)
}

// SetMode sets the analysis mode for the next submission.
func (c *Controller) SetMode(mode schemas.AnalysisMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
}

// Busy reports whether a submission is currently outstanding. Callers
// must disable their submit affordance while it is true.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Err returns the error of the last failed submission, or nil after a
// success. The controller owns this state; errors never leak into other
// components.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Reset discards the pending selection and invalidates any in-flight
// submission, whose response will be ignored when it arrives.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = nil
	c.lastErr = nil
	c.generation++
}

// Submit uploads the whole selection as one atomic batch and returns the
// server-assigned batch id. On success the selection is cleared; on
// failure it is left untouched so the user can retry without
// re-selecting files. No retries happen automatically.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return "", ErrSubmissionInFlight
	}
	if len(c.files) == 0 {
		c.lastErr = ErrEmptySelection
		c.mu.Unlock()
		return "", ErrEmptySelection
	}
	files := append([]schemas.BatchFile(nil), c.files...)
	mode := c.mode
	gen := c.generation
	c.busy = true
	c.mu.Unlock()

	batchID, err := c.api.UploadBatch(ctx, files, mode)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if gen != c.generation {
		// The owning view moved on while we were waiting. Late responses
		// must never mutate state after teardown.
		c.log.Debug("Discarding stale submission response", zap.String("batch_id", batchID))
		return "", ErrStaleResponse
	}

	if err != nil {
		c.lastErr = err
		c.log.Warn("Batch submission failed", zap.Int("files", len(files)), zap.Error(err))
		return "", err
	}

	c.files = nil
	c.lastErr = nil
	c.log.Info("Batch accepted",
		zap.String("batch_id", batchID),
		zap.Int("files", len(files)),
		zap.String("mode", string(mode)))
	return batchID, nil
}
