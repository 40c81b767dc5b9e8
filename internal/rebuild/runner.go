// Package rebuild runs cache rebuilds in the background.
//
// Each job opens its own storage session and never touches the caches of the
// service that submitted it. The outcome comes back as a Completion on the
// runner's channel; the owning service applies it, which is the only point
// where memoized datasets are invalidated.
package rebuild

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/rps-results/internal/cachebuilder"
	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/datastore"
	"github.com/tphakala/rps-results/internal/datastore/repository"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/observability/metrics"
)

// completionBuffer is the capacity of the completion channel.
const completionBuffer = 16

// ErrRunnerClosed is returned by Submit after Close.
var ErrRunnerClosed = errors.NewStd("rebuild runner closed")

// SessionOpener opens an independent storage session.
type SessionOpener interface {
	OpenSession() (datastore.Session, error)
}

// Job rebuilds categories of one result set.
type Job struct {
	ProjectID   uint
	ResultSetID uint
	CategoryIDs []uint // empty rebuilds every category of the result set
}

// Completion reports a finished job.
type Completion struct {
	JobID    string
	Job      Job
	Reports  []*cachebuilder.BuildReport
	Err      error
	Duration time.Duration
}

// FailedTypes returns the result types that failed in any category.
func (c *Completion) FailedTypes() []string {
	var out []string
	for _, r := range c.Reports {
		if r != nil {
			out = append(out, r.FailedTypes()...)
		}
	}
	return out
}

// Runner executes jobs on worker goroutines.
type Runner struct {
	opener      SessionOpener
	concurrency int
	metrics     *metrics.ResultCacheMetrics
	logger      logger.Logger

	completions chan Completion
	done        chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	closed      bool
}

// NewRunner creates a runner that rebuilds up to concurrency categories of a
// job at once.
func NewRunner(opener SessionOpener, concurrency int, log logger.Logger, m *metrics.ResultCacheMetrics) *Runner {
	if concurrency < 1 {
		concurrency = conf.DefaultRebuildWorkers
	}
	return &Runner{
		opener:      opener,
		concurrency: concurrency,
		metrics:     m,
		logger:      log.Module("rebuild"),
		completions: make(chan Completion, completionBuffer),
		done:        make(chan struct{}),
	}
}

// Completions delivers one Completion per submitted job.
func (r *Runner) Completions() <-chan Completion {
	return r.completions
}

// Submit starts job in the background and returns its id. Cancelling ctx
// stops the job between result types.
func (r *Runner) Submit(ctx context.Context, job Job) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", ErrRunnerClosed
	}

	id := uuid.NewString()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.deliver(r.run(ctx, id, job))
	}()

	r.logger.Debug("rebuild job submitted",
		logger.String("job_id", id),
		logger.Uint("result_set_id", job.ResultSetID),
		logger.Int("categories", len(job.CategoryIDs)))
	return id, nil
}

// Close waits for running jobs and closes the completion channel.
// Completions that nobody receives before Close are dropped.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.done)
	r.wg.Wait()
	close(r.completions)
}

func (r *Runner) deliver(c Completion) {
	select {
	case r.completions <- c:
	case <-r.done:
		select {
		case r.completions <- c:
		default:
			r.logger.Warn("rebuild completion dropped after close", logger.String("job_id", c.JobID))
		}
	}
}

func (r *Runner) run(ctx context.Context, id string, job Job) Completion {
	start := time.Now()
	c := Completion{JobID: id, Job: job}

	c.Reports, c.Err = r.execute(ctx, job)
	c.Duration = time.Since(start)

	if c.Err != nil {
		c.Err = errors.New(c.Err).
			Component("rebuild").
			Category(errors.CategoryWorker).
			Context("job_id", id).
			ResultContext(job.ResultSetID, "").
			Build()
		r.logger.Error("rebuild job failed",
			logger.String("job_id", id),
			logger.Uint("result_set_id", job.ResultSetID),
			logger.Error(c.Err))
		return c
	}

	r.logger.Info("rebuild job completed",
		logger.String("job_id", id),
		logger.Uint("result_set_id", job.ResultSetID),
		logger.Int("categories", len(c.Reports)),
		logger.Strings("failed_types", c.FailedTypes()),
		logger.Duration("duration", c.Duration))
	return c
}

func (r *Runner) execute(ctx context.Context, job Job) ([]*cachebuilder.BuildReport, error) {
	session, err := r.opener.OpenSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open rebuild session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.logger.Warn("failed to close rebuild session", logger.Error(err))
		}
	}()

	cfg := cachebuilder.ConfigFor(session.DB(), job.ProjectID, r.logger)
	cfg.Metrics = r.metrics
	builder := cachebuilder.New(cfg)

	categories := job.CategoryIDs
	if len(categories) == 0 {
		cats, err := repository.NewResultCategoryRepository(session.DB()).GetByResultSet(ctx, job.ResultSetID)
		if err != nil {
			return nil, fmt.Errorf("failed to list result categories: %w", err)
		}
		for _, rc := range cats {
			categories = append(categories, rc.ID)
		}
	}

	reports := make([]*cachebuilder.BuildReport, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, categoryID := range categories {
		g.Go(func() error {
			report, err := builder.Rebuild(gctx, job.ResultSetID, categoryID)
			reports[i] = report
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return compact(reports), err
	}
	return reports, nil
}

func compact(reports []*cachebuilder.BuildReport) []*cachebuilder.BuildReport {
	out := reports[:0]
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
