package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is one unit of scheduled work.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc is a function adapter for Job.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Run interval (default: 6h)
	Timeout  time.Duration // Per-job timeout (default: 1h)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 6 * time.Hour,
		Timeout:  time.Hour,
	}
}

// Stats reports scheduler progress.
type Stats struct {
	Cycles    int64
	Runs      int64
	Failures  int64
	LastCycle time.Time
	LastError string // Empty after a clean cycle
}

type namedJob struct {
	name string
	job  Job
}

// Poller periodically runs registered jobs.
type Poller struct {
	cfg    Config
	jobs   []namedJob
	logger *slog.Logger

	mu    sync.Mutex
	stats Stats

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Poller{
		cfg:    cfg,
		logger: logger,
	}
}

// Add registers a job. Must be called before Start.
func (p *Poller) Add(name string, job Job) {
	p.jobs = append(p.jobs, namedJob{name: name, job: job})
}

// Start begins the scheduling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("poller started",
		"interval", p.cfg.Interval,
		"timeout", p.cfg.Timeout,
		"jobs", len(p.jobs),
	)

	return nil
}

// Stop gracefully shuts down the poller. A running job sees its context cancelled.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of scheduler progress.
func (p *Poller) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// run is the main scheduling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Run immediately on start.
	p.runAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.runAll()
		}
	}
}

// runAll runs every job in order. A failed job does not skip the next.
func (p *Poller) runAll() {
	start := time.Now()
	var failures int64
	var lastErr string

	for _, j := range p.jobs {
		if p.ctx.Err() != nil {
			return
		}

		if err := p.runJob(j); err != nil {
			p.logger.Error("job failed",
				"job", j.name,
				"err", err,
			)
			failures++
			lastErr = j.name + ": " + err.Error()
		}
	}

	p.mu.Lock()
	p.stats.Cycles++
	p.stats.Runs += int64(len(p.jobs))
	p.stats.Failures += failures
	p.stats.LastCycle = time.Now()
	p.stats.LastError = lastErr
	p.mu.Unlock()

	p.logger.Info("poll cycle complete",
		"jobs", len(p.jobs),
		"failures", failures,
		"duration", time.Since(start),
	)
}

// runJob runs a single job under the per-run timeout.
func (p *Poller) runJob(j namedJob) error {
	ctx := p.ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(p.ctx, p.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := j.job.Run(ctx)
	p.logger.Debug("job finished", "job", j.name, "duration", time.Since(start), "ok", err == nil)
	return err
}
