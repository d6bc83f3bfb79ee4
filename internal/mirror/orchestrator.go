package mirror

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/refdocs/docmirror/internal/fetch"
	"github.com/refdocs/docmirror/internal/model"
	"github.com/refdocs/docmirror/internal/target"
)

// Default orchestrator settings. The backoff values reproduce the
// throttling schedule the reference host tolerates well: roughly 0.5s,
// 1s, 2s, ... plus up to 200ms of jitter to avoid retry storms.
const (
	// DefaultConcurrency is the worker pool size.
	DefaultConcurrency = 6

	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 3

	// DefaultAttemptTimeout bounds each individual fetch attempt.
	DefaultAttemptTimeout = 30 * time.Second

	// DefaultBackoffBase is the backoff before the first retry.
	DefaultBackoffBase = 500 * time.Millisecond

	// DefaultBackoffJitter is the maximum random offset added to each
	// backoff wait.
	DefaultBackoffJitter = 200 * time.Millisecond

	// DefaultMaxBackoff caps the exponential backoff growth.
	DefaultMaxBackoff = 30 * time.Second
)

// Orchestrator runs the bulk fetch procedure over a list of targets.
//
// Each target is processed to completion by one worker: destination
// check, fetch attempts with retry/backoff, and persistence. Targets
// are independent and order-insensitive; the only shared mutable state
// is the run report, guarded by a single mutex. A failed target never
// aborts sibling work — the run always processes its full list.
type Orchestrator struct {
	// fetcher performs the actual content retrieval.
	fetcher fetch.Fetcher

	// outDir is the root directory for persisted files.
	outDir string

	// runName is the command name recorded in the run report.
	runName string

	// concurrency is the worker pool size.
	concurrency int

	// retries is the number of retries after the initial attempt, so
	// each target sees at most retries+1 fetch attempts.
	retries int

	// force re-downloads targets whose destination already exists.
	force bool

	// markdownRoute appends ".md" to each target URL before fetching.
	// Used by the plaintext route, where the document lives at <url>.md.
	markdownRoute bool

	// attemptTimeout bounds each individual fetch attempt.
	attemptTimeout time.Duration

	// backoffBase, backoffJitter, and maxBackoff shape the wait before
	// retrying a transient failure.
	backoffBase   time.Duration
	backoffJitter time.Duration
	maxBackoff    time.Duration

	// logger receives per-target diagnostics.
	logger *slog.Logger

	// mu guards report during concurrent fetches.
	mu     sync.Mutex
	report *model.RunReport
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrency sets the worker pool size.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithRetries sets the number of retries after the initial attempt.
func WithRetries(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.retries = n
		}
	}
}

// WithForce re-downloads targets even when the destination exists.
func WithForce(force bool) Option {
	return func(o *Orchestrator) {
		o.force = force
	}
}

// WithMarkdownRoute appends ".md" to target URLs before fetching.
func WithMarkdownRoute(enabled bool) Option {
	return func(o *Orchestrator) {
		o.markdownRoute = enabled
	}
}

// WithAttemptTimeout bounds each individual fetch attempt.
func WithAttemptTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.attemptTimeout = timeout
		}
	}
}

// WithBackoff sets the base and jitter of the retry backoff.
// Mainly useful in tests, where real waits would slow the suite down.
func WithBackoff(base, jitter time.Duration) Option {
	return func(o *Orchestrator) {
		if base >= 0 {
			o.backoffBase = base
		}
		if jitter >= 0 {
			o.backoffJitter = jitter
		}
	}
}

// WithLogger sets the logger for per-target diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an Orchestrator that fetches with fetcher and persists
// under outDir. runName is recorded in the resulting run report.
func New(fetcher fetch.Fetcher, outDir, runName string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:        fetcher,
		outDir:         outDir,
		runName:        runName,
		concurrency:    DefaultConcurrency,
		retries:        DefaultRetries,
		attemptTimeout: DefaultAttemptTimeout,
		backoffBase:    DefaultBackoffBase,
		backoffJitter:  DefaultBackoffJitter,
		maxBackoff:     DefaultMaxBackoff,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// Run processes every target and returns the run report. Individual
// target failures are recorded, not returned; the error is non-nil only
// when the context was cancelled before all targets were processed.
func (o *Orchestrator) Run(ctx context.Context, targets []target.Target) (*model.RunReport, error) {
	o.report = model.NewRunReport(o.runName)

	o.logger.Info("starting mirror run",
		"run", o.runName,
		"targets", len(targets),
		"concurrency", o.concurrency,
		"retries", o.retries,
		"force", o.force,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, t := range targets {
		t := t
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec := o.processOne(ctx, t)
			o.record(rec)
			return nil
		})
	}

	err := g.Wait()

	o.report.FinishedAt = time.Now()
	o.logger.Info("mirror run complete",
		"run", o.runName,
		"downloaded", o.report.Summary.Downloaded,
		"skipped", o.report.Summary.Skipped,
		"failed", o.report.Summary.Failed,
		"elapsed", o.report.Elapsed(),
	)

	return o.report, err
}

// processOne executes the fetch procedure for a single target and
// returns its record. All per-target errors are converted into a failed
// record here; nothing propagates to the pool.
func (o *Orchestrator) processOne(ctx context.Context, t target.Target) model.FetchRecord {
	fetchURL := t.URL
	if o.markdownRoute {
		fetchURL = target.ToMarkdownURL(t.URL)
	}

	destRel := t.Path
	if !strings.HasSuffix(destRel, ".md") {
		destRel += ".md"
	}
	destPath := filepath.Join(o.outDir, destRel)

	rec := model.FetchRecord{
		URL:  t.URL,
		Path: destRel,
	}

	// Resumability: an existing destination means a previous run already
	// fetched this target, so it costs zero attempts.
	if !o.force {
		if _, err := os.Stat(destPath); err == nil {
			rec.Outcome = model.OutcomeSkipped
			rec.FetchedAt = time.Now()
			return rec
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return o.fail(rec, fetchURL, destPath, err)
	}

	var lastErr error
	for attempt := 0; attempt <= o.retries; attempt++ {
		rec.Attempts = attempt + 1

		result, err := o.attempt(ctx, fetchURL, attempt)
		if err == nil {
			if werr := o.persist(t, destPath, result); werr != nil {
				return o.fail(rec, fetchURL, destPath, werr)
			}
			rec.Outcome = model.OutcomeDownloaded
			rec.StatusCode = result.StatusCode
			rec.FetchedAt = time.Now()
			return rec
		}

		lastErr = err
		var fe *fetch.Error
		if errors.As(err, &fe) {
			rec.StatusCode = fe.StatusCode
		}

		if !fetch.Retryable(err) {
			break
		}
		if attempt >= o.retries {
			break
		}

		// Transient failures back off before the next attempt; malformed
		// responses retry immediately.
		if fetch.IsTransient(err) {
			if werr := o.wait(ctx, o.backoff(attempt)); werr != nil {
				lastErr = werr
				break
			}
		}
	}

	return o.fail(rec, fetchURL, destPath, lastErr)
}

// attempt performs one bounded fetch attempt.
func (o *Orchestrator) attempt(ctx context.Context, fetchURL string, attempt int) (*fetch.Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	return o.fetcher.Fetch(attemptCtx, fetchURL, attempt)
}

// persist writes the fetched content, and the raw backend response when
// one exists, under the output directory.
func (o *Orchestrator) persist(t target.Target, destPath string, result *fetch.Result) error {
	if len(result.Raw) > 0 {
		rawPath := filepath.Join(o.outDir, t.Path+".json")
		if err := os.WriteFile(rawPath, result.Raw, 0644); err != nil { //nolint:gosec // Mirrored docs are public content
			return err
		}
	}

	return os.WriteFile(destPath, result.Content, 0644) //nolint:gosec // Mirrored docs are public content
}

// fail finalizes a failed record and emits its diagnostic.
func (o *Orchestrator) fail(rec model.FetchRecord, fetchURL, destPath string, err error) model.FetchRecord {
	rec.Outcome = model.OutcomeFailed
	rec.FetchedAt = time.Now()
	if err != nil {
		rec.Error = err.Error()
	}

	o.logger.Error("download failed",
		"url", fetchURL,
		"dest", destPath,
		"attempts", rec.Attempts,
		"error", err,
	)
	return rec
}

// record adds one target's outcome to the shared run report.
func (o *Orchestrator) record(rec model.FetchRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.report.Summary.Record(rec.Outcome)
	o.report.Records = append(o.report.Records, rec)
}

// backoff returns the jittered exponential wait before retry attempt.
func (o *Orchestrator) backoff(attempt int) time.Duration {
	d := o.backoffBase << uint(attempt)
	if d > o.maxBackoff {
		d = o.maxBackoff
	}
	if o.backoffJitter > 0 {
		d += time.Duration(rand.Int63n(int64(o.backoffJitter))) //nolint:gosec // Jitter does not need crypto randomness
	}
	return d
}

// wait sleeps for d or until the context is cancelled.
func (o *Orchestrator) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
