package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"CategoryScanner/internal/domain"
	"CategoryScanner/internal/ports"
	"CategoryScanner/internal/scanner"
)

// FailurePolicy decides what a failed link fetch does to the run.
type FailurePolicy string

const (
	// PolicySkip drops the failed link's contribution and keeps going.
	PolicySkip FailurePolicy = "skip"
	// PolicyAbort waits for every fetch, then fails the aggregation with the
	// first error.
	PolicyAbort FailurePolicy = "abort"
)

// ParseFailurePolicy maps a config value to a policy; empty means skip.
func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyAbort:
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", value)
	}
}

// Result is the outcome of one fan-out/fan-in pass.
type Result struct {
	// Frequencies counts every collected label, including single occurrences.
	Frequencies domain.FrequencyTable
	Labels      int
	Fetched     int
	Failures    []domain.LinkFailure
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency caps in-flight fetches. Zero or negative leaves the
// fan-out unbounded.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = n
	}
}

// WithFailurePolicy sets how per-link failures propagate.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(a *Aggregator) {
		if p != "" {
			a.policy = p
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// Aggregator fetches every link concurrently and tallies category labels.
type Aggregator struct {
	fetcher     ports.PageFetcher
	scanner     scanner.Scanner
	origin      string
	concurrency int
	policy      FailurePolicy
	logger      *slog.Logger
}

// New builds an Aggregator. origin is prepended to every link path.
func New(fetcher ports.PageFetcher, sc scanner.Scanner, origin string, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher: fetcher,
		scanner: sc,
		origin:  strings.TrimSuffix(origin, "/"),
		policy:  PolicySkip,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Run launches one fetch per link and returns once all of them finished.
// Siblings are never cancelled by a failing fetch.
func (a *Aggregator) Run(ctx context.Context, links domain.LinkSet) (Result, error) {
	acc := NewAccumulator()

	var (
		g        errgroup.Group
		mu       sync.Mutex
		fetched  int
		failures []domain.LinkFailure
	)
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}

	for link := range links {
		g.Go(func() error {
			pageURL := a.resolve(link)
			if err := a.collect(ctx, pageURL, acc); err != nil {
				if a.policy == PolicyAbort {
					return fmt.Errorf("link %s: %w", link, err)
				}
				a.logger.Warn("link skipped", "link", link, "error", err)
				mu.Lock()
				failures = append(failures, domain.LinkFailure{Link: link, URL: pageURL, Err: err})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			fetched++
			mu.Unlock()
			return nil
		})
	}

	waitErr := g.Wait()

	labels, err := acc.Drain()
	if err != nil {
		return Result{}, err
	}
	if waitErr != nil {
		return Result{}, waitErr
	}

	return Result{
		Frequencies: domain.Tally(labels),
		Labels:      len(labels),
		Fetched:     fetched,
		Failures:    failures,
	}, nil
}

func (a *Aggregator) collect(ctx context.Context, pageURL string, acc *Accumulator) error {
	page, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return err
	}
	a.logger.Info("page fetched", "url", pageURL, "status", page.Status)

	if err := page.Err(); err != nil {
		return err
	}

	labels, err := a.scanner.ExtractLabels(page.Body)
	if err != nil {
		return fmt.Errorf("extract labels: %w", err)
	}
	if len(labels) == 0 {
		a.logger.Debug("no category region", "url", pageURL)
		return nil
	}

	return acc.Append(labels...)
}

func (a *Aggregator) resolve(link domain.Link) string {
	return a.origin + string(link)
}
