// Package batch runs the ordering pipeline over many pages in
// parallel, with a short-lived result cache keyed by file identity.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Yasabs10/panelreader"
	"github.com/Yasabs10/panelreader/detect"
	"github.com/Yasabs10/panelreader/model"
	"github.com/Yasabs10/panelreader/pages"
)

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 10 * time.Minute
)

// Config tunes the batch runner.
type Config struct {
	// Concurrency is the number of pages processed at once. Zero or
	// negative means one worker per CPU.
	Concurrency int

	// Interval paces page starts. Zero disables pacing.
	Interval time.Duration

	// DisableCache skips the result cache entirely.
	DisableCache bool
}

// Result is the outcome for a single page. Err is set when that page
// failed; other pages are unaffected.
type Result struct {
	Path  string
	Order *model.ReadingOrder
	Err   error
}

// Runner processes pages concurrently through a shared box source and
// pipeline configuration.
type Runner struct {
	source  detect.Source
	options panelreader.Options
	config  Config
	cache   *cache.Cache
}

// New creates a batch runner. The source supplies detection boxes for
// each page path.
func New(source detect.Source, options panelreader.Options, config Config) *Runner {
	r := &Runner{
		source:  source,
		options: options,
		config:  config,
	}
	if !config.DisableCache {
		r.cache = cache.New(defaultCacheExpiration, cacheCleanupInterval)
	}
	return r
}

// Run processes every path and returns one Result per path, in input
// order. Per-page failures are recorded in the Result; Run itself
// only fails when the context is cancelled.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	workers := r.config.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var limiter *rate.Limiter
	if r.config.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(r.config.Interval), 2)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	slog.Info("batch run starting", "pages", len(paths), "workers", workers)

	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(egCtx); err != nil {
					results[i] = Result{Path: path, Err: err}
					return err
				}
			}
			results[i] = r.runPage(egCtx, path)
			return egCtx.Err()
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// runPage resolves one page, consulting the cache first.
func (r *Runner) runPage(ctx context.Context, path string) Result {
	key, keyOK := r.cacheKey(path)
	if r.cache != nil && keyOK {
		if hit, ok := r.cache.Get(key); ok {
			slog.Debug("cache hit", "page", path)
			return Result{Path: path, Order: hit.(*model.ReadingOrder)}
		}
	}

	img, err := pages.DecodeGray(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("loading page image: %w", err)}
	}

	boxes, err := r.source.Boxes(ctx, path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("acquiring boxes: %w", err)}
	}

	order, err := panelreader.Process(ctx, boxes, img, r.options)
	if err != nil {
		return Result{Path: path, Err: err}
	}

	if r.cache != nil && keyOK {
		r.cache.Set(key, order, cache.DefaultExpiration)
	}
	return Result{Path: path, Order: order}
}

// cacheKey identifies a page by path, size, and modification time, so
// a rewritten file never serves a stale result.
func (r *Runner) cacheKey(path string) (string, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s|%d|%d", path, fi.Size(), fi.ModTime().UnixNano()), true
}
