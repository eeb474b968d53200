package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/flujo/pos-system/internal/api/metrics"
	"github.com/flujo/pos-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultTimeout = 5 * time.Second
	channelBuffer  = 64
)

// Config tunes the refresh pool.
type Config struct {
	Workers int
	Timeout time.Duration // per suggestion call
	TTL     time.Duration // cache lifetime of a suggestion
}

// Dispatcher routes highlight refresh requests to a fixed set of workers
// using consistent hashing on the category id. A category is never in more
// than one queue slot at a time, and Enqueue never blocks.
type Dispatcher struct {
	workers   []chan ports.HighlightRequest
	suggester ports.HighlightSuggester
	cache     ports.HighlightCache
	cfg       Config
	log       zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewDispatcher creates a Dispatcher. Zero config values fall back to defaults.
func NewDispatcher(cfg Config, suggester ports.HighlightSuggester, cache ports.HighlightCache, log zerolog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	d := &Dispatcher{
		workers:   make([]chan ports.HighlightRequest, cfg.Workers),
		suggester: suggester,
		cache:     cache,
		cfg:       cfg,
		log:       log,
		inFlight:  make(map[string]struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.HighlightRequest, channelBuffer)
	}
	return d
}

// Run starts the workers and blocks until ctx is cancelled and every worker
// has returned.
func (d *Dispatcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i, ch := range d.workers {
		wg.Add(1)
		go func(id int, ch <-chan ports.HighlightRequest) {
			defer wg.Done()
			d.runWorker(ctx, id, ch)
		}(i, ch)
	}
	wg.Wait()
	return nil
}

// TryEnqueue queues req unless its category is already pending or the
// worker's channel is full.
func (d *Dispatcher) TryEnqueue(req ports.HighlightRequest) bool {
	d.mu.Lock()
	if _, busy := d.inFlight[req.CategoryID]; busy {
		d.mu.Unlock()
		metrics.HighlightDroppedTotal.WithLabelValues("in_flight").Inc()
		return false
	}
	d.inFlight[req.CategoryID] = struct{}{}
	d.mu.Unlock()

	idx := d.shardIndex(req.CategoryID)
	select {
	case d.workers[idx] <- req:
		metrics.HighlightQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		d.release(req.CategoryID)
		metrics.HighlightDroppedTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().Str("category_id", req.CategoryID).Int("worker_id", idx).Msg("highlight queue full, request dropped")
		return false
	}
}

// shardIndex maps a category id deterministically to a worker index.
func (d *Dispatcher) shardIndex(categoryID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(categoryID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) release(categoryID string) {
	d.mu.Lock()
	delete(d.inFlight, categoryID)
	d.mu.Unlock()
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.HighlightRequest) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-ch:
			if !ok {
				return
			}
			metrics.HighlightQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, req)
		}
	}
}

// process calls the suggester under the configured timeout. Failures are
// logged and counted; the previous cached suggestion, if any, stays.
func (d *Dispatcher) process(ctx context.Context, workerID int, req ports.HighlightRequest) {
	defer d.release(req.CategoryID)

	callCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	start := time.Now()
	h, err := d.suggester.SuggestHighlight(callCtx, req.CategoryName, req.Products)
	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case h == nil:
		result = "empty"
	}
	metrics.HighlightRequestsTotal.WithLabelValues(result).Inc()
	metrics.HighlightDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	if err != nil {
		d.log.Warn().Err(err).
			Str("category_id", req.CategoryID).
			Int("worker_id", workerID).
			Msg("highlight suggestion failed")
		return
	}
	if h == nil {
		return
	}

	if err := d.cache.Set(ctx, req.CategoryID, *h, d.cfg.TTL); err != nil {
		d.log.Error().Err(err).Str("category_id", req.CategoryID).Msg("failed to cache highlight")
		return
	}
	d.log.Debug().
		Str("category_id", req.CategoryID).
		Str("product_id", h.ProductID).
		Msg("highlight refreshed")
}
