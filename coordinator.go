package lingoq

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultCooldown is how long the queue pauses after a rate-limit signal.
	DefaultCooldown = 60 * time.Second
	// DefaultThrottle is the minimum gap between two upstream calls.
	DefaultThrottle = time.Second
	// DefaultMaxAttempts bounds upstream attempts per request.
	DefaultMaxAttempts = 5
	// DefaultCallTimeout bounds a single upstream call.
	DefaultCallTimeout = 30 * time.Second
)

// Coordinator serializes translation requests through one queue.
//
// A single worker goroutine owns the dequeue/translate cycle, so at most one
// upstream call is in flight. Submit may be called from any goroutine.
type Coordinator struct {
	provider    AIProvider
	cache       TranslationCache
	logger      *zap.Logger
	sourceLang  string
	keyPrefix   string
	cooldown    time.Duration
	throttle    time.Duration
	maxAttempts int
	callTimeout time.Duration

	mu       sync.Mutex
	queue    []*queueItem
	inFlight bool
	cooling  bool
	resumeAt time.Time
	started  bool
	closed   bool

	wake      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	submitted        atomic.Int64
	passthrough      atomic.Int64
	cacheHits        atomic.Int64
	upstreamCalls    atomic.Int64
	upstreamFailures atomic.Int64
	rateLimited      atomic.Int64
	fallbacks        atomic.Int64
	abandoned        atomic.Int64
}

// queueItem is a pending request plus its completion handle.
type queueItem struct {
	id       string
	req      Request
	attempts int
	enqueued time.Time
	result   chan Result // capacity 1, written exactly once
}

// CoordinatorOption is a functional option for configuring the Coordinator.
type CoordinatorOption func(*Coordinator)

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) CoordinatorOption {
	return func(c *Coordinator) {
		c.cache = cache
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSourceLang sets the language requests are authored in.
// Requests targeting it are returned unchanged.
func WithSourceLang(lang string) CoordinatorOption {
	return func(c *Coordinator) {
		c.sourceLang = lang
	}
}

// WithCacheKeyPrefix namespaces cache keys, e.g. per model or prompt version.
func WithCacheKeyPrefix(prefix string) CoordinatorOption {
	return func(c *Coordinator) {
		c.keyPrefix = prefix
	}
}

// WithCooldown sets the pause applied after a rate-limit signal.
func WithCooldown(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.cooldown = d
	}
}

// WithThrottle sets the minimum gap between upstream calls.
func WithThrottle(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.throttle = d
	}
}

// WithMaxAttempts bounds upstream attempts per request. After the last
// failed attempt the request resolves with its original texts.
// Zero retries forever, in which case a permanently failing request at
// the head of the queue blocks every request behind it.
func WithMaxAttempts(n int) CoordinatorOption {
	return func(c *Coordinator) {
		c.maxAttempts = n
	}
}

// WithCallTimeout bounds each upstream call. Zero leaves it to the provider.
func WithCallTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.callTimeout = d
	}
}

// NewCoordinator creates a Coordinator in front of provider.
// The worker starts on the first queued request; call Close to stop it.
func NewCoordinator(provider AIProvider, opts ...CoordinatorOption) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		provider:    provider,
		logger:      zap.NewNop(),
		sourceLang:  DefaultSourceLang,
		cooldown:    DefaultCooldown,
		throttle:    DefaultThrottle,
		maxAttempts: DefaultMaxAttempts,
		callTimeout: DefaultCallTimeout,
		wake:        make(chan struct{}, 1),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Submit queues req and returns a channel that receives exactly one Result.
//
// Requests for the source language and empty batches resolve immediately
// without touching the queue or the cache. Every other request eventually
// resolves, translated or with its original texts.
func (c *Coordinator) Submit(req Request) <-chan Result {
	c.submitted.Add(1)

	item := &queueItem{
		id:       uuid.NewString(),
		req:      Request{Texts: slices.Clone(req.Texts), TargetLang: req.TargetLang},
		enqueued: time.Now(),
		result:   make(chan Result, 1),
	}

	if len(item.req.Texts) == 0 || c.IsSourceLang(req.TargetLang) {
		c.passthrough.Add(1)
		c.resolve(item, item.req.Texts, SourcePassthrough)
		return item.result
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.fallback(item, "coordinator closed")
		return item.result
	}
	c.queue = append(c.queue, item)
	queued := len(c.queue)
	if !c.started {
		c.started = true
		go c.run()
	}
	c.mu.Unlock()

	c.logger.Debug("Translation request queued",
		zap.String("request_id", item.id),
		zap.String("target_lang", req.TargetLang),
		zap.Int("texts", len(req.Texts)),
		zap.Int("queued", queued),
	)

	c.signal()
	return item.result
}

// Translate submits texts and waits for the result.
// If ctx ends first, the original texts are returned with ctx.Err();
// the queued request is still processed and cached.
func (c *Coordinator) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	res, err := c.Do(ctx, Request{Texts: texts, TargetLang: targetLang})
	return res.Texts, err
}

// Do is like Translate but takes a Request and returns the full Result.
func (c *Coordinator) Do(ctx context.Context, req Request) (Result, error) {
	select {
	case res := <-c.Submit(req):
		return res, nil
	case <-ctx.Done():
		return Result{Texts: slices.Clone(req.Texts), Source: SourceFallback}, ctx.Err()
	}
}

// IsSourceLang reports whether targetLang needs no translation.
func (c *Coordinator) IsSourceLang(targetLang string) bool {
	return SameLanguage(targetLang, c.sourceLang)
}

// SourceLang returns the language requests are authored in.
func (c *Coordinator) SourceLang() string {
	return c.sourceLang
}

// Stats returns a snapshot of queue state and counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	s := Stats{
		Queued:      len(c.queue),
		InFlight:    c.inFlight,
		CoolingDown: c.cooling,
	}
	if c.cooling {
		s.ResumeAt = c.resumeAt
	}
	c.mu.Unlock()

	s.Submitted = c.submitted.Load()
	s.Passthrough = c.passthrough.Load()
	s.CacheHits = c.cacheHits.Load()
	s.UpstreamCalls = c.upstreamCalls.Load()
	s.UpstreamFailures = c.upstreamFailures.Load()
	s.RateLimited = c.rateLimited.Load()
	s.Fallbacks = c.fallbacks.Load()
	s.Abandoned = c.abandoned.Load()
	return s
}

// Close stops the worker and resolves every pending request with its
// original texts. It is safe to call more than once.
func (c *Coordinator) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		started := c.started
		c.mu.Unlock()

		c.cancel()
		if started {
			<-c.done
		}
		c.drain()
	})
	return nil
}

// run is the processing loop. Only one instance runs per Coordinator.
func (c *Coordinator) run() {
	defer close(c.done)

	for {
		item, ok := c.next()
		if !ok {
			return
		}

		if c.resolveFromCache(item) {
			continue
		}

		c.dispatch(item)

		if !c.pause() {
			return
		}
	}
}

// next blocks until an item can be taken from the head of the queue.
func (c *Coordinator) next() (*queueItem, bool) {
	for {
		if c.ctx.Err() != nil {
			return nil, false
		}

		c.mu.Lock()
		if len(c.queue) > 0 {
			item := c.queue[0]
			c.queue[0] = nil
			c.queue = c.queue[1:]
			c.inFlight = true
			c.mu.Unlock()
			return item, true
		}
		c.mu.Unlock()

		select {
		case <-c.ctx.Done():
			return nil, false
		case <-c.wake:
		}
	}
}

// pause waits out an active cooldown, or the throttle gap otherwise.
func (c *Coordinator) pause() bool {
	c.mu.Lock()
	cooling := c.cooling
	wait := c.throttle
	if cooling {
		wait = time.Until(c.resumeAt)
	}
	c.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-c.ctx.Done():
			return false
		case <-timer.C:
		}
	}

	if cooling {
		c.mu.Lock()
		c.cooling = false
		c.resumeAt = time.Time{}
		queued := len(c.queue)
		c.mu.Unlock()

		c.logger.Info("Translation cooldown released", zap.Int("queued", queued))
	}
	return true
}

func (c *Coordinator) cacheKey(req Request) string {
	return c.keyPrefix + CacheKey(req.TargetLang, req.Texts)
}

// resolveFromCache answers item from the cache if a usable entry exists.
func (c *Coordinator) resolveFromCache(item *queueItem) bool {
	if c.cache == nil {
		return false
	}

	raw, ok := c.cache.Get(c.cacheKey(item.req))
	if !ok {
		return false
	}

	var texts []string
	if err := json.Unmarshal([]byte(raw), &texts); err != nil || len(texts) != len(item.req.Texts) {
		c.logger.Warn("Ignoring unusable cache entry",
			zap.String("request_id", item.id),
			zap.String("target_lang", item.req.TargetLang),
		)
		return false
	}

	c.cacheHits.Add(1)
	c.finish(item, texts, SourceCache)
	return true
}

// dispatch makes one upstream attempt for item.
func (c *Coordinator) dispatch(item *queueItem) {
	item.attempts++
	c.upstreamCalls.Add(1)

	ctx := c.ctx
	cancel := context.CancelFunc(func() {})
	if c.callTimeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.callTimeout)
	}

	start := time.Now()
	translated, err := c.provider.Translate(ctx, TranslateRequest{
		Texts:      item.req.Texts,
		TargetLang: item.req.TargetLang,
		SourceLang: c.sourceLang,
	})
	cancel()

	fields := []zap.Field{
		zap.String("request_id", item.id),
		zap.String("target_lang", item.req.TargetLang),
		zap.Int("texts", len(item.req.Texts)),
		zap.Int("attempt", item.attempts),
		zap.Duration("elapsed", time.Since(start)),
		zap.Duration("since_enqueued", time.Since(item.enqueued)),
	}

	switch {
	case err == nil && len(translated) == len(item.req.Texts):
		c.store(item, translated)
		c.logger.Debug("Translation completed", fields...)
		c.finish(item, translated, SourceUpstream)

	case err == nil || IsCountMismatch(err):
		c.logger.Warn("Translation count mismatch, returning original texts",
			append(fields, zap.Int("got", len(translated)), zap.Error(err))...)
		c.finish(item, item.req.Texts, SourceFallback)

	default:
		c.fail(item, err, fields)
	}
}

// fail puts item back at the head of the queue, or gives up on it once
// its attempts are spent. Rate-limit errors start a cooldown either way.
func (c *Coordinator) fail(item *queueItem, err error, fields []zap.Field) {
	c.upstreamFailures.Add(1)
	fields = append(fields, zap.Error(err))

	if c.ctx.Err() != nil {
		c.requeue(item, false)
		return
	}

	rateLimited := IsRateLimited(err)
	if rateLimited {
		c.rateLimited.Add(1)
		c.logger.Warn("Upstream rate limited, pausing translation queue",
			append(fields, zap.Duration("cooldown", c.cooldown))...)
	} else {
		c.logger.Warn("Upstream translation failed", fields...)
	}

	if c.maxAttempts > 0 && item.attempts >= c.maxAttempts {
		c.abandoned.Add(1)
		c.logger.Error("Giving up on translation request, returning original texts",
			zap.String("request_id", item.id),
			zap.Int("attempts", item.attempts),
		)
		c.requeue(nil, rateLimited)
		c.finish(item, item.req.Texts, SourceFallback)
		return
	}

	c.requeue(item, rateLimited)
}

// requeue puts item (if any) back at the front and optionally starts a cooldown.
func (c *Coordinator) requeue(item *queueItem, startCooldown bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item != nil {
		c.queue = slices.Insert(c.queue, 0, item)
	}
	if startCooldown {
		c.cooling = true
		c.resumeAt = time.Now().Add(c.cooldown)
	}
	c.inFlight = false
}

func (c *Coordinator) store(item *queueItem, translated []string) {
	if c.cache == nil {
		return
	}

	data, err := json.Marshal(translated)
	if err != nil {
		return
	}

	if err := c.cache.Set(c.cacheKey(item.req), string(data)); err != nil {
		c.logger.Warn("Failed to cache translation",
			zap.String("request_id", item.id),
			zap.Error(err),
		)
	}
}

// finish clears the in-flight flag and resolves item.
func (c *Coordinator) finish(item *queueItem, texts []string, source ResultSource) {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()

	if source == SourceFallback {
		c.fallbacks.Add(1)
	}
	c.resolve(item, texts, source)
}

func (c *Coordinator) fallback(item *queueItem, reason string) {
	c.fallbacks.Add(1)
	c.logger.Debug("Returning original texts",
		zap.String("request_id", item.id),
		zap.String("reason", reason),
	)
	c.resolve(item, item.req.Texts, SourceFallback)
}

func (c *Coordinator) resolve(item *queueItem, texts []string, source ResultSource) {
	item.result <- Result{
		Texts:    slices.Clone(texts),
		Source:   source,
		Attempts: item.attempts,
	}
}

// drain resolves everything still queued after the worker stopped.
func (c *Coordinator) drain() {
	c.mu.Lock()
	items := c.queue
	c.queue = nil
	c.inFlight = false
	c.mu.Unlock()

	for _, item := range items {
		c.fallback(item, "coordinator closed")
	}
}

func (c *Coordinator) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
