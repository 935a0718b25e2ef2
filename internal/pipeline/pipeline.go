package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
)

// BatchExtractor reads up to batchSize raw assessment requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer turns a raw request into the event published for it. An error
// means the message has no one to answer and is committed without an event.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.AssessmentEvent, error)
}

// BatchLoader publishes assessment events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.AssessmentEvent) error
}

// Retry backoff after extract or publish failures doubles up to maxBackoff.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Skip reasons reported on MessagesSkipped.
const (
	skipUnaddressable   = "unaddressable"
	skipTransformFailed = "transform_failed"
)

// answeredBatch is a consumed batch together with the events that answer it.
// Offsets are committed only after every event is on the sink.
type answeredBatch struct {
	consumed []domain.RawEvent
	events   []domain.AssessmentEvent
	started  time.Time
}

// Pipeline answers streamed assessment requests. Each consumed batch is
// assessed once and then published until the sink accepts it; new requests
// are not read while a batch is pending.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int

	pending *answeredBatch
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has published at least one
// assessment event.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published any assessments yet")
	}
	return nil
}

// Run answers requests until the context is cancelled. A batch still pending
// at shutdown is left uncommitted and is redelivered to the next consumer.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for ctx.Err() == nil {
		if !p.step(ctx, &backoff) {
			break
		}
	}
	if p.pending != nil {
		p.logger.Warn("pipeline stopped with unpublished answers", "events", len(p.pending.events))
	}
	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// step answers a new batch, or retries the pending one, and publishes it.
// Returns false if the pipeline should stop.
func (p *Pipeline) step(ctx context.Context, backoff *time.Duration) bool {
	if p.pending == nil {
		consumed, err := p.extractor.ExtractBatch(ctx, p.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			p.logger.Error("extract batch failed", "error", err)
			return p.backoffOrStop(ctx, backoff)
		}
		if len(consumed) == 0 {
			return true
		}
		p.metrics.MessagesConsumed.Add(float64(len(consumed)))
		p.metrics.BatchSize.Observe(float64(len(consumed)))
		p.pending = p.answer(ctx, consumed)
	}

	if err := p.publish(ctx, p.pending); err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.metrics.PublishRetries.Inc()
		p.logger.Error("publish batch failed, retrying", "error", err, "events", len(p.pending.events))
		return p.backoffOrStop(ctx, backoff)
	}
	*backoff = initialBackoff
	p.commit(ctx, p.pending.consumed)
	p.pending = nil
	return true
}

// answer assesses every consumed message. Messages without an answer are
// counted by reason and still committed with the batch.
func (p *Pipeline) answer(ctx context.Context, consumed []domain.RawEvent) *answeredBatch {
	b := &answeredBatch{
		consumed: consumed,
		events:   make([]domain.AssessmentEvent, 0, len(consumed)),
		started:  time.Now(),
	}
	for _, raw := range consumed {
		ev, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			reason := skipTransformFailed
			if errors.Is(err, ErrUnaddressable) {
				reason = skipUnaddressable
			}
			p.metrics.MessagesSkipped.WithLabelValues(reason).Inc()
			p.logger.Warn("request has no answer, skipping message",
				"reason", reason,
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			continue
		}
		b.events = append(b.events, ev)
	}
	return b
}

// publish writes the answers of b. A batch with no answers publishes nothing.
func (p *Pipeline) publish(ctx context.Context, b *answeredBatch) error {
	if len(b.events) == 0 {
		return nil
	}
	if err := p.loader.LoadBatch(ctx, b.events); err != nil {
		return err
	}
	for _, ev := range b.events {
		p.metrics.EventsPublished.WithLabelValues(ev.Status, ev.Code()).Inc()
	}
	p.metrics.BatchProcessingDuration.Observe(time.Since(b.started).Seconds())
	p.ready.Store(true)
	return nil
}

type partition struct {
	topic string
	id    int
}

// commit commits the highest consumed offset of each partition. Committing
// an offset also covers every earlier offset of that partition.
func (p *Pipeline) commit(ctx context.Context, consumed []domain.RawEvent) {
	latest := make(map[partition]domain.RawEvent)
	var order []partition
	for _, raw := range consumed {
		key := partition{topic: raw.Topic, id: raw.Partition}
		prev, seen := latest[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || raw.Offset >= prev.Offset {
			latest[key] = raw
		}
	}
	for _, key := range order {
		p.commitOffset(ctx, latest[key])
	}
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
