package relay

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tc.com/price-relay/pkg/clock"
	"tc.com/price-relay/pkg/feeder/contract"
	"tc.com/price-relay/pkg/feeder/task"
	"tc.com/price-relay/pkg/logging"
	"tc.com/price-relay/pkg/metrics"
	"tc.com/price-relay/pkg/sources"
)

// Submitter sends the normalized price on-chain.
type Submitter interface {
	Submit(ctx context.Context, price uint64) (*types.Receipt, error)
}

// Config wires the relay's collaborators.
type Config struct {
	Sources     []sources.Source
	Selector    *sources.Selector
	Clock       clock.Clock
	Submitter   Submitter        // unused in dry-run mode
	Coordinator task.Coordinator // nil selects task.Noop
	TaskID      uint64
	MaxDelay    uint64 // seconds, 0 = start immediately
	Rand        *rand.Rand
	DryRun      bool
	Logger      *logging.Logger
	Tracer      trace.Tracer
}

// Outcome describes a finished run.
type Outcome struct {
	Status     string // one of the metrics.Status* values
	Source     string
	Price      decimal.Decimal
	Normalized uint64
	Calldata   []byte
	Receipt    *types.Receipt
	Delay      time.Duration
}

// Relay performs a single price relay.
type Relay struct {
	sources     map[string]sources.Source
	selector    *sources.Selector
	clock       clock.Clock
	submitter   Submitter
	coordinator task.Coordinator
	taskID      uint64
	maxDelay    uint64
	rng         *rand.Rand
	dryRun      bool
	logger      *logging.Logger
	tracer      trace.Tracer
	sleep       func(context.Context, time.Duration) error
}

// New validates cfg and builds a Relay. Every name the selector can return
// must have a matching source.
func New(cfg Config) (*Relay, error) {
	if cfg.Selector == nil {
		return nil, fmt.Errorf("%w: selector is required", ErrInvalidConfig)
	}
	if cfg.Submitter == nil && !cfg.DryRun {
		return nil, fmt.Errorf("%w: submitter is required unless dry-run is set", ErrInvalidConfig)
	}

	byName := make(map[string]sources.Source, len(cfg.Sources))
	for _, s := range cfg.Sources {
		byName[s.Name()] = s
	}
	for _, name := range cfg.Selector.Names() {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("%w: %s", sources.ErrSourceNotConfigured, name)
		}
	}

	r := &Relay{
		sources:     byName,
		selector:    cfg.Selector,
		clock:       cfg.Clock,
		submitter:   cfg.Submitter,
		coordinator: cfg.Coordinator,
		taskID:      cfg.TaskID,
		maxDelay:    cfg.MaxDelay,
		rng:         cfg.Rand,
		dryRun:      cfg.DryRun,
		logger:      cfg.Logger,
		tracer:      cfg.Tracer,
		sleep:       sleep,
	}
	if r.clock == nil {
		r.clock = clock.System{}
	}
	if r.coordinator == nil {
		r.coordinator = task.Noop{}
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- jitter, not security sensitive
	}
	if r.logger == nil {
		r.logger = logging.Global()
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer("price-relay")
	}
	return r, nil
}

// Run executes one relay: delay, claim, select, fetch, normalize, submit and
// notify. Any failure aborts the run; a declined claim is a successful no-op.
func (r *Relay) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{Delay: SampleDelay(r.maxDelay, r.rng)}
	if out.Delay > 0 {
		r.logger.Info("Random delay", "seconds", int64(out.Delay/time.Second))
		if err := r.sleep(ctx, out.Delay); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "relay.run",
		trace.WithAttributes(attribute.Int64("task_id", int64(r.taskID)), attribute.Bool("dry_run", r.dryRun)))
	defer span.End()

	err := r.run(ctx, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		out.Status = metrics.StatusError
	}
	span.SetAttributes(attribute.String("status", out.Status))
	metrics.RecordRun(out.Status, time.Since(start))

	return out, err
}

func (r *Relay) run(ctx context.Context, out *Outcome) error {
	claim, err := r.coordinator.Claim(ctx, r.taskID)
	if err != nil {
		return err
	}
	if !claim.Accepted {
		r.logger.Info("Failed to claim task, giving up", "task_id", r.taskID, "reason", claim.Reason)
		out.Status = metrics.StatusDeclined
		return nil
	}

	now := r.clock.NowMillis()
	out.Source = r.selector.Select(now)
	r.logger.Info("Using price source", "source", out.Source, "now_ms", now)

	price, err := r.fetch(ctx, out.Source)
	if err != nil {
		return err
	}
	out.Price = price

	normalized, err := sources.Normalize(price)
	if err != nil {
		return err
	}
	out.Normalized = normalized
	r.logger.Info("Got price", "source", out.Source, "price", price.String(), "normalized", normalized)

	if r.dryRun {
		if err := r.dryRunCall(out); err != nil {
			return err
		}
	} else {
		receipt, err := r.submit(ctx, normalized)
		if err != nil {
			return err
		}
		out.Receipt = receipt
		out.Status = metrics.StatusSuccess
	}

	if r.dryRun {
		r.logger.Info("Dry run, skipping complete task request", "task_id", r.taskID)
		return nil
	}

	done, err := r.coordinator.NotifyComplete(ctx, r.taskID)
	if err != nil {
		// The price is already on-chain; a failed notice is only logged.
		r.logger.Warn("Complete task request failed", "task_id", r.taskID, "error", err)
		return nil
	}
	r.logger.Info("Complete task request result", "task_id", r.taskID, "accepted", done.Accepted, "reason", done.Reason)
	return nil
}

func (r *Relay) fetch(ctx context.Context, name string) (decimal.Decimal, error) {
	ctx, span := r.tracer.Start(ctx, "source.fetch", trace.WithAttributes(attribute.String("source", name)))
	defer span.End()

	src, ok := r.sources[name]
	if !ok {
		err := fmt.Errorf("%w: %s", sources.ErrSourceNotConfigured, name)
		span.SetStatus(codes.Error, err.Error())
		return decimal.Zero, err
	}

	price, err := src.FetchPrice(ctx)
	metrics.RecordFetch(name, price.InexactFloat64(), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return decimal.Zero, fmt.Errorf("source %s: %w", name, err)
	}

	span.SetAttributes(attribute.String("price", price.String()))
	return price, nil
}

func (r *Relay) submit(ctx context.Context, price uint64) (*types.Receipt, error) {
	ctx, span := r.tracer.Start(ctx, "tx.submit", trace.WithAttributes(attribute.String("price", strconv.FormatUint(price, 10))))
	defer span.End()

	receipt, err := r.submitter.Submit(ctx, price)
	if err != nil {
		metrics.RecordSubmission(metrics.StatusError)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	metrics.RecordSubmission(metrics.StatusSuccess)

	span.SetAttributes(
		attribute.String("tx_hash", receipt.TxHash.Hex()),
		attribute.Int64("block_number", receipt.BlockNumber.Int64()),
	)
	r.logger.Info("Receipt",
		"tx_hash", receipt.TxHash.Hex(),
		"block_number", receipt.BlockNumber.String(),
		"gas_used", receipt.GasUsed,
		"status", receipt.Status)
	return receipt, nil
}

func (r *Relay) dryRunCall(out *Outcome) error {
	parsed, err := contract.Load()
	if err != nil {
		return err
	}
	data, err := contract.PackSetTokenPrice(parsed, out.Normalized)
	if err != nil {
		return err
	}
	out.Calldata = data
	out.Status = metrics.StatusDryRun
	metrics.RecordSubmission(metrics.StatusDryRun)
	r.logger.Info("Dry run, not submitting", "method", contract.SetTokenPrice, "calldata", hexutil.Encode(data))
	return nil
}
