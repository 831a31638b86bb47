package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/internal/apperror"
)

// OrchestratorConfig carries the tunable timing windows. Debounce and
// settle-grace encode a UX/cost tradeoff (wasted calls vs perceived
// latency) and are injected rather than hard-coded.
type OrchestratorConfig struct {
	// QuoteDebounce is the delay between the last input change and
	// fan-out, so six network calls are not fired per keystroke.
	QuoteDebounce time.Duration
	// SettleGrace is the maximum wait for stragglers before selection
	// runs on whatever has settled.
	SettleGrace time.Duration
	// RequestTimeout bounds each individual adapter call.
	RequestTimeout time.Duration
}

// Orchestrator drives one generation of quote fetches at a time. Each
// user input mints a new generation; the previous generation's context
// is cancelled immediately so in-flight HTTP calls abort rather than
// linger. Fan-out happens after the debounce window, and selection
// closes when all offers settle or the grace window elapses, whichever
// comes first.
type Orchestrator struct {
	cfg        OrchestratorConfig
	adapters   map[domain.ProviderKey]Adapter
	filter     *EligibilityFilter
	limits     *LimitValidator
	reconciler *Reconciler
	configSrc  ConfigSource
	log        *slog.Logger

	mu         sync.Mutex
	generation uint64
	pending    domain.QuoteRequest
	debounce   *time.Timer
	cancelGen  context.CancelFunc
}

// NewOrchestrator wires the engine together.
func NewOrchestrator(
	cfg OrchestratorConfig,
	adapters []Adapter,
	filter *EligibilityFilter,
	limits *LimitValidator,
	reconciler *Reconciler,
	configSrc ConfigSource,
	log *slog.Logger,
) *Orchestrator {
	byKey := make(map[domain.ProviderKey]Adapter, len(adapters))
	for _, a := range adapters {
		byKey[a.Key()] = a
	}

	return &Orchestrator{
		cfg:        cfg,
		adapters:   byKey,
		filter:     filter,
		limits:     limits,
		reconciler: reconciler,
		configSrc:  configSrc,
		log:        log,
	}
}

// OnAggregateUpdate registers the listener receiving aggregate
// snapshots on every state change.
func (o *Orchestrator) OnAggregateUpdate(listener AggregateListener) {
	o.reconciler.OnAggregateUpdate(listener)
}

// Current returns the latest aggregate snapshot.
func (o *Orchestrator) Current() domain.AggregateResult {
	return o.reconciler.Current()
}

// Request supersedes any in-flight generation with new user input and
// returns the freshly minted generation. A zero or invalid amount, or
// an amount outside the union of all known provider limits, resets the
// engine synchronously with no fetches, so no stale "searching" state
// flashes.
func (o *Orchestrator) Request(req domain.QuoteRequest) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.generation++
	gen := o.generation

	// supersede: abort the previous generation's outstanding calls now
	if o.cancelGen != nil {
		o.cancelGen()
		o.cancelGen = nil
	}
	if o.debounce != nil {
		o.debounce.Stop()
		o.debounce = nil
	}

	if !req.Amount.IsPositive() || o.outsideGlobalLimits(req) {
		o.pending = domain.QuoteRequest{}
		o.reconciler.Reset(gen)
		return gen
	}

	req.Config = o.configSrc.GetProviderConfig()
	req = req.WithGeneration(gen)
	o.pending = req

	if o.cfg.QuoteDebounce <= 0 {
		go o.fire(gen)
		return gen
	}

	o.debounce = time.AfterFunc(o.cfg.QuoteDebounce, func() {
		o.fire(gen)
	})

	return gen
}

// Cancel aborts the given generation if it is still current. Later
// generations are unaffected; unknown or superseded generations return
// an error.
func (o *Orchestrator) Cancel(generation uint64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if generation > o.generation {
		return apperror.New(apperror.CodeGenerationUnknown)
	}
	if generation < o.generation {
		return apperror.New(apperror.CodeGenerationSuperseded)
	}

	if o.cancelGen != nil {
		o.cancelGen()
		o.cancelGen = nil
	}
	if o.debounce != nil {
		o.debounce.Stop()
		o.debounce = nil
	}

	o.generation++
	o.pending = domain.QuoteRequest{}
	o.reconciler.Reset(o.generation)
	return nil
}

// outsideGlobalLimits reports whether the amount is outside the union
// of every provider's known range, making all fetches pointless.
func (o *Orchestrator) outsideGlobalLimits(req domain.QuoteRequest) bool {
	amountUSD := req.Amount
	if req.FiatCurrency != "" && req.FiatCurrency != "USD" {
		converted, err := o.limits.rates.AltFiatToUSD(req.Amount, req.FiatCurrency)
		if err != nil {
			return false
		}
		amountUSD = converted
	}

	union := domain.Limits{}
	for _, provider := range domain.ProvidersFor(req.Side) {
		known := o.limits.Known(provider)
		if !known.Known() {
			// one provider with unknown limits keeps everything possible
			return false
		}
		if known.Min != nil && (union.Min == nil || known.Min.LessThan(*union.Min)) {
			union.Min = known.Min
		}
		if known.Max != nil && (union.Max == nil || known.Max.GreaterThan(*union.Max)) {
			union.Max = known.Max
		}
	}

	return union.Known() && union.Violates(amountUSD)
}

// fire runs fan-out for a generation after its debounce elapsed. It is
// a no-op when the generation has been superseded meanwhile.
func (o *Orchestrator) fire(gen uint64) {
	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		return
	}
	req := o.pending
	o.mu.Unlock()

	verdicts := o.filter.Evaluate(req)

	offers := make(map[domain.ProviderKey]domain.Offer)
	var fetchable []Adapter

	for _, provider := range domain.ProvidersFor(req.Side) {
		verdict := verdicts[provider]
		if !verdict.Eligible {
			offers[provider] = domain.NewIneligibleOffer(provider, req, verdict.Reason)
			continue
		}

		if violated, limits := o.limits.Check(req, provider); violated {
			// known violation: terminal without a network call
			offers[provider] = domain.NewPendingOffer(provider, req).OutOfLimit(limits)
			continue
		}

		adapter, ok := o.adapters[provider]
		if !ok {
			offers[provider] = domain.NewPendingOffer(provider, req).Errored("exchange not available")
			continue
		}

		offers[provider] = domain.NewPendingOffer(provider, req)
		fetchable = append(fetchable, adapter)
	}

	// The eligibility and limit checks ran unlocked, so a newer Request
	// or Cancel may have reset the engine past this generation. Re-check
	// before installing anything; installing the cancel func and the
	// generation under the same critical section keeps the aggregate's
	// generation monotonic.
	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancelGen = cancel
	done := o.reconciler.BeginGeneration(req, offers)
	o.mu.Unlock()

	o.log.Info("quote fan-out",
		"generation", gen,
		"requestId", req.RequestID,
		"side", req.Side,
		"providers", len(fetchable))

	g, gctx := errgroup.WithContext(ctx)
	for _, adapter := range fetchable {
		g.Go(func() error {
			o.fetchOne(gctx, req, adapter)
			return nil
		})
	}

	go func() {
		g.Wait()
	}()

	go o.settle(ctx, gen, done)
}

// settle races generation completion against the grace window and runs
// selection on whichever comes first. Stragglers past the grace window
// keep running (bounded by RequestTimeout) and still update the
// aggregate through the reconciler when they land.
func (o *Orchestrator) settle(ctx context.Context, gen uint64, done <-chan struct{}) {
	timer := time.NewTimer(o.cfg.SettleGrace)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-done:
	case <-timer.C:
		o.log.Info("settle grace elapsed with stragglers", "generation", gen)
	}

	o.reconciler.CloseSelection(gen)
}

func (o *Orchestrator) fetchOne(ctx context.Context, req domain.QuoteRequest, adapter Adapter) {
	provider := adapter.Key()

	fctx := ctx
	if o.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, o.cfg.RequestTimeout)
		defer cancel()
	}

	result, err := adapter.FetchQuote(fctx, req)
	if err != nil {
		if ctx.Err() != nil {
			// superseded generation: dropped silently, never surfaced
			return
		}
		o.log.Warn("provider quote failed",
			"provider", provider,
			"generation", req.Generation,
			"requestId", req.RequestID,
			"error", err)
		o.reconciler.Apply(req.Generation,
			domain.NewPendingOffer(provider, req).Errored(apperror.UserMessage(err)))
		return
	}

	if result.Limits.Known() {
		// live limits feed the next generation's pre-flight check
		o.limits.Update(provider, result.Limits, req.FiatCurrency)

		if result.Limits.Violates(req.Amount) {
			o.reconciler.Apply(req.Generation,
				domain.NewPendingOffer(provider, req).OutOfLimit(result.Limits))
			return
		}
	} else if fetcher, ok := adapter.(LimitsFetcher); ok {
		// providers with a dedicated limits call refresh the cache off
		// the hot path
		go o.refreshLimits(ctx, req, provider, fetcher)
	}

	if !result.AmountReceiving.IsPositive() {
		o.reconciler.Apply(req.Generation,
			domain.NewPendingOffer(provider, req).Errored(
				apperror.New(apperror.CodeQuoteMalformed).Message))
		return
	}

	o.reconciler.Apply(req.Generation,
		domain.NewPendingOffer(provider, req).Quoted(result))
}

func (o *Orchestrator) refreshLimits(ctx context.Context, req domain.QuoteRequest, provider domain.ProviderKey, fetcher LimitsFetcher) {
	fctx := ctx
	if o.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, o.cfg.RequestTimeout)
		defer cancel()
	}

	limits, err := fetcher.FetchLimits(fctx, req)
	if err != nil {
		if ctx.Err() == nil {
			o.log.Debug("limits refresh failed", "provider", provider, "error", err)
		}
		return
	}
	o.limits.Update(provider, limits, req.FiatCurrency)
}
