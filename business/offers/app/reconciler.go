package app

import (
	"log/slog"
	"sync"

	"github.com/bitpay/offer-engine/business/offers/domain"
)

// Reconciler is the single point of mutation for aggregate state. All
// adapter completions funnel through Apply under one mutex; events
// tagged with a superseded generation are dropped by comparing the
// monotonically increasing generation counter, never timestamps.
type Reconciler struct {
	log *slog.Logger

	mu       sync.Mutex
	req      domain.QuoteRequest
	current  domain.AggregateResult
	done     chan struct{}
	closed   bool
	listener AggregateListener
}

// NewReconciler creates an empty reconciler.
func NewReconciler(log *slog.Logger) *Reconciler {
	return &Reconciler{
		log:     log,
		current: domain.AggregateResult{Offers: map[domain.ProviderKey]domain.Offer{}},
	}
}

// OnAggregateUpdate registers the listener notified on every state
// change with a snapshot of the aggregate.
func (r *Reconciler) OnAggregateUpdate(listener AggregateListener) {
	r.mu.Lock()
	r.listener = listener
	r.mu.Unlock()
}

// BeginGeneration installs a new generation with its initial offers
// (Pending, Ineligible, or already OutOfLimit) and returns a channel
// closed once every offer is terminal. The previous generation's state
// is discarded wholesale. The aggregate's generation only moves
// forward; a request older than the installed generation is dropped and
// gets back an already closed channel.
func (r *Reconciler) BeginGeneration(req domain.QuoteRequest, offers map[domain.ProviderKey]domain.Offer) <-chan struct{} {
	r.mu.Lock()

	if req.Generation < r.current.Generation {
		r.log.Debug("dropping stale generation",
			"generation", req.Generation,
			"current", r.current.Generation)
		r.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done
	}

	r.req = req
	r.current = domain.AggregateResult{
		Generation: req.Generation,
		Side:       req.Side,
		Offers:     offers,
	}
	r.current.AllSettled = r.current.SettledNow()
	r.closed = false
	r.done = make(chan struct{})
	if r.current.AllSettled {
		close(r.done)
	}
	done := r.done

	r.emitLocked()
	r.mu.Unlock()

	return done
}

// Apply records a terminal offer for a generation. Returns false when
// the event belongs to a superseded generation and was dropped.
func (r *Reconciler) Apply(generation uint64, offer domain.Offer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if generation != r.current.Generation {
		r.log.Debug("dropping stale offer event",
			"provider", offer.Provider,
			"generation", generation,
			"current", r.current.Generation)
		return false
	}

	r.current.Offers[offer.Provider] = offer

	wasSettled := r.current.AllSettled
	r.current.AllSettled = r.current.SettledNow()
	if r.current.AllSettled && !wasSettled {
		close(r.done)
	}

	// A straggler landing after selection closed updates the aggregate,
	// but reopens selection only when the closed selection had nothing.
	if r.closed && offer.State == domain.StateQuoted && r.current.Selected == nil {
		r.runSelectionLocked()
	}

	r.emitLocked()
	return true
}

// CloseSelection runs the selector for the given generation and records
// the outcome. No-op for superseded generations or when already closed.
func (r *Reconciler) CloseSelection(generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if generation != r.current.Generation || r.closed {
		return
	}

	r.closed = true
	r.runSelectionLocked()
	r.emitLocked()
}

// Reset discards the current generation and installs an empty aggregate
// under the given generation number. Used for synchronous cancellation
// (zero/invalid amount, wallet switch) so no stale state flashes.
func (r *Reconciler) Reset(generation uint64) {
	r.mu.Lock()

	r.req = domain.QuoteRequest{}
	r.current = domain.AggregateResult{
		Generation: generation,
		Offers:     map[domain.ProviderKey]domain.Offer{},
		AllSettled: true,
	}
	r.closed = false
	if r.done != nil {
		select {
		case <-r.done:
		default:
			close(r.done)
		}
	}
	r.done = nil

	r.emitLocked()
	r.mu.Unlock()
}

// Current returns a snapshot of the aggregate state.
func (r *Reconciler) Current() domain.AggregateResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Clone()
}

func (r *Reconciler) runSelectionLocked() {
	selection := Select(r.req, r.current.Offers)
	r.current.Selected = selection.Offer
	r.current.Message = selection.Message

	if selection.Offer != nil {
		r.log.Info("offer selected",
			"generation", r.current.Generation,
			"provider", selection.Offer.Provider,
			"amountReceiving", selection.Offer.AmountReceiving)
	} else {
		r.log.Info("no offer selected",
			"generation", r.current.Generation,
			"message", selection.Message)
	}
}

func (r *Reconciler) emitLocked() {
	if r.listener == nil {
		return
	}
	r.listener(r.current.Clone())
}
