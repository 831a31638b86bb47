package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitpay/offer-engine/business/offers/domain"
)

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestReconciler_DoneClosesWhenAllSettled(t *testing.T) {
	r := NewReconciler(testLogger())
	req := buyRequest().WithGeneration(1)

	done := r.BeginGeneration(req, map[domain.ProviderKey]domain.Offer{
		domain.Banxa:   domain.NewPendingOffer(domain.Banxa, req),
		domain.MoonPay: domain.NewPendingOffer(domain.MoonPay, req),
		domain.Ramp:    domain.NewIneligibleOffer(domain.Ramp, req, "payment method not supported"),
	})
	require.False(t, closed(done))

	require.True(t, r.Apply(1, quoted(domain.Banxa, "0.008")))
	assert.False(t, closed(done))

	require.True(t, r.Apply(1, errored(domain.MoonPay, "boom")))
	assert.True(t, closed(done), "errored offers are terminal too")
	assert.True(t, r.Current().AllSettled)
}

func TestReconciler_AllTerminalAtBeginClosesImmediately(t *testing.T) {
	r := NewReconciler(testLogger())
	req := buyRequest().WithGeneration(1)

	done := r.BeginGeneration(req, map[domain.ProviderKey]domain.Offer{
		domain.Ramp:    domain.NewIneligibleOffer(domain.Ramp, req, "payment method not supported"),
		domain.Sardine: domain.NewIneligibleOffer(domain.Sardine, req, "country not supported"),
	})
	assert.True(t, closed(done))
}

func TestReconciler_StaleGenerationDropped(t *testing.T) {
	r := NewReconciler(testLogger())

	req1 := buyRequest().WithGeneration(1)
	r.BeginGeneration(req1, map[domain.ProviderKey]domain.Offer{
		domain.Banxa: domain.NewPendingOffer(domain.Banxa, req1),
	})

	req2 := buyRequest().WithGeneration(2)
	done2 := r.BeginGeneration(req2, map[domain.ProviderKey]domain.Offer{
		domain.Banxa: domain.NewPendingOffer(domain.Banxa, req2),
	})

	assert.False(t, r.Apply(1, quoted(domain.Banxa, "0.009")), "superseded event must be dropped")
	assert.False(t, closed(done2))

	current := r.Current()
	assert.Equal(t, uint64(2), current.Generation)
	assert.Equal(t, domain.StatePending, current.Offers[domain.Banxa].State)
}

func TestReconciler_CloseSelectionIdempotent(t *testing.T) {
	r := NewReconciler(testLogger())
	req := buyRequest().WithGeneration(1)

	r.BeginGeneration(req, map[domain.ProviderKey]domain.Offer{
		domain.Banxa: domain.NewPendingOffer(domain.Banxa, req),
	})
	r.Apply(1, quoted(domain.Banxa, "0.008"))

	r.CloseSelection(1)
	first := r.Current()
	require.NotNil(t, first.Selected)

	r.CloseSelection(1)
	r.CloseSelection(99)
	assert.Equal(t, first.Selected, r.Current().Selected)
}

func TestReconciler_StragglerReopensOnlyEmptySelection(t *testing.T) {
	r := NewReconciler(testLogger())
	req := buyRequest().WithGeneration(1)

	r.BeginGeneration(req, map[domain.ProviderKey]domain.Offer{
		domain.Banxa:   domain.NewPendingOffer(domain.Banxa, req),
		domain.MoonPay: domain.NewPendingOffer(domain.MoonPay, req),
	})

	// grace elapsed with nothing quoted
	r.CloseSelection(1)
	require.Nil(t, r.Current().Selected)
	require.NotEmpty(t, r.Current().Message)

	// a late quote lands into an empty selection: it becomes the offer
	r.Apply(1, quoted(domain.Banxa, "0.008"))
	current := r.Current()
	require.NotNil(t, current.Selected)
	assert.Equal(t, domain.Banxa, current.Selected.Provider)
	assert.Empty(t, current.Message)

	// a second, better straggler does not displace a closed selection
	r.Apply(1, quoted(domain.MoonPay, "0.009"))
	current = r.Current()
	require.NotNil(t, current.Selected)
	assert.Equal(t, domain.Banxa, current.Selected.Provider)
}

func TestReconciler_Reset(t *testing.T) {
	r := NewReconciler(testLogger())
	req := buyRequest().WithGeneration(1)

	done := r.BeginGeneration(req, map[domain.ProviderKey]domain.Offer{
		domain.Banxa: domain.NewPendingOffer(domain.Banxa, req),
	})

	r.Reset(2)
	assert.True(t, closed(done), "reset must release waiters of the old generation")

	current := r.Current()
	assert.Equal(t, uint64(2), current.Generation)
	assert.Empty(t, current.Offers)
	assert.True(t, current.AllSettled)
	assert.Nil(t, current.Selected)
}

func TestReconciler_ListenerReceivesSnapshots(t *testing.T) {
	r := NewReconciler(testLogger())

	var updates []domain.AggregateResult
	r.OnAggregateUpdate(func(a domain.AggregateResult) {
		updates = append(updates, a)
	})

	req := buyRequest().WithGeneration(1)
	r.BeginGeneration(req, map[domain.ProviderKey]domain.Offer{
		domain.Banxa: domain.NewPendingOffer(domain.Banxa, req),
	})
	r.Apply(1, quoted(domain.Banxa, "0.008"))
	r.CloseSelection(1)

	require.Len(t, updates, 3)
	assert.False(t, updates[0].AllSettled)
	assert.True(t, updates[1].AllSettled)
	require.NotNil(t, updates[2].Selected)

	// snapshots are isolated from later mutation
	updates[1].Offers[domain.Banxa] = domain.Offer{}
	assert.Equal(t, domain.StateQuoted, r.Current().Offers[domain.Banxa].State)
}
