package app

import (
	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/internal/apperror"
)

// Selection is the outcome of running the selector over a settled
// generation: the best offer, or nil plus a user-facing message.
type Selection struct {
	Offer   *domain.SelectedOffer
	Message string
}

// Select picks the single best offer among those in state Quoted by
// strict greater-than comparison on AmountReceiving. Providers are
// visited in their stable enumeration order, so ties resolve to the
// first-seen provider. Arrival order never influences the result.
//
// When no Quoted offer exists, the message distinguishes "all errored
// with a single eligible provider" (surface that provider's specific
// message) from the general case (one synthesized no-offers message
// instead of six technical errors).
func Select(req domain.QuoteRequest, offers map[domain.ProviderKey]domain.Offer) Selection {
	var best *domain.Offer

	for _, provider := range domain.ProvidersFor(req.Side) {
		offer, ok := offers[provider]
		if !ok || offer.State != domain.StateQuoted {
			continue
		}
		if best == nil || offer.AmountReceiving.GreaterThan(best.AmountReceiving) {
			o := offer
			best = &o
		}
	}

	if best == nil {
		return Selection{Message: noOffersMessage(req, offers)}
	}

	return Selection{
		Offer: &domain.SelectedOffer{
			Provider:        best.Provider,
			AmountReceiving: best.AmountReceiving,
			FiatAmount:      best.FiatAmount,
			Fee:             best.Fee,
			Label:           domain.SelectionLabel(best.Provider, req.Side, req.PaymentMethod),
		},
	}
}

func noOffersMessage(req domain.QuoteRequest, offers map[domain.ProviderKey]domain.Offer) string {
	var considered []domain.Offer
	for _, provider := range domain.ProvidersFor(req.Side) {
		offer, ok := offers[provider]
		if !ok || offer.State == domain.StateIneligible {
			continue
		}
		considered = append(considered, offer)
	}

	// With exactly one provider in play its own message is more useful
	// than the generic one.
	if len(considered) == 1 && considered[0].ErrorMessage != "" {
		return considered[0].ErrorMessage
	}

	return apperror.New(apperror.CodeAdapterError).Message
}
