// Package remotecfg adapts the application config into the provider
// kill-switch snapshot the engine consumes.
package remotecfg

import (
	"sync/atomic"

	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/internal/config"
)

// Source serves ConfigSnapshot reads. The snapshot can be swapped
// out-of-band (remote config refresh); a swap only affects generations
// minted afterwards, never one in flight.
type Source struct {
	snapshot atomic.Pointer[domain.ConfigSnapshot]
}

// NewSource builds a source from the loaded application config.
func NewSource(cfg *config.Config) *Source {
	s := &Source{}
	s.Replace(fromConfig(cfg))
	return s
}

// GetProviderConfig returns the current snapshot. A read may be one
// swap behind; the snapshot is frozen into each generation's request.
func (s *Source) GetProviderConfig() domain.ConfigSnapshot {
	return *s.snapshot.Load()
}

// Replace installs a new snapshot.
func (s *Source) Replace(snapshot domain.ConfigSnapshot) {
	s.snapshot.Store(&snapshot)
}

func fromConfig(cfg *config.Config) domain.ConfigSnapshot {
	snapshot := make(domain.ConfigSnapshot, len(cfg.Providers))
	for key, pc := range cfg.Providers {
		provider := domain.ProviderKey(key)
		if !provider.Valid() {
			continue
		}
		snapshot[provider] = domain.ProviderConfig{
			Disabled:        pc.Disabled,
			DisabledMessage: pc.DisabledMessage,
		}
	}
	return snapshot
}
