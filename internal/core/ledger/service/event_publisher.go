package service

import (
	"sync"

	"github.com/nftstore/nftstored/internal/core/tx"
)

// EventHooks provides structured callbacks for marketplace events.
// Hooks run after the transition has committed; a nil hook is skipped.
type EventHooks struct {
	// OnListed is called when an asset is put on sale.
	OnListed func(ev tx.ListedEvent)

	// OnRedeemed is called when a listing is withdrawn.
	OnRedeemed func(ev tx.RedeemedEvent)

	// OnSold is called when a purchase completes.
	OnSold func(ev tx.SoldEvent)
}

// EventPublisher fans committed events out to subscribers. Events are
// append-only and never consumed internally.
type EventPublisher struct {
	mu    sync.RWMutex
	hooks []EventHooks
}

// NewEventPublisher creates a new event publisher.
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

// Subscribe registers a set of hooks.
func (p *EventPublisher) Subscribe(hooks EventHooks) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, hooks)
}

// Publish delivers committed events to all subscribers.
func (p *EventPublisher) Publish(events []tx.Event) {
	p.mu.RLock()
	hooks := p.hooks
	p.mu.RUnlock()

	for _, ev := range events {
		for _, h := range hooks {
			switch e := ev.(type) {
			case tx.ListedEvent:
				if h.OnListed != nil {
					h.OnListed(e)
				}
			case tx.RedeemedEvent:
				if h.OnRedeemed != nil {
					h.OnRedeemed(e)
				}
			case tx.SoldEvent:
				if h.OnSold != nil {
					h.OnSold(e)
				}
			}
		}
	}
}
