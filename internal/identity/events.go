// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event is a domain notification published for optional, decoupled side
// effects. The primary outcome never depends on a subscriber.
type Event interface {
	EventName() string
}

// AccountRegistered is published after a registration has been committed.
type AccountRegistered struct {
	ID        ulid.ULID
	AccountID int64
	Username  string
	Email     string
	At        time.Time
}

// EventName identifies the event for subscriber routing.
func (AccountRegistered) EventName() string { return "account.registered" }

// NewAccountRegistered builds the event for a freshly committed account.
func NewAccountRegistered(account *Account) AccountRegistered {
	return AccountRegistered{
		ID:        ulid.Make(),
		AccountID: account.ID,
		Username:  account.Username.String(),
		Email:     account.Email.String(),
		At:        time.Now(),
	}
}

// EventHandler consumes a published event. A returned error is logged and
// does not affect other handlers or the publishing use case.
type EventHandler func(ctx context.Context, event Event) error

// Publisher dispatches events in-process to an explicit registry of
// subscribers, resolved at startup. Handlers for an event name run
// sequentially in subscription order.
type Publisher struct {
	mu     sync.RWMutex
	subs   map[string][]EventHandler
	logger *slog.Logger
}

// NewPublisher creates a Publisher. A nil logger falls back to slog.Default.
func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		subs:   make(map[string][]EventHandler),
		logger: logger,
	}
}

// Subscribe registers a handler for an event name.
func (p *Publisher) Subscribe(eventName string, handler EventHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs[eventName] = append(p.subs[eventName], handler)
}

// Publish invokes every handler registered for the event's name. A handler
// failure is logged and the remaining handlers still run; nothing propagates
// back to the caller.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	p.mu.RLock()
	handlers := p.subs[event.EventName()]
	p.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			p.logger.Error("event handler failed",
				"event", event.EventName(),
				"error", err,
			)
		}
	}
}
