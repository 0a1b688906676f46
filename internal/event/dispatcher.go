package event

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// SubscribeOption configures a subscription.
type SubscribeOption func(*Subscription)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscribeOption {
	return func(s *Subscription) {
		s.priority = p
	}
}

// Once cancels the subscription after its first delivery.
func Once() SubscribeOption {
	return func(s *Subscription) {
		s.once = true
	}
}

// WithName labels the subscription for logs and errors.
func WithName(name string) SubscribeOption {
	return func(s *Subscription) {
		s.name = name
	}
}

// Subscription is a registered handler.
type Subscription struct {
	id       string
	name     string
	pattern  Topic
	handler  Handler
	priority Priority
	once     bool
	seq      uint64

	dispatcher *Dispatcher
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Name returns the subscription label, or the ID when unnamed.
func (s *Subscription) Name() string {
	if s.name != "" {
		return s.name
	}
	return s.id
}

// Pattern returns the subscribed topic pattern.
func (s *Subscription) Pattern() Topic { return s.pattern }

// Priority returns the subscription priority.
func (s *Subscription) Priority() Priority { return s.priority }

// Cancel removes the subscription. Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	_ = s.dispatcher.Unsubscribe(s)
}

// PanicHandler is called with a recovered handler panic.
type PanicHandler func(err *PanicError)

// Dispatcher delivers events synchronously to matching subscriptions.
// It is safe for concurrent use; handlers may subscribe and unsubscribe
// while an event is being delivered.
type Dispatcher struct {
	mu      sync.RWMutex
	subs    []*Subscription
	nextSeq uint64
	onPanic PanicHandler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// SetPanicHandler sets the function called when a handler panics.
func (d *Dispatcher) SetPanicHandler(h PanicHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onPanic = h
}

// Subscribe registers handler for events whose topic matches pattern.
func (d *Dispatcher) Subscribe(pattern Topic, handler Handler, opts ...SubscribeOption) (*Subscription, error) {
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := &Subscription{
		id:         uuid.New().String(),
		pattern:    pattern,
		handler:    handler,
		priority:   PriorityNormal,
		dispatcher: d,
	}
	for _, opt := range opts {
		opt(sub)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextSeq++
	sub.seq = d.nextSeq
	d.subs = append(d.subs, sub)
	sort.SliceStable(d.subs, func(i, j int) bool {
		if d.subs[i].priority != d.subs[j].priority {
			return d.subs[i].priority < d.subs[j].priority
		}
		return d.subs[i].seq < d.subs[j].seq
	})
	return sub, nil
}

// Unsubscribe removes a subscription.
func (d *Dispatcher) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.subs {
		if s == sub {
			d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Len returns the number of subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}

// Publish delivers ev to every matching subscription and returns the
// errors returned or panics raised by handlers, in delivery order.
// Delivery stops early only when ctx is done.
func (d *Dispatcher) Publish(ctx context.Context, ev Event) []error {
	if !ev.Topic.IsValid() || ev.Topic.IsWildcard() {
		return []error{fmt.Errorf("%w: %q", ErrInvalidTopic, ev.Topic)}
	}

	d.mu.RLock()
	var targets []*Subscription
	for _, s := range d.subs {
		if ev.Topic.Matches(s.pattern) {
			targets = append(targets, s)
		}
	}
	onPanic := d.onPanic
	d.mu.RUnlock()

	var errs []error
	for _, s := range targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if s.once {
			if d.Unsubscribe(s) != nil {
				// Already delivered by a concurrent publish
				continue
			}
		}
		if err := d.deliver(ctx, s, ev, onPanic); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (d *Dispatcher) deliver(ctx context.Context, s *Subscription, ev Event, onPanic PanicHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := &PanicError{
				SubscriptionID: s.Name(),
				Topic:          ev.Topic,
				Value:          r,
				Stack:          string(debug.Stack()),
			}
			if onPanic != nil {
				func() {
					defer func() { _ = recover() }()
					onPanic(perr)
				}()
			}
			err = perr
		}
	}()

	if herr := s.handler.Handle(ctx, ev); herr != nil {
		return &HandlerError{SubscriptionID: s.Name(), Topic: ev.Topic, Err: herr}
	}
	return nil
}
