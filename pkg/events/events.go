package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventRunStarted    EventType = "run.started"
	EventRunCompleted  EventType = "run.completed"
	EventWorkerStarted EventType = "worker.started"
	EventWorkerStopped EventType = "worker.stopped"
	EventKeyMigrated   EventType = "key.migrated"
)

// Buffer sizes. The broker queue absorbs bursts from CC workers; each
// subscriber gets its own smaller buffer so one slow consumer cannot
// hold events back from the rest.
const (
	brokerBuffer     = 100
	subscriberBuffer = 50
)

// Event represents an engine event
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Message   string
	Metadata  map[string]string
}

// Subscriber is a channel that receives events
type Subscriber chan *Event

// Broker fans engine events out to subscribers. Publication is
// best-effort end to end: Publish enqueues without waiting on
// consumers, and a subscriber whose buffer is full misses the event.
type Broker struct {
	mu   sync.RWMutex
	subs map[Subscriber]struct{}

	eventCh chan *Event
	stopCh  chan struct{}
}

// NewBroker creates a new event broker
func NewBroker() *Broker {
	return &Broker{
		subs:    make(map[Subscriber]struct{}),
		eventCh: make(chan *Event, brokerBuffer),
		stopCh:  make(chan struct{}),
	}
}

// Start begins the broker's event distribution loop
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe creates a new subscription and returns a channel
func (b *Broker) Subscribe() Subscriber {
	sub := make(Subscriber, subscriberBuffer)

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes a subscription and closes its channel
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()

	close(sub)
}

// Publish stamps the event with an ID and timestamp if the caller left
// them empty and hands it to the distribution loop. Safe to call from
// any goroutine, including CC workers mid-batch.
func (b *Broker) Publish(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case b.eventCh <- event:
	case <-b.stopCh:
	}
}

// run drains the event queue and fans each event out. Subscribers that
// cannot keep up are skipped, never waited on.
func (b *Broker) run() {
	for {
		select {
		case <-b.stopCh:
			return
		case event := <-b.eventCh:
			b.mu.RLock()
			for sub := range b.subs {
				select {
				case sub <- event:
				default:
				}
			}
			b.mu.RUnlock()
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
