package realtime

import (
	"sync"
	"time"

	"happy-jasmine/internal/domain"
)

// QueueSize is the number of undelivered events a subscription holds before
// new events are dropped
const QueueSize = 16

// Event is a visit counter change for one page type
type Event struct {
	Topic     string            `json:"topic"`
	Timestamp int64             `json:"timestamp"`
	Data      domain.VisitCount `json:"data"`
}

// NewEvent stamps a visit counter change with the current time
func NewEvent(visit domain.VisitCount) Event {
	return Event{Topic: visit.PageType, Timestamp: time.Now().Unix(), Data: visit}
}

// Broker fans events out to the subscribers of a topic
type Broker struct {
	topics map[string]map[*Subscription]struct{}
	closed bool
	mutex  sync.RWMutex
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{topics: make(map[string]map[*Subscription]struct{})}
}

// Subscription delivers the events of one topic to a handler, one at a time
// and in publish order
type Subscription struct {
	broker  *Broker
	topic   string
	handler func(Event)
	queue   chan Event
	done    chan struct{}
	once    sync.Once
}

// Subscribe registers handler for topic. Subscribing to a closed broker
// returns a subscription that never fires.
func (b *Broker) Subscribe(topic string, handler func(Event)) *Subscription {
	sub := &Subscription{
		broker:  b,
		topic:   topic,
		handler: handler,
		queue:   make(chan Event, QueueSize),
		done:    make(chan struct{}),
	}

	b.mutex.Lock()
	if b.closed {
		b.mutex.Unlock()
		sub.once.Do(func() { close(sub.done) })
		return sub
	}
	if _, exists := b.topics[topic]; !exists {
		b.topics[topic] = make(map[*Subscription]struct{})
	}
	b.topics[topic][sub] = struct{}{}
	b.mutex.Unlock()

	go sub.deliver()
	return sub
}

func (s *Subscription) deliver() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.queue:
			select {
			case <-s.done:
				return
			default:
			}
			s.handler(event)
		}
	}
}

// Unsubscribe stops delivery. Calling it again is a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.broker.remove(s)
		close(s.done)
	})
}

func (b *Broker) remove(s *Subscription) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if subs, exists := b.topics[s.topic]; exists {
		delete(subs, s)
		if len(subs) == 0 {
			delete(b.topics, s.topic)
		}
	}
}

// Publish queues event for every subscriber of topic. Subscribers whose
// queue is full miss the event.
func (b *Broker) Publish(topic string, event Event) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	for sub := range b.topics[topic] {
		select {
		case sub.queue <- event:
		default:
			// Subscriber is behind, skip
		}
	}
}

// Subscribers returns the number of live subscriptions for topic
func (b *Broker) Subscribers(topic string) int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.topics[topic])
}

// Close ends every subscription
func (b *Broker) Close() {
	b.mutex.Lock()
	var subs []*Subscription
	for _, topicSubs := range b.topics {
		for sub := range topicSubs {
			subs = append(subs, sub)
		}
	}
	b.closed = true
	b.mutex.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
