package chat

import (
	"sync"

	"github.com/LouayBenCerifa/GestionDeProjet/models"
)

// subscriptionBuffer bounds how far a subscriber may lag before messages
// are dropped for it. Publishing never blocks the sender.
const subscriptionBuffer = 16

// Subscription is a live feed of new messages in one conversation. The
// caller owns its lifetime: receive on C until done, then call Cancel to
// release the slot. A subscription that is never cancelled keeps receiving
// until the process exits, so callers must tie Cancel to the consuming
// view or request.
type Subscription struct {
	C <-chan models.Message

	id     int
	convID string
	broker *Broker
	once   sync.Once
}

// Cancel releases the subscription. It is safe to call more than once and
// safe to call concurrently with Publish.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.broker.remove(s.convID, s.id)
	})
}

// Broker fans incoming messages out to per-conversation subscribers.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan models.Message
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]chan models.Message)}
}

// Subscribe registers a live feed for the given conversation ID.
func (b *Broker) Subscribe(conversationID string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan models.Message, subscriptionBuffer)
	if b.subs[conversationID] == nil {
		b.subs[conversationID] = make(map[int]chan models.Message)
	}
	b.nextID++
	b.subs[conversationID][b.nextID] = ch

	return &Subscription{
		C:      ch,
		id:     b.nextID,
		convID: conversationID,
		broker: b,
	}
}

// Publish delivers a message to every subscriber of its conversation.
// Subscribers that have fallen subscriptionBuffer messages behind miss
// this one; a fresh query still returns the full history.
func (b *Broker) Publish(msg models.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[msg.ConversationID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (b *Broker) remove(conversationID string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if m, ok := b.subs[conversationID]; ok {
		if ch, ok := m[id]; ok {
			delete(m, id)
			close(ch)
		}
		if len(m) == 0 {
			delete(b.subs, conversationID)
		}
	}
}
