package agent

import (
	"sync"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"
)

// History store bounds. Conversations beyond maxConversations evict the
// least recently used; per-conversation history keeps the newest messages.
const (
	DefaultMaxConversations = 256
	DefaultMaxMessages      = 40
)

type conversation struct {
	messages []*ai.Message
	touched  time.Time
}

// HistoryStore keeps bounded in-memory conversation history keyed by
// conversation ID.
//
// HistoryStore is safe for concurrent use.
type HistoryStore struct {
	mu               sync.Mutex
	conversations    map[uuid.UUID]*conversation
	maxConversations int
	maxMessages      int
}

// NewHistoryStore creates a HistoryStore. Non-positive limits fall back to
// the defaults.
func NewHistoryStore(maxConversations, maxMessages int) *HistoryStore {
	if maxConversations <= 0 {
		maxConversations = DefaultMaxConversations
	}
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &HistoryStore{
		conversations:    make(map[uuid.UUID]*conversation),
		maxConversations: maxConversations,
		maxMessages:      maxMessages,
	}
}

// History returns a copy of the conversation's messages, oldest first.
func (s *HistoryStore) History(id uuid.UUID) []*ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}
	conv.touched = time.Now()

	out := make([]*ai.Message, len(conv.messages))
	copy(out, conv.messages)
	return out
}

// Append adds messages to a conversation, trimming to the newest
// maxMessages and evicting the least recently used conversation when the
// store is full.
func (s *HistoryStore) Append(id uuid.UUID, msgs ...*ai.Message) {
	if len(msgs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		if len(s.conversations) >= s.maxConversations {
			s.evictOldest()
		}
		conv = &conversation{}
		s.conversations[id] = conv
	}

	conv.messages = append(conv.messages, msgs...)
	if overflow := len(conv.messages) - s.maxMessages; overflow > 0 {
		conv.messages = conv.messages[overflow:]
	}
	conv.touched = time.Now()
}

// Clear removes a conversation's history.
func (s *HistoryStore) Clear(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
}

// Len reports the number of tracked conversations.
func (s *HistoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// evictOldest removes the least recently touched conversation. Caller must
// hold the lock.
func (s *HistoryStore) evictOldest() {
	var oldestID uuid.UUID
	var oldest time.Time
	first := true
	for id, conv := range s.conversations {
		if first || conv.touched.Before(oldest) {
			oldestID, oldest = id, conv.touched
			first = false
		}
	}
	if !first {
		delete(s.conversations, oldestID)
	}
}
