package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry records one completed exchange.
type Entry struct {
	Id      string
	At      time.Time
	Request ChatMessage
	Reply   ChatMessage
}

// History is an append-only log of completed exchanges, written by request
// handlers after a successful reply and read only for diagnostics. No
// request/response path depends on it.
type History struct {
	mu      sync.Mutex
	entries []Entry
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(request, reply ChatMessage) Entry {
	entry := Entry{
		Id:      uuid.NewString(),
		At:      time.Now(),
		Request: request,
		Reply:   reply,
	}

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()

	return entry
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Snapshot copies the log so callers can walk it without holding the lock.
func (h *History) Snapshot() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]Entry, len(h.entries))
	copy(entries, h.entries)
	return entries
}
