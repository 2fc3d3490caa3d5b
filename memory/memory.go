// Package memory provides the short-term conversational memory store.
package memory

import (
	"sync"

	"github.com/teilomillet/chatagent/types"
)

// ChatMemory stores conversational turns for retrieval on later requests.
// Implementations must be safe for concurrent use; the stores outlive any
// single request.
type ChatMemory interface {
	Append(turn types.Turn)
	LastN(n int) []types.Turn
	Clear()
}

// InMemoryChatMemory keeps turns in process memory.
type InMemoryChatMemory struct {
	mu    sync.Mutex
	turns []types.Turn
}

func NewInMemoryChatMemory() *InMemoryChatMemory {
	return &InMemoryChatMemory{}
}

func (m *InMemoryChatMemory) Append(turn types.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, turn)
}

// LastN returns the most recent n turns in chronological order. n <= 0
// returns every turn.
func (m *InMemoryChatMemory) LastN(n int) []types.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := 0
	if n > 0 && len(m.turns) > n {
		start = len(m.turns) - n
	}
	return append([]types.Turn(nil), m.turns[start:]...)
}

func (m *InMemoryChatMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
}

var _ ChatMemory = (*InMemoryChatMemory)(nil)
