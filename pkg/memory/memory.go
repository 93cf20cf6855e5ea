package memory

import "sync"

// Memory is a bounded stream of transition descriptions; the oldest entries are dropped
// once capacity is reached.
type Memory struct {
	memoryStream []string
	capacity     int
	mu           sync.RWMutex
}

func NewMemory(capacity int) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	return &Memory{
		memoryStream: make([]string, 0, capacity),
		capacity:     capacity,
	}
}

// GetAllMessages returns a copy of all entries in memory
func (m *Memory) GetAllMessages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]string, len(m.memoryStream))
	copy(messages, m.memoryStream)
	return messages
}

// Recent returns up to the last n entries, oldest first
func (m *Memory) Recent(n int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n > len(m.memoryStream) {
		n = len(m.memoryStream)
	}
	if n <= 0 {
		return []string{}
	}
	messages := make([]string, n)
	copy(messages, m.memoryStream[len(m.memoryStream)-n:])
	return messages
}

func (m *Memory) Store(data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.memoryStream = append(m.memoryStream, data)
	if len(m.memoryStream) > m.capacity {
		m.memoryStream = m.memoryStream[1:]
	}
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.memoryStream)
}

func (m *Memory) Capacity() int {
	return m.capacity
}

// Reset drops every entry
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memoryStream = make([]string, 0, m.capacity)
}
