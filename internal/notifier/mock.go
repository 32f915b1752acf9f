package notifier

import "sync"

// Mock captures messages in memory for tests.
type Mock struct {
	mu       sync.Mutex
	Messages map[int64][]string
}

func NewMock() *Mock {
	return &Mock{Messages: make(map[int64][]string)}
}

func (m *Mock) Notify(chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages[chatID] = append(m.Messages[chatID], text)
	return nil
}

// Sent returns all messages delivered to one chat.
func (m *Mock) Sent(chatID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Messages[chatID]...)
}
