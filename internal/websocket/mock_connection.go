package websocket

import (
	"errors"
	"sync"
	"time"
)

// MockConnection is an in-memory Connection for tests. Written frames are
// captured; ReadMessage blocks on a channel the test feeds.
type MockConnection struct {
	mu sync.Mutex

	written  [][]byte
	incoming chan []byte
	closed   bool

	writeErr error
	readErr  error
}

// NewMockConnection creates a mock connection.
func NewMockConnection() *MockConnection {
	return &MockConnection{
		incoming: make(chan []byte, 16),
	}
}

// WriteMessage captures the frame.
func (m *MockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.closed {
		return errors.New("connection closed")
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	m.written = append(m.written, frame)
	return nil
}

// ReadMessage blocks until the test feeds a frame or the connection closes.
func (m *MockConnection) ReadMessage() (int, []byte, error) {
	m.mu.Lock()
	err := m.readErr
	m.mu.Unlock()
	if err != nil {
		return 0, nil, err
	}

	data, ok := <-m.incoming
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, data, nil
}

// Feed queues a frame for ReadMessage.
func (m *MockConnection) Feed(data []byte) {
	m.incoming <- data
}

// Close marks the connection closed and unblocks readers.
func (m *MockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.incoming)
	}
	return nil
}

// Written returns a copy of all captured frames.
func (m *MockConnection) Written() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.written))
	copy(out, m.written)
	return out
}

// SetWriteError makes subsequent writes fail.
func (m *MockConnection) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *MockConnection) SetReadDeadline(t time.Time) error { return nil }

func (m *MockConnection) SetWriteDeadline(t time.Time) error { return nil }

func (m *MockConnection) SetReadLimit(limit int64) {}

func (m *MockConnection) SetPongHandler(h func(string) error) {}

func (m *MockConnection) RemoteAddr() string { return "127.0.0.1:12345" }
