package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetadmin/pkg/contracts/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testLogger())
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

// registerTestClient registers a client and waits for the connect frame so
// the test knows registration completed.
func registerTestClient(t *testing.T, hub *Hub) *Client {
	t.Helper()
	client := NewClientWithConnection(hub, NewMockConnection(), testLogger())
	hub.Register(client)

	select {
	case <-client.send:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for connect message")
	}
	return client
}

func receive(t *testing.T, client *Client) events.WebSocketMessage {
	t.Helper()
	select {
	case data := <-client.send:
		var msg events.WebSocketMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return events.WebSocketMessage{}
	}
}

func TestHubRegisterAndCount(t *testing.T) {
	hub := startHub(t)

	assert.Equal(t, 0, hub.ClientCount())

	registerTestClient(t, hub)
	registerTestClient(t, hub)

	assert.Equal(t, 2, hub.ClientCount())
}

func TestHubBroadcastActivity(t *testing.T) {
	hub := startHub(t)
	client := registerTestClient(t, hub)

	occurred := time.Date(2024, 11, 16, 10, 0, 0, 0, time.UTC)
	hub.BroadcastActivity(events.ActivityPayload{
		EventID:    "evt-1",
		Kind:       "vehicle_added",
		Text:       "Jane Smith added vehicle XYZ-123 to the fleet",
		Relative:   "just now",
		OccurredAt: occurred,
	})

	msg := receive(t, client)
	assert.Equal(t, events.MessageTypeActivity, msg.Type)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())

	data, err := json.Marshal(msg.Data)
	require.NoError(t, err)
	var payload events.ActivityPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "evt-1", payload.EventID)
	assert.Equal(t, "vehicle_added", payload.Kind)
	assert.True(t, payload.OccurredAt.Equal(occurred))
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := startHub(t)
	first := registerTestClient(t, hub)
	second := registerTestClient(t, hub)

	hub.BroadcastSystemStatus(events.SystemStatusPayload{
		Status:    "healthy",
		Platform:  "ready",
		CheckedAt: time.Now().UTC(),
	})

	assert.Equal(t, events.MessageTypeSystemStatus, receive(t, first).Type)
	assert.Equal(t, events.MessageTypeSystemStatus, receive(t, second).Type)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	client := registerTestClient(t, hub)

	hub.unregister <- client

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := startHub(t)
	client := registerTestClient(t, hub)

	// Fill the client's send buffer without draining it
	for i := 0; i < cap(client.send); i++ {
		client.send <- []byte("{}")
	}

	hub.BroadcastError(events.ErrorPayload{Code: "OVERFLOW", Message: "too slow"})

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubStopDuringBroadcastFlood(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()

	for i := 0; i < 64; i++ {
		registerTestClient(t, hub)
	}

	flooded := make(chan struct{})
	go func() {
		defer close(flooded)
		for i := 0; i < 5000; i++ {
			hub.BroadcastActivity(events.ActivityPayload{
				EventID: "evt-flood",
				Kind:    "vehicle_added",
				Text:    "flood",
			})
		}
	}()

	time.Sleep(200 * time.Microsecond)
	hub.Stop()
	<-flooded

	// Stop waits for the run loop, so every client is gone by now.
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubStopClosesClientSend(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	client := registerTestClient(t, hub)

	hub.Stop()

	drainClosed(t, client)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubRegisterAfterStop(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	hub.Stop()

	client := NewClientWithConnection(hub, NewMockConnection(), testLogger())
	hub.Register(client)

	drainClosed(t, client)
	assert.Equal(t, 0, hub.ClientCount())
}

// drainClosed reads the client's send channel until it is closed.
func drainClosed(t *testing.T, client *Client) {
	t.Helper()
	for {
		select {
		case _, open := <-client.send:
			if !open {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("send channel was never closed")
		}
	}
}

func TestHubStopIdempotent(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()

	assert.NotPanics(t, func() {
		hub.Stop()
		hub.Stop()
	})
}

func TestHubSnapshot(t *testing.T) {
	hub := startHub(t)
	registerTestClient(t, hub)

	snap := hub.Snapshot()
	assert.Equal(t, 1, snap["active_clients"])
	assert.Equal(t, int64(1), snap["total_connections"])
}
