package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetadmin/pkg/contracts"
)

type staticCounter int

func (c staticCounter) ClientCount() int { return int(c) }

func TestHealthServiceLiveness(t *testing.T) {
	svc := NewHealthService(&fakePlatform{}, nil, discardLogger())

	status := svc.LivenessCheck(context.Background())

	assert.Equal(t, "alive", status.Status)
	assert.Equal(t, contracts.Version, status.Version)
	assert.Contains(t, status.Runtime, "go_version")
}

func TestHealthServiceReadiness(t *testing.T) {
	t.Run("ready when platform answers", func(t *testing.T) {
		svc := NewHealthService(&fakePlatform{}, staticCounter(3), discardLogger())

		status := svc.ReadinessCheck(context.Background())

		assert.Equal(t, "ready", status.Status)
		platform, ok := status.Services["platform"].(ServiceHealth)
		require.True(t, ok)
		assert.Equal(t, "ready", platform.Status)
	})

	t.Run("not ready when platform ping fails", func(t *testing.T) {
		fake := &fakePlatform{pingErr: errors.New("platform unavailable: connection refused")}
		svc := NewHealthService(fake, staticCounter(0), discardLogger())

		status := svc.ReadinessCheck(context.Background())

		assert.Equal(t, "not_ready", status.Status)
		platform := status.Services["platform"].(ServiceHealth)
		assert.Contains(t, platform.Message, "platform unavailable")
	})

	t.Run("missing hub reported but never blocks", func(t *testing.T) {
		svc := NewHealthService(&fakePlatform{}, nil, discardLogger())

		status := svc.ReadinessCheck(context.Background())

		assert.Equal(t, "ready", status.Status)
		ws := status.Services["websocket"].(ServiceHealth)
		assert.Equal(t, "disabled", ws.Status)
	})
}

func TestHealthServiceVersion(t *testing.T) {
	svc := NewHealthService(&fakePlatform{}, staticCounter(2), discardLogger())

	info := svc.Version()

	assert.Equal(t, contracts.Version, info["version"])
	assert.Equal(t, contracts.APIVersion, info["api_version"])
	assert.Contains(t, info, "go_version")
	assert.Contains(t, info, "uptime")
}

func TestHealthServiceWebSocketClients(t *testing.T) {
	assert.Equal(t, 0, NewHealthService(&fakePlatform{}, nil, discardLogger()).WebSocketClients())
	assert.Equal(t, 7, NewHealthService(&fakePlatform{}, staticCounter(7), discardLogger()).WebSocketClients())
}
