package live

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastToRoom(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	client := NewClient(hub, nil, "tournament_a")
	other := NewClient(hub, nil, "tournament_b")
	hub.Register(client)
	hub.Register(other)

	// Registration completes asynchronously in Run.
	var got []byte
	require.Eventually(t, func() bool {
		hub.BroadcastToRoom("tournament_a", map[string]string{"type": "TOURNAMENT_STATUS_CHANGED"})
		select {
		case got = <-client.send:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	var message map[string]string
	require.NoError(t, json.Unmarshal(got, &message))
	assert.Equal(t, "TOURNAMENT_STATUS_CHANGED", message["type"])

	// The other room receives nothing.
	select {
	case <-other.send:
		t.Fatal("message leaked into another room")
	default:
	}
}

func TestHubBroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub(nil)
	// No Run needed: broadcast only reads the room map.
	hub.BroadcastToRoom("tournament_missing", map[string]string{"type": "noop"})
}
