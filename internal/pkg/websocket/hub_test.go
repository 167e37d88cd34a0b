package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})
	return hub, cancel
}

func attach(hub *Hub, email, role string) *Client {
	c := &Client{hub: hub, send: make(chan []byte, sendBuffer), email: email, role: role, remoteAddr: "test"}
	hub.register <- c
	return c
}

func receive(t *testing.T, c *Client) Notification {
	t.Helper()
	select {
	case payload := <-c.send:
		var n Notification
		require.NoError(t, json.Unmarshal(payload, &n))
		return n
	case <-time.After(time.Second):
		t.Fatal("no notification delivered")
		return Notification{}
	}
}

func TestSendToUserReachesOnlyThatUser(t *testing.T) {
	hub, _ := startHub(t)
	alice := attach(hub, "alice@example.com", "student")
	bob := attach(hub, "bob@example.com", "student")

	hub.SendToUser("Alice@Example.com", Notification{Type: "application.status", ApplicationID: "a-1", ApplicationStatus: "completed"})

	n := receive(t, alice)
	assert.Equal(t, "application.status", n.Type)
	assert.Equal(t, "completed", n.ApplicationStatus)
	assert.False(t, n.Timestamp.IsZero())

	select {
	case <-bob.send:
		t.Fatal("bob must not receive alice's notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendToRoles(t *testing.T) {
	hub, _ := startHub(t)
	mod := attach(hub, "mod@example.com", "moderator")
	student := attach(hub, "s@example.com", "student")

	hub.SendToRoles(Notification{Type: "application.created"}, "moderator", "admin")

	assert.Equal(t, "application.created", receive(t, mod).Type)
	select {
	case <-student.send:
		t.Fatal("student must not receive moderator notifications")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestShutdownClosesClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := attach(hub, "alice@example.com", "student")
	assert.Eventually(t, func() bool { return hub.ClientCount("alice@example.com") == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-hub.Done()

	_, open := <-c.send
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientCount("alice@example.com"))

	// Sending after shutdown must not block
	hub.SendToUser("alice@example.com", Notification{Type: "late"})
}
