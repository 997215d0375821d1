package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubConnected(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.Connected(7))

	a := NewClient(7, nil)
	b := NewClient(7, nil)
	hub.AddClient(a)
	hub.AddClient(b)
	assert.True(t, hub.Connected(7))
	assert.False(t, hub.Connected(8))

	hub.RemoveClient(a)
	assert.True(t, hub.Connected(7), "second device still connected")
	hub.RemoveClient(b)
	assert.False(t, hub.Connected(7))
}

func TestHubRemoveClientTwice(t *testing.T) {
	hub := NewHub()
	c := NewClient(7, nil)
	hub.AddClient(c)
	hub.RemoveClient(c)

	assert.NotPanics(t, func() { hub.RemoveClient(c) })
}

func TestHubPush(t *testing.T) {
	hub := NewHub()
	c := NewClient(7, nil)
	hub.AddClient(c)

	hub.Push(7, map[string]string{"hello": "world"})

	select {
	case data := <-c.Send:
		assert.JSONEq(t, `{"hello":"world"}`, string(data))
	default:
		t.Fatal("expected a payload on the send channel")
	}

	assert.NotPanics(t, func() { hub.Push(99, "nobody listening") })
}

func TestHubPushDropsStaleClient(t *testing.T) {
	hub := NewHub()
	// unbuffered channel that nothing drains
	c := &Client{UserID: 7, Send: make(chan []byte)}
	hub.AddClient(c)

	hub.Push(7, "ping")

	assert.False(t, hub.Connected(7))
}
