package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterSubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	assert.Equal(t, 2, b.Count())

	b.Unsubscribe(ch1)
	assert.Equal(t, 1, b.Count())

	b.Unsubscribe(ch2)
	b.Unsubscribe(ch2)
	assert.Equal(t, 0, b.Count())
}

func TestBroadcasterPublish(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: EventAdded, ID: 1, Name: "report.pdf"})

	select {
	case got := <-ch:
		assert.Equal(t, EventAdded, got.Type)
		assert.Equal(t, 1, got.ID)
		assert.NotZero(t, got.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBroadcasterDropsForSlowConsumer(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 100; i++ {
		b.Publish(Event{Type: EventUploaded, Name: "x"})
	}
	assert.Equal(t, 64, len(ch))
}

func TestBroadcasterClose(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Count())
	b.Unsubscribe(ch)
}

func TestServeStreamsEvents(t *testing.T) {
	b := NewBroadcaster()
	srv := httptest.NewServer(http.HandlerFunc(b.Serve))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return b.Count() == 1 }, time.Second, 10*time.Millisecond)
	b.Publish(Event{Type: EventRemoved, ID: 7, Name: "old.txt"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventRemoved, got.Type)
	assert.Equal(t, 7, got.ID)
	assert.Equal(t, "old.txt", got.Name)

	conn.Close()
	assert.Eventually(t, func() bool { return b.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
