package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alfagnish/userdir/internal/directory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func record(t *testing.T, s string) directory.Record {
	t.Helper()
	var r directory.Record
	require.NoError(t, json.Unmarshal([]byte(s), &r))
	return r
}

func idOf(t *testing.T, r directory.Record) int {
	t.Helper()
	raw, ok := r.Get("id")
	require.True(t, ok)
	var id int
	require.NoError(t, json.Unmarshal(raw, &id))
	return id
}

func TestHub_DirectoryChangesReachSubscribers(t *testing.T) {
	hub := NewHub()
	d := directory.New(directory.WithObserver(hub))

	ch, cancel := hub.Subscribe()
	defer cancel()

	jane := `{"id":2,"name":"Jane","age":25,"weight":60,"height":165}`
	d.Create(record(t, jane))

	e := receive(t, ch)
	assert.Equal(t, directory.UserCreated, e.Type)
	got, err := json.Marshal(e.User)
	require.NoError(t, err)
	assert.Equal(t, jane, string(got))
	_, err = uuid.Parse(e.ID)
	assert.NoError(t, err)
	assert.False(t, e.At.IsZero())

	_, err = d.Update(2, record(t, `{"age":26}`))
	require.NoError(t, err)

	e = receive(t, ch)
	assert.Equal(t, directory.UserUpdated, e.Type)
	age, ok := e.User.Get("age")
	require.True(t, ok)
	assert.JSONEq(t, `26`, string(age))
}

func TestHub_FanOut(t *testing.T) {
	hub := NewHub()
	a, cancelA := hub.Subscribe()
	defer cancelA()
	b, cancelB := hub.Subscribe()
	defer cancelB()

	hub.Changed(directory.UserCreated, record(t, `{"id":3}`))

	assert.Equal(t, 3, idOf(t, receive(t, a).User))
	assert.Equal(t, 3, idOf(t, receive(t, b).User))
}

func TestHub_CancelRemovesAndCloses(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	assert.Equal(t, 1, hub.Subscribers())

	cancel()
	cancel()
	assert.Equal(t, 0, hub.Subscribers())

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing with no subscribers is a no-op.
	hub.Changed(directory.UserCreated, directory.Record{})
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			hub.Changed(directory.UserUpdated, directory.Record{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
