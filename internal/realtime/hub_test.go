package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	mu   sync.Mutex
	msgs [][]byte
	fail bool
}

func (c *recordingClient) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, message)
	return !c.fail
}

func (c *recordingClient) Close() {}

func TestHub_PublishVersionsEvents(t *testing.T) {
	h := NewHub(nil)
	a, b := &recordingClient{}, &recordingClient{fail: true}
	h.Register(a)
	h.Register(b)
	assert.Equal(t, 2, h.Len())

	h.Publish(EventCreated, EntityTask, 7)
	h.Publish(EventMoved, EntityTask, 7)

	require.Len(t, a.msgs, 2)
	require.Len(t, b.msgs, 2)

	var first, second Event
	require.NoError(t, json.Unmarshal(a.msgs[0], &first))
	require.NoError(t, json.Unmarshal(a.msgs[1], &second))
	assert.Equal(t, Event{Type: "created", Entity: "task", ID: 7, Version: 1}, first)
	assert.Equal(t, int64(2), second.Version)

	h.Unregister(a)
	h.Publish(EventDeleted, EntityStaff, 1)
	assert.Len(t, a.msgs, 2)
	assert.Equal(t, 1, h.Len())
}
