package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e := New(ChatCreated)

	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	assert.Equal(t, ChatCreated, e.Type)
	assert.WithinDuration(t, time.Now().UTC(), e.OccurredAt, time.Second)
	assert.NotEqual(t, e.ID, New(ChatCreated).ID)
}

func TestEvent_Key(t *testing.T) {
	assert.Equal(t, "c1", Event{ChatID: "c1", Username: "bob"}.Key())
	assert.Equal(t, "bob", Event{Username: "bob"}.Key())
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), New(UserDeleted)))
	assert.NoError(t, p.Close())
}
