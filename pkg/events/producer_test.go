package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, TopicCart, "u1", map[string]any{"type": "cart_item_added"}))
	require.NoError(t, r.Publish(ctx, TopicBooking, "u1", map[string]any{"type": "booking_created"}))
	require.NoError(t, r.Publish(ctx, TopicCart, "u1", "not a map"))

	assert.Len(t, r.Events(), 3)
	assert.Equal(t, []string{"cart_item_added"}, r.Types(TopicCart))
	assert.Equal(t, []string{"booking_created"}, r.Types(TopicBooking))
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), TopicUser, "k", nil))
}

func TestProducer_MarshalError(t *testing.T) {
	p := NewProducer([]string{"localhost:1"})
	defer p.Close()

	err := p.Publish(context.Background(), TopicUser, "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal event")
}
