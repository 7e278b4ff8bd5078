package battlehost_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlecore/engine/battlehost"
)

func TestControlChannelSendAndDrain(t *testing.T) {
	c := battlehost.NewControlChannel(2)
	require.True(t, c.Send("move 0"))
	require.True(t, c.Send("move 1"))

	choices, closed := c.Drain()
	assert.Equal(t, []string{"move 0", "move 1"}, choices)
	assert.False(t, closed)
}

func TestControlChannelSendReportsBackpressure(t *testing.T) {
	c := battlehost.NewControlChannel(1)
	require.True(t, c.Send("move 0"))
	assert.False(t, c.Send("move 1"), "a full buffer should report back-pressure instead of blocking")
}

func TestControlChannelDrainReportsClosed(t *testing.T) {
	c := battlehost.NewControlChannel(2)
	require.True(t, c.Send("move 0"))
	c.Close()

	choices, closed := c.Drain()
	assert.Equal(t, []string{"move 0"}, choices)
	assert.True(t, closed)
}

func TestControlChannelDrainEmptyIsNonBlocking(t *testing.T) {
	c := battlehost.NewControlChannel(1)
	choices, closed := c.Drain()
	assert.Empty(t, choices)
	assert.False(t, closed)
}
