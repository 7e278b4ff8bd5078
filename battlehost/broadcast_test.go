package battlehost_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/battlelog"
	"github.com/battlecore/engine/battlehost"
)

func TestSubscriptionReceivesPublishedEntries(t *testing.T) {
	b := battlehost.NewLogBroadcaster(4)
	sub := b.Subscribe()

	b.Publish(battlelog.New("damage", "mon", "Jolteon"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	entry, err := sub.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "damage", entry.Verb)
}

func TestSubscriptionReportsLaggedOnOverflow(t *testing.T) {
	b := battlehost.NewLogBroadcaster(1)
	sub := b.Subscribe()

	b.Publish(battlelog.New("turn"))
	b.Publish(battlelog.New("damage"))
	b.Publish(battlelog.New("faint"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := sub.Receive(ctx)
	require.Error(t, err)
	assert.True(t, battleerr.IsChannelLagged(err))
}

func TestSubscriptionReceiveRespectsContextCancellation(t *testing.T) {
	b := battlehost.NewLogBroadcaster(1)
	sub := b.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sub.Receive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnsubscribeStopsFurtherDelivery(t *testing.T) {
	b := battlehost.NewLogBroadcaster(4)
	sub := b.Subscribe()
	sub.Unsubscribe()

	b.Publish(battlelog.New("turn"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := sub.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
