package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepReapsEmptyRooms(t *testing.T) {
	ctrl, platform, st := newTestController(t)
	ctx := context.Background()

	room := createRoom(t, ctrl, platform, owner)
	require.NoError(t, ctrl.Invite(ctx, owner, guestA))

	// Everyone leaves.
	require.NoError(t, platform.MoveToChannel(ctx, owner, afkChannel))

	ctrl.SweepOnce(ctx)

	owns, err := st.HasRoom(ctx, owner)
	require.NoError(t, err)
	assert.False(t, owns, "ledger row reaped")

	invited, err := st.AllInvited(ctx, room)
	require.NoError(t, err)
	assert.Empty(t, invited, "invitations reaped with the room")

	assert.Contains(t, platform.deleted, room, "platform channel reaped")
	assert.Equal(t, 1, platform.purges, "control channel purged once per pass")
}

func TestSweepKeepsOccupiedRooms(t *testing.T) {
	ctrl, platform, st := newTestController(t)
	ctx := context.Background()

	room := createRoom(t, ctrl, platform, owner)

	ctrl.SweepOnce(ctx)

	owns, err := st.HasRoom(ctx, owner)
	require.NoError(t, err)
	assert.True(t, owns)
	assert.NotContains(t, platform.deleted, room)
}

func TestSweepSparesEntryChannel(t *testing.T) {
	ctrl, platform, _ := newTestController(t)

	ctrl.SweepOnce(context.Background())

	assert.NotContains(t, platform.deleted, entryChannel)
}
