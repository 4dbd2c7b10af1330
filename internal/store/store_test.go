package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privaterooms/internal/domain"
)

const (
	roomA = domain.ChannelID("100001")
	roomB = domain.ChannelID("100002")
	userO = domain.UserID("200001")
	userA = domain.UserID("200002")
	userB = domain.UserID("200003")
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateRoomThenHasRoom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owns, err := s.HasRoom(ctx, userO)
	require.NoError(t, err)
	assert.False(t, owns)

	require.NoError(t, s.CreateRoom(ctx, roomA, userO))

	owns, err = s.HasRoom(ctx, userO)
	require.NoError(t, err)
	assert.True(t, owns)

	isOwner, err := s.IsOwner(ctx, roomA, userO)
	require.NoError(t, err)
	assert.True(t, isOwner)

	isOwner, err = s.IsOwner(ctx, roomA, userA)
	require.NoError(t, err)
	assert.False(t, isOwner)
}

func TestCreateRoomEnforcesSingleOwnership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRoom(ctx, roomA, userO))
	err := s.CreateRoom(ctx, roomB, userO)
	require.ErrorIs(t, err, ErrAlreadyOwner)

	// The rejected insert must not have left a second row.
	rooms, err := s.Rooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, roomA, rooms[0].ID)
}

func TestNewRoomIsClosed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRoom(ctx, roomA, userO))

	open, err := s.IsOpen(ctx, roomA)
	require.NoError(t, err)
	assert.False(t, open)

	require.NoError(t, s.SetOpen(ctx, roomA, true))
	open, err = s.IsOpen(ctx, roomA)
	require.NoError(t, err)
	assert.True(t, open)

	require.NoError(t, s.SetOpen(ctx, roomA, false))
	open, err = s.IsOpen(ctx, roomA)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestIsOpenUnknownRoomReadsClosed(t *testing.T) {
	s := newTestStore(t)

	open, err := s.IsOpen(context.Background(), roomB)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestOwnedRoomOf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, owns, err := s.OwnedRoomOf(ctx, userO)
	require.NoError(t, err)
	assert.False(t, owns)

	require.NoError(t, s.CreateRoom(ctx, roomA, userO))

	room, owns, err := s.OwnedRoomOf(ctx, userO)
	require.NoError(t, err)
	assert.True(t, owns)
	assert.Equal(t, roomA, room)
}

func TestDeleteRoomCascadesInvitations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRoom(ctx, roomA, userO))
	require.NoError(t, s.Invite(ctx, roomA, userA))
	require.NoError(t, s.Invite(ctx, roomA, userB))

	require.NoError(t, s.DeleteRoom(ctx, roomA))

	owns, err := s.HasRoom(ctx, userO)
	require.NoError(t, err)
	assert.False(t, owns)

	invited, err := s.AllInvited(ctx, roomA)
	require.NoError(t, err)
	assert.Empty(t, invited)
}

func TestTransferOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRoom(ctx, roomA, userO))
	require.NoError(t, s.TransferOwner(ctx, userO, userB))

	isOwner, err := s.IsOwner(ctx, roomA, userB)
	require.NoError(t, err)
	assert.True(t, isOwner)

	isOwner, err = s.IsOwner(ctx, roomA, userO)
	require.NoError(t, err)
	assert.False(t, isOwner)
}

func TestTransferOwnerRejectsExistingOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRoom(ctx, roomA, userO))
	require.NoError(t, s.CreateRoom(ctx, roomB, userB))

	err := s.TransferOwner(ctx, userO, userB)
	require.ErrorIs(t, err, ErrAlreadyOwner)

	isOwner, err := s.IsOwner(ctx, roomA, userO)
	require.NoError(t, err)
	assert.True(t, isOwner, "ownership must be unchanged after a rejected transfer")
}

func TestSnowflakeCoercion(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateRoom(context.Background(), "not-a-number", userO)
	require.Error(t, err)
}

func TestRoomsSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRoom(ctx, roomA, userO))
	require.NoError(t, s.CreateRoom(ctx, roomB, userB))
	require.NoError(t, s.SetOpen(ctx, roomB, true))
	require.NoError(t, s.Invite(ctx, roomA, userA))
	require.NoError(t, s.Invite(ctx, roomA, userB))

	rooms, err := s.Rooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, domain.Room{ID: roomA, OwnerID: userO, Open: false}, rooms[0].Room)
	assert.Equal(t, 2, rooms[0].Invitees)
	assert.Equal(t, domain.Room{ID: roomB, OwnerID: userB, Open: true}, rooms[1].Room)
	assert.Equal(t, 0, rooms[1].Invitees)
}
