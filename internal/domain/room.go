package domain

// Room is one privately owned voice channel. The channel id doubles as
// the room id; Discord assigns it, the ledger only records it.
type Room struct {
	ID      ChannelID
	OwnerID UserID
	Open    bool
}

// Invitation grants a member standing connect permission to a closed
// room. Meaningless while the room is open, but kept so it applies
// again after the room is relocked.
type Invitation struct {
	RoomID   ChannelID
	MemberID UserID
}
