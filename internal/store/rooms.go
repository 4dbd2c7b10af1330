package store

import (
	"context"
	"fmt"

	"privaterooms/internal/domain"
)

// ErrAlreadyOwner is returned by CreateRoom and TransferOwner when the
// would-be owner already holds a room. The schema has no uniqueness
// constraint on member_id, so the one-room-per-owner invariant is
// enforced here, inside the same transaction as the write.
var ErrAlreadyOwner = fmt.Errorf("store: member already owns a room")

type roomRow struct {
	RoomID   int64 `db:"room_id"`
	MemberID int64 `db:"member_id"`
	IsOpen   int   `db:"is_open"`
	Invitees int   `db:"invitees"`
}

// RoomSummary is a Room plus its invitation count, for the status API.
type RoomSummary struct {
	domain.Room
	Invitees int
}

// CreateRoom records a new room owned by ownerID, closed by default.
func (s *Store) CreateRoom(ctx context.Context, roomID domain.ChannelID, ownerID domain.UserID) error {
	room, err := snowflake(string(roomID))
	if err != nil {
		return err
	}
	owner, err := snowflake(string(ownerID))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: create room: %w", err)
	}
	defer tx.Rollback()

	var owns bool
	err = tx.GetContext(ctx, &owns,
		"SELECT EXISTS (SELECT 1 FROM active_rooms WHERE member_id = ? LIMIT 1)", owner)
	if err != nil {
		return fmt.Errorf("store: create room: %w", err)
	}
	if owns {
		return ErrAlreadyOwner
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO active_rooms (room_id, member_id, is_open) VALUES (?, ?, 0)", room, owner)
	if err != nil {
		return fmt.Errorf("store: create room: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: create room: %w", err)
	}
	return nil
}

// IsOwner reports whether userID is the recorded owner of roomID.
func (s *Store) IsOwner(ctx context.Context, roomID domain.ChannelID, userID domain.UserID) (bool, error) {
	room, err := snowflake(string(roomID))
	if err != nil {
		return false, err
	}
	user, err := snowflake(string(userID))
	if err != nil {
		return false, err
	}
	var ok bool
	err = s.db.GetContext(ctx, &ok,
		"SELECT EXISTS (SELECT 1 FROM active_rooms WHERE room_id = ? AND member_id = ? LIMIT 1)", room, user)
	if err != nil {
		return false, fmt.Errorf("store: is owner: %w", err)
	}
	return ok, nil
}

// HasRoom reports whether userID currently owns any room.
func (s *Store) HasRoom(ctx context.Context, userID domain.UserID) (bool, error) {
	user, err := snowflake(string(userID))
	if err != nil {
		return false, err
	}
	var ok bool
	err = s.db.GetContext(ctx, &ok,
		"SELECT EXISTS (SELECT 1 FROM active_rooms WHERE member_id = ? LIMIT 1)", user)
	if err != nil {
		return false, fmt.Errorf("store: has room: %w", err)
	}
	return ok, nil
}

// OwnedRoomOf returns the room owned by userID, or ("", false, nil)
// when the user owns none.
func (s *Store) OwnedRoomOf(ctx context.Context, userID domain.UserID) (domain.ChannelID, bool, error) {
	user, err := snowflake(string(userID))
	if err != nil {
		return "", false, err
	}
	var room int64
	err = s.db.GetContext(ctx, &room,
		"SELECT room_id FROM active_rooms WHERE member_id = ? LIMIT 1", user)
	if err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("store: owned room: %w", err)
	}
	return formatChannel(room), true, nil
}

// IsOpen reports the open flag of roomID. An unknown room reads as
// closed.
func (s *Store) IsOpen(ctx context.Context, roomID domain.ChannelID) (bool, error) {
	room, err := snowflake(string(roomID))
	if err != nil {
		return false, err
	}
	var open bool
	err = s.db.GetContext(ctx, &open,
		"SELECT is_open FROM active_rooms WHERE room_id = ? LIMIT 1", room)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("store: is open: %w", err)
	}
	return open, nil
}

// SetOpen flips the open flag of roomID.
func (s *Store) SetOpen(ctx context.Context, roomID domain.ChannelID, open bool) error {
	room, err := snowflake(string(roomID))
	if err != nil {
		return err
	}
	flag := 0
	if open {
		flag = 1
	}
	_, err = s.db.ExecContext(ctx,
		"UPDATE active_rooms SET is_open = ? WHERE room_id = ?", flag, room)
	if err != nil {
		return fmt.Errorf("store: set open: %w", err)
	}
	return nil
}

// DeleteRoom removes the room row and every invitation row for it.
// Both deletes run in one transaction: if the invitation cascade fails,
// the room row stays and the whole call reports failure.
func (s *Store) DeleteRoom(ctx context.Context, roomID domain.ChannelID) error {
	room, err := snowflake(string(roomID))
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: delete room: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM active_rooms WHERE room_id = ?", room); err != nil {
		return fmt.Errorf("store: delete room: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM active_invitations WHERE room_id = ?", room); err != nil {
		return fmt.Errorf("store: delete room invitations: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: delete room: %w", err)
	}
	return nil
}

// TransferOwner rewrites the owner of the room currently owned by
// fromID. Fails with ErrAlreadyOwner if toID already owns a room.
func (s *Store) TransferOwner(ctx context.Context, fromID, toID domain.UserID) error {
	from, err := snowflake(string(fromID))
	if err != nil {
		return err
	}
	to, err := snowflake(string(toID))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: transfer owner: %w", err)
	}
	defer tx.Rollback()

	var owns bool
	err = tx.GetContext(ctx, &owns,
		"SELECT EXISTS (SELECT 1 FROM active_rooms WHERE member_id = ? LIMIT 1)", to)
	if err != nil {
		return fmt.Errorf("store: transfer owner: %w", err)
	}
	if owns {
		return ErrAlreadyOwner
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE active_rooms SET member_id = ? WHERE member_id = ?", to, from)
	if err != nil {
		return fmt.Errorf("store: transfer owner: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: transfer owner: %w", err)
	}
	return nil
}

// Rooms returns a snapshot of every active room with its invitation
// count. Used by the status API and harmless to call concurrently with
// command handlers.
func (s *Store) Rooms(ctx context.Context) ([]RoomSummary, error) {
	var rows []roomRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT r.room_id, r.member_id, r.is_open, COUNT(i.id) AS invitees
		 FROM active_rooms r
		 LEFT JOIN active_invitations i ON i.room_id = r.room_id
		 GROUP BY r.id
		 ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("store: list rooms: %w", err)
	}
	rooms := make([]RoomSummary, 0, len(rows))
	for _, r := range rows {
		rooms = append(rooms, RoomSummary{
			Room: domain.Room{
				ID:      formatChannel(r.RoomID),
				OwnerID: formatUser(r.MemberID),
				Open:    r.IsOpen != 0,
			},
			Invitees: r.Invitees,
		})
	}
	return rooms, nil
}
