package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"privaterooms/internal/domain"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Invite records standing connect permission for memberID on roomID.
// Inserting the same pair twice is tolerated; the table is treated as
// a set, so the duplicate insert is skipped.
func (s *Store) Invite(ctx context.Context, roomID domain.ChannelID, memberID domain.UserID) error {
	room, err := snowflake(string(roomID))
	if err != nil {
		return err
	}
	member, err := snowflake(string(memberID))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO active_invitations (room_id, member_id)
		 SELECT ?, ? WHERE NOT EXISTS
		 (SELECT 1 FROM active_invitations WHERE room_id = ? AND member_id = ?)`,
		room, member, room, member)
	if err != nil {
		return fmt.Errorf("store: invite: %w", err)
	}
	return nil
}

// Uninvite removes every invitation row for the (room, member) pair.
func (s *Store) Uninvite(ctx context.Context, roomID domain.ChannelID, memberID domain.UserID) error {
	room, err := snowflake(string(roomID))
	if err != nil {
		return err
	}
	member, err := snowflake(string(memberID))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"DELETE FROM active_invitations WHERE room_id = ? AND member_id = ?", room, member)
	if err != nil {
		return fmt.Errorf("store: uninvite: %w", err)
	}
	return nil
}

// IsInvited reports whether memberID holds an invitation to roomID.
func (s *Store) IsInvited(ctx context.Context, roomID domain.ChannelID, memberID domain.UserID) (bool, error) {
	room, err := snowflake(string(roomID))
	if err != nil {
		return false, err
	}
	member, err := snowflake(string(memberID))
	if err != nil {
		return false, err
	}
	var ok bool
	err = s.db.GetContext(ctx, &ok,
		"SELECT EXISTS (SELECT 1 FROM active_invitations WHERE room_id = ? AND member_id = ? LIMIT 1)",
		room, member)
	if err != nil {
		return false, fmt.Errorf("store: is invited: %w", err)
	}
	return ok, nil
}

// AllInvited returns the invited member ids for roomID. Order is not
// meaningful.
func (s *Store) AllInvited(ctx context.Context, roomID domain.ChannelID) ([]domain.UserID, error) {
	room, err := snowflake(string(roomID))
	if err != nil {
		return nil, err
	}
	var members []int64
	err = s.db.SelectContext(ctx, &members,
		"SELECT member_id FROM active_invitations WHERE room_id = ?", room)
	if err != nil {
		return nil, fmt.Errorf("store: all invited: %w", err)
	}
	invited := make([]domain.UserID, 0, len(members))
	for _, m := range members {
		invited = append(invited, formatUser(m))
	}
	return invited, nil
}
