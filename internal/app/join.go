package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"privaterooms/internal/domain"
)

// Join asks target (a room owner) to approve requester joining their
// room. The prompt expires after the configured timeout; denial and
// expiry both release the requester's cooldown so a fresh attempt is
// not penalized.
func (c *Controller) Join(ctx context.Context, requester, target domain.UserID) error {
	const op = "join"

	if !c.cooldown.Allow(requester) {
		return preconditionErr(op, "join request already pending or on cooldown")
	}

	owns, err := c.ledger.HasRoom(ctx, target)
	if err != nil {
		c.cooldown.Reset(requester)
		return storageErr(op, err)
	}
	if !owns {
		c.cooldown.Reset(requester)
		return preconditionErr(op, "target does not own a room")
	}

	requestID := uuid.NewString()
	logger := log.With().
		Str("module", "app").
		Str("request_id", requestID).
		Str("requester", string(requester)).
		Str("owner", string(target)).
		Logger()
	logger.Info().Msg("join request sent")

	prompt := Embed{
		Title:       c.msgs.JoinRequestTitle,
		Description: fmt.Sprintf("%s wants to join the room!", c.platform.DisplayName(ctx, requester)),
		Fields:      []EmbedField{c.msgs.JoinRequestPrompt},
		Footer:      c.msgs.JoinRequestFooter,
		Author:      c.platform.DisplayName(ctx, requester),
	}

	// Suspension point: blocks until a reaction, the timeout, or ctx
	// cancellation. Room state is re-read from the ledger afterwards,
	// it may have changed while the prompt was pending.
	approved, err := c.platform.RequestApproval(ctx, target, prompt, c.cfg.JoinTimeout)
	if err != nil {
		c.cooldown.Reset(requester)
		return platformErr(op, err)
	}
	if !approved {
		c.cooldown.Reset(requester)
		logger.Info().Msg("join request denied or expired")
		return nil
	}

	room, owns, err := c.ledger.OwnedRoomOf(ctx, target)
	if err != nil {
		c.cooldown.Reset(requester)
		return storageErr(op, err)
	}
	if !owns {
		// Room deleted while the prompt was pending.
		c.cooldown.Reset(requester)
		return preconditionErr(op, "room vanished before approval")
	}

	unlock := c.locks.lock(string(room))
	defer unlock()

	// Re-verify under the lock; the room may have been deleted between
	// the read above and the lock acquisition.
	owns, err = c.ledger.IsOwner(ctx, room, target)
	if err != nil {
		c.cooldown.Reset(requester)
		return storageErr(op, err)
	}
	if !owns {
		c.cooldown.Reset(requester)
		return preconditionErr(op, "room vanished before approval")
	}

	open, err := c.ledger.IsOpen(ctx, room)
	if err != nil {
		c.cooldown.Reset(requester)
		return storageErr(op, err)
	}
	if !open {
		if err := c.ledger.Invite(ctx, room, requester); err != nil {
			c.cooldown.Reset(requester)
			return storageErr(op, err)
		}
		delta := &Overwrite{Kind: SubjectMember, ID: requester, Connect: true}
		if err := c.applyTable(ctx, op, room, false, target, delta); err != nil {
			c.cooldown.Reset(requester)
			return err
		}

		c.sendDirect(ctx, requester, Embed{
			Title:       c.msgs.DMTitle,
			Description: c.roomName(ctx, room),
			Fields:      []EmbedField{c.msgs.AccessGranted},
		})
		logger.Info().Str("room", string(room)).Msg("join request approved")
	}

	c.cooldown.Reset(requester)
	return nil
}
