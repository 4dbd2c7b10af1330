package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"privaterooms/internal/domain"
)

// HandleEntryJoin runs when a member lands in the entry channel. An
// owner is moved back into their existing room; anyone else gets a
// fresh closed room and is moved into it.
func (c *Controller) HandleEntryJoin(ctx context.Context, member domain.UserID) error {
	const op = "entry"

	// Serialize on the member so a double voice-state event cannot
	// create two rooms for the same user.
	unlock := c.locks.lock("member:" + string(member))
	defer unlock()

	existing, owns, err := c.ledger.OwnedRoomOf(ctx, member)
	if err != nil {
		return storageErr(op, err)
	}
	if owns {
		if err := c.platform.MoveToChannel(ctx, member, existing); err != nil {
			return platformErr(op, err)
		}
		log.Debug().Str("module", "app").Str("member", string(member)).Str("room", string(existing)).Msg("owner re-entered room")
		return nil
	}

	name := fmt.Sprintf("[🔐] %s", c.platform.DisplayName(ctx, member))
	table := rebuildOverwrites(false, member, nil, nil)
	room, err := c.platform.CreateRoomChannel(ctx, name, table)
	if err != nil {
		return platformErr(op, err)
	}

	if err := c.ledger.CreateRoom(ctx, room, member); err != nil {
		// Ledger rejected the room (storage down or a lost race on
		// ownership); do not leave an untracked channel behind.
		if derr := c.platform.DeleteChannel(ctx, room, "ledger create failed"); derr != nil {
			log.Warn().Err(derr).Str("module", "app").Str("room", string(room)).Msg("orphan channel cleanup failed")
		}
		return storageErr(op, err)
	}

	if err := c.platform.MoveToChannel(ctx, member, room); err != nil {
		return platformErr(op, err)
	}

	log.Info().Str("module", "app").Str("member", string(member)).Str("room", string(room)).Msg("created private room")
	return nil
}
