package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"privaterooms/internal/domain"
)

// Open unlocks the actor's room so anyone may connect.
func (c *Controller) Open(ctx context.Context, actor domain.UserID) error {
	const op = "open"

	room, unlock, err := c.actorRoom(ctx, op, actor)
	if err != nil {
		return err
	}
	defer unlock()

	open, err := c.ledger.IsOpen(ctx, room)
	if err != nil {
		return storageErr(op, err)
	}
	name := c.roomName(ctx, room)
	if open {
		c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.AlreadyUnlocked))
		return preconditionErr(op, "room already open")
	}

	if err := c.ledger.SetOpen(ctx, room, true); err != nil {
		return storageErr(op, err)
	}
	if err := c.applyTable(ctx, op, room, true, actor, nil); err != nil {
		return err
	}

	c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.Unlocked))
	log.Info().Str("module", "app").Str("room", string(room)).Msg("room unlocked")
	return nil
}

// Close locks the actor's room; only invitees may connect afterwards.
func (c *Controller) Close(ctx context.Context, actor domain.UserID) error {
	const op = "close"

	room, unlock, err := c.actorRoom(ctx, op, actor)
	if err != nil {
		return err
	}
	defer unlock()

	open, err := c.ledger.IsOpen(ctx, room)
	if err != nil {
		return storageErr(op, err)
	}
	name := c.roomName(ctx, room)
	if !open {
		c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.AlreadyLocked))
		return preconditionErr(op, "room already closed")
	}

	if err := c.ledger.SetOpen(ctx, room, false); err != nil {
		return storageErr(op, err)
	}
	if err := c.applyTable(ctx, op, room, false, actor, nil); err != nil {
		return err
	}

	c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.Locked))
	log.Info().Str("module", "app").Str("room", string(room)).Msg("room locked")
	return nil
}

// Invite grants target standing access to the actor's locked room.
// Inviting into an open room is rejected: the invite list is
// irrelevant while everyone may connect.
func (c *Controller) Invite(ctx context.Context, actor, target domain.UserID) error {
	const op = "invite"

	room, unlock, err := c.actorRoom(ctx, op, actor)
	if err != nil {
		return err
	}
	defer unlock()

	open, err := c.ledger.IsOpen(ctx, room)
	if err != nil {
		return storageErr(op, err)
	}
	name := c.roomName(ctx, room)
	if open {
		c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.OnlyWhenLocked))
		return preconditionErr(op, "invites only apply to a locked room")
	}

	if err := c.ledger.Invite(ctx, room, target); err != nil {
		return storageErr(op, err)
	}
	delta := &Overwrite{Kind: SubjectMember, ID: target, Connect: true}
	if err := c.applyTable(ctx, op, room, false, actor, delta); err != nil {
		return err
	}

	c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.MemberAdded, mention(target)))
	c.sendDirect(ctx, target, Embed{
		Title:       c.msgs.DMTitle,
		Description: name,
		Fields:      []EmbedField{c.msgs.AccessGranted},
	})
	log.Info().Str("module", "app").Str("room", string(room)).Str("member", string(target)).Msg("member invited")
	return nil
}

// Uninvite revokes target's access to the actor's locked room and, if
// target is currently connected, relocates them to the AFK channel.
func (c *Controller) Uninvite(ctx context.Context, actor, target domain.UserID) error {
	const op = "uninvite"

	room, unlock, err := c.actorRoom(ctx, op, actor)
	if err != nil {
		return err
	}
	defer unlock()

	open, err := c.ledger.IsOpen(ctx, room)
	if err != nil {
		return storageErr(op, err)
	}
	name := c.roomName(ctx, room)
	if open {
		c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.OnlyWhenLocked))
		return preconditionErr(op, "invites only apply to a locked room")
	}

	if err := c.ledger.Uninvite(ctx, room, target); err != nil {
		return storageErr(op, err)
	}
	// Delta last: the revoke must win even if a stale invitation row
	// for target is still read back by applyTable.
	delta := &Overwrite{Kind: SubjectMember, ID: target, Connect: false}
	if err := c.applyTable(ctx, op, room, false, actor, delta); err != nil {
		return err
	}

	c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.MemberRemoved))

	current, inVoice, err := c.platform.VoiceChannelOf(ctx, target)
	if err != nil {
		log.Debug().Err(err).Str("module", "app").Str("member", string(target)).Msg("voice lookup failed, member not relocated")
	} else if inVoice && current == room {
		if err := c.platform.MoveToChannel(ctx, target, domain.ChannelID(c.cfg.AFKChannelID)); err != nil {
			log.Debug().Err(err).Str("module", "app").Str("member", string(target)).Msg("afk relocation failed")
		}
	}

	log.Info().Str("module", "app").Str("room", string(room)).Str("member", string(target)).Msg("member uninvited")
	return nil
}

// Rename validates newName against the denylist and applies it with
// the owner's display name prefixed.
func (c *Controller) Rename(ctx context.Context, actor domain.UserID, newName string) error {
	const op = "rename"

	room, unlock, err := c.actorRoom(ctx, op, actor)
	if err != nil {
		return err
	}
	defer unlock()

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return preconditionErr(op, "empty room name")
	}
	if !c.denylist.Allows(newName) {
		c.sendControl(ctx, c.msgs.control(mention(actor), c.roomName(ctx, room), c.msgs.NameRejected))
		return preconditionErr(op, "room name contains a banned word")
	}

	full := fmt.Sprintf("[%s] %s", c.platform.DisplayName(ctx, actor), newName)
	if err := c.platform.RenameChannel(ctx, room, full); err != nil {
		return platformErr(op, err)
	}

	c.sendControl(ctx, c.msgs.control(mention(actor), full, c.msgs.NameChanged))
	log.Info().Str("module", "app").Str("room", string(room)).Str("name", full).Msg("room renamed")
	return nil
}

// Delete tears the actor's room down: members to AFK, ledger cascade,
// platform channel gone.
func (c *Controller) Delete(ctx context.Context, actor domain.UserID) error {
	const op = "delete"

	room, unlock, err := c.actorRoom(ctx, op, actor)
	if err != nil {
		return err
	}
	defer unlock()

	name := c.roomName(ctx, room)

	members, err := c.platform.ConnectedMembers(ctx, room)
	if err != nil {
		return platformErr(op, err)
	}
	for _, member := range members {
		if err := c.platform.MoveToChannel(ctx, member, domain.ChannelID(c.cfg.AFKChannelID)); err != nil {
			log.Debug().Err(err).Str("module", "app").Str("member", string(member)).Msg("afk relocation failed")
		}
	}

	c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.RoomDeleted))

	if err := c.ledger.DeleteRoom(ctx, room); err != nil {
		return storageErr(op, err)
	}
	if err := c.platform.DeleteChannel(ctx, room, "Deleted by user"); err != nil {
		return platformErr(op, err)
	}

	log.Info().Str("module", "app").Str("room", string(room)).Msg("room deleted")
	return nil
}

// Transfer hands the actor's room to target. Target must not own
// another room and must be connected to this one.
func (c *Controller) Transfer(ctx context.Context, actor, target domain.UserID) error {
	const op = "transfer"

	room, unlock, err := c.actorRoom(ctx, op, actor)
	if err != nil {
		return err
	}
	defer unlock()

	name := c.roomName(ctx, room)

	owns, err := c.ledger.HasRoom(ctx, target)
	if err != nil {
		return storageErr(op, err)
	}
	if owns {
		c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.TransferTargetOwns))
		return preconditionErr(op, "target already owns a room")
	}

	current, inVoice, err := c.platform.VoiceChannelOf(ctx, target)
	if err != nil {
		return platformErr(op, err)
	}
	if !inVoice || current != room {
		c.sendControl(ctx, c.msgs.control(mention(actor), name, c.msgs.TransferTargetAbsent))
		return preconditionErr(op, "target not connected to the room")
	}

	if err := c.ledger.TransferOwner(ctx, actor, target); err != nil {
		return storageErr(op, err)
	}

	targetName := c.platform.DisplayName(ctx, target)
	if err := c.platform.RenameChannel(ctx, room, fmt.Sprintf("[🔐] %s", targetName)); err != nil {
		log.Warn().Err(err).Str("module", "app").Str("room", string(room)).Msg("rename after transfer failed")
	}

	c.sendControl(ctx, c.msgs.control(mention(target), name, c.msgs.TransferDone, targetName))
	c.sendDirect(ctx, target, Embed{
		Title:       c.msgs.TransferReceivedTitle,
		Description: name,
		Fields: []EmbedField{{
			Name:  c.msgs.TransferReceived.Name,
			Value: fmt.Sprintf(c.msgs.TransferReceived.Value, c.platform.DisplayName(ctx, actor), name),
		}},
	})

	log.Info().
		Str("module", "app").
		Str("room", string(room)).
		Str("from", string(actor)).
		Str("to", string(target)).
		Msg("ownership transferred")
	return nil
}

// PostHelp re-posts the command help embed into the control channel.
// Admin only.
func (c *Controller) PostHelp(ctx context.Context, actor domain.UserID) error {
	const op = "help"

	admin, err := c.platform.IsAdmin(ctx, actor)
	if err != nil {
		return platformErr(op, err)
	}
	if !admin {
		return preconditionErr(op, "actor is not an administrator")
	}
	// The help embed is permanent: no auto-delete.
	if err := c.platform.SendControlEmbed(ctx, c.msgs.Help, 0); err != nil {
		return platformErr(op, err)
	}
	return nil
}
