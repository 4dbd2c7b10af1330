// Package app is the room lifecycle controller: it reacts to entry
// channel joins and owner commands, keeps the ledger and the channel
// permission tables in sync, and reaps empty rooms in the background.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"privaterooms/internal/config"
	"privaterooms/internal/domain"
)

// Ledger is the persistence surface the controller needs. *store.Store
// implements it.
type Ledger interface {
	CreateRoom(ctx context.Context, roomID domain.ChannelID, ownerID domain.UserID) error
	IsOwner(ctx context.Context, roomID domain.ChannelID, userID domain.UserID) (bool, error)
	HasRoom(ctx context.Context, userID domain.UserID) (bool, error)
	OwnedRoomOf(ctx context.Context, userID domain.UserID) (domain.ChannelID, bool, error)
	IsOpen(ctx context.Context, roomID domain.ChannelID) (bool, error)
	SetOpen(ctx context.Context, roomID domain.ChannelID, open bool) error
	DeleteRoom(ctx context.Context, roomID domain.ChannelID) error
	Invite(ctx context.Context, roomID domain.ChannelID, memberID domain.UserID) error
	Uninvite(ctx context.Context, roomID domain.ChannelID, memberID domain.UserID) error
	IsInvited(ctx context.Context, roomID domain.ChannelID, memberID domain.UserID) (bool, error)
	AllInvited(ctx context.Context, roomID domain.ChannelID) ([]domain.UserID, error)
	TransferOwner(ctx context.Context, fromID, toID domain.UserID) error
}

// Controller wires the ledger and the platform together. One instance
// serves the whole guild; per-room mutexes order concurrent handlers
// touching the same room.
type Controller struct {
	cfg      *config.Config
	ledger   Ledger
	platform Platform
	msgs     *Messages
	denylist *Denylist
	cooldown *Cooldown
	locks    *keyedLocks
}

func NewController(cfg *config.Config, ledger Ledger, platform Platform, msgs *Messages, denylist *Denylist) *Controller {
	if msgs == nil {
		msgs = DefaultMessages()
	}
	return &Controller{
		cfg:      cfg,
		ledger:   ledger,
		platform: platform,
		msgs:     msgs,
		denylist: denylist,
		cooldown: NewCooldown(1, cfg.JoinCooldown),
		locks:    newKeyedLocks(),
	}
}

func mention(u domain.UserID) string {
	return fmt.Sprintf("<@%s>", u)
}

// actorRoom resolves the voice channel the actor is connected to,
// takes the room lock, and only then verifies ownership, so a handler
// racing a delete sees the room as gone instead of acting on it.
// A user outside voice gets a control-channel notice; a non-owner is
// rejected silently (the invoking message is already deleted by the
// command front end). On success the caller owns unlock.
func (c *Controller) actorRoom(ctx context.Context, op string, actor domain.UserID) (domain.ChannelID, func(), error) {
	channel, inVoice, err := c.platform.VoiceChannelOf(ctx, actor)
	if err != nil {
		return "", nil, platformErr(op, err)
	}
	if !inVoice {
		c.sendControl(ctx, c.msgs.control(mention(actor), "private rooms", c.msgs.NotInVoice))
		return "", nil, preconditionErr(op, "actor not connected to a voice channel")
	}
	unlock := c.locks.lock(string(channel))
	owns, err := c.ledger.IsOwner(ctx, channel, actor)
	if err != nil {
		unlock()
		return "", nil, storageErr(op, err)
	}
	if !owns {
		unlock()
		return "", nil, preconditionErr(op, "actor is not the room owner")
	}
	return channel, unlock, nil
}

func (c *Controller) roomName(ctx context.Context, channel domain.ChannelID) string {
	return c.platform.ChannelName(ctx, channel)
}

// sendControl posts an ephemeral confirmation. Send failures are
// logged, never propagated.
func (c *Controller) sendControl(ctx context.Context, embed Embed) {
	if err := c.platform.SendControlEmbed(ctx, embed, c.cfg.DeleteAfter); err != nil {
		log.Warn().Err(err).Str("module", "app").Msg("control embed send failed")
	}
}

// sendDirect DMs a user, best effort. Users with closed DMs are
// common; failure is logged at debug and swallowed.
func (c *Controller) sendDirect(ctx context.Context, user domain.UserID, embed Embed) {
	if err := c.platform.SendDirectEmbed(ctx, user, embed); err != nil {
		log.Debug().Err(err).Str("module", "app").Str("user", string(user)).Msg("dm failed")
	}
}

// applyTable recomputes the room's full connect table from ledger
// state and pushes it to the platform.
func (c *Controller) applyTable(ctx context.Context, op string, room domain.ChannelID, open bool, owner domain.UserID, delta *Overwrite) error {
	invitees, err := c.ledger.AllInvited(ctx, room)
	if err != nil {
		return storageErr(op, err)
	}
	table := rebuildOverwrites(open, owner, invitees, delta)
	if err := c.platform.ApplyOverwrites(ctx, room, table); err != nil {
		return platformErr(op, err)
	}
	return nil
}
