// Package discord adapts a discordgo session to the controller's
// Platform interface and hosts the text-command front end.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"privaterooms/internal/app"
	"privaterooms/internal/config"
	"privaterooms/internal/domain"
)

// Bitrate per guild premium tier, in bps. Index is the boost tier.
var bitrates = []int{96000, 128000, 256000, 384000}

// Adapter implements app.Platform over a discordgo session.
type Adapter struct {
	session   *discordgo.Session
	cfg       *config.Config
	approvals *approvals
}

func NewAdapter(session *discordgo.Session, cfg *config.Config) *Adapter {
	return &Adapter{
		session:   session,
		cfg:       cfg,
		approvals: newApprovals(),
	}
}

func (a *Adapter) CreateRoomChannel(ctx context.Context, name string, overwrites []app.Overwrite) (domain.ChannelID, error) {
	bitrate := bitrates[0]
	if guild, err := a.session.State.Guild(a.cfg.GuildID); err == nil {
		if tier := int(guild.PremiumTier); tier >= 0 && tier < len(bitrates) {
			bitrate = bitrates[tier]
		}
	}

	channel, err := a.session.GuildChannelCreateComplex(a.cfg.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildVoice,
		Bitrate:              bitrate,
		ParentID:             a.cfg.CategoryID,
		PermissionOverwrites: a.toOverwrites(overwrites),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("discord: create channel: %w", err)
	}
	return domain.ChannelID(channel.ID), nil
}

func (a *Adapter) DeleteChannel(ctx context.Context, channel domain.ChannelID, reason string) error {
	_, err := a.session.ChannelDelete(string(channel),
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	if err != nil {
		return fmt.Errorf("discord: delete channel: %w", err)
	}
	return nil
}

func (a *Adapter) RenameChannel(ctx context.Context, channel domain.ChannelID, name string) error {
	_, err := a.session.ChannelEdit(string(channel), &discordgo.ChannelEdit{Name: name},
		discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: rename channel: %w", err)
	}
	return nil
}

func (a *Adapter) ApplyOverwrites(ctx context.Context, channel domain.ChannelID, overwrites []app.Overwrite) error {
	_, err := a.session.ChannelEdit(string(channel), &discordgo.ChannelEdit{
		PermissionOverwrites: a.toOverwrites(overwrites),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: apply overwrites: %w", err)
	}
	return nil
}

// toOverwrites maps the controller's connect table to Discord
// permission overwrites. The everyone role shares the guild's id.
func (a *Adapter) toOverwrites(overwrites []app.Overwrite) []*discordgo.PermissionOverwrite {
	out := make([]*discordgo.PermissionOverwrite, 0, len(overwrites))
	for _, o := range overwrites {
		po := &discordgo.PermissionOverwrite{}
		if o.Kind == app.SubjectEveryone {
			po.ID = a.cfg.GuildID
			po.Type = discordgo.PermissionOverwriteTypeRole
		} else {
			po.ID = string(o.ID)
			po.Type = discordgo.PermissionOverwriteTypeMember
		}
		if o.Connect {
			po.Allow = discordgo.PermissionVoiceConnect
		} else {
			po.Deny = discordgo.PermissionVoiceConnect
		}
		out = append(out, po)
	}
	return out
}

func (a *Adapter) MoveToChannel(ctx context.Context, user domain.UserID, channel domain.ChannelID) error {
	id := string(channel)
	if err := a.session.GuildMemberMove(a.cfg.GuildID, string(user), &id, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: move member: %w", err)
	}
	return nil
}

func (a *Adapter) VoiceChannelOf(ctx context.Context, user domain.UserID) (domain.ChannelID, bool, error) {
	state, err := a.session.State.VoiceState(a.cfg.GuildID, string(user))
	if err != nil {
		if err == discordgo.ErrStateNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("discord: voice state: %w", err)
	}
	if state == nil || state.ChannelID == "" {
		return "", false, nil
	}
	return domain.ChannelID(state.ChannelID), true, nil
}

func (a *Adapter) ConnectedMembers(ctx context.Context, channel domain.ChannelID) ([]domain.UserID, error) {
	guild, err := a.session.State.Guild(a.cfg.GuildID)
	if err != nil {
		return nil, fmt.Errorf("discord: guild state: %w", err)
	}
	var members []domain.UserID
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == string(channel) {
			members = append(members, domain.UserID(vs.UserID))
		}
	}
	return members, nil
}

func (a *Adapter) CategoryVoiceChannels(ctx context.Context) ([]domain.ChannelID, error) {
	channels, err := a.session.GuildChannels(a.cfg.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord: guild channels: %w", err)
	}
	var out []domain.ChannelID
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildVoice && ch.ParentID == a.cfg.CategoryID {
			out = append(out, domain.ChannelID(ch.ID))
		}
	}
	return out, nil
}

func (a *Adapter) DisplayName(ctx context.Context, user domain.UserID) string {
	member, err := a.session.State.Member(a.cfg.GuildID, string(user))
	if err != nil || member == nil {
		m, ferr := a.session.GuildMember(a.cfg.GuildID, string(user), discordgo.WithContext(ctx))
		if ferr != nil {
			return string(user)
		}
		member = m
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		return member.User.Username
	}
	return string(user)
}

func (a *Adapter) ChannelName(ctx context.Context, channel domain.ChannelID) string {
	ch, err := a.session.State.Channel(string(channel))
	if err != nil || ch == nil {
		c, ferr := a.session.Channel(string(channel), discordgo.WithContext(ctx))
		if ferr != nil {
			return string(channel)
		}
		ch = c
	}
	return ch.Name
}

func (a *Adapter) IsAdmin(ctx context.Context, user domain.UserID) (bool, error) {
	perms, err := a.session.UserChannelPermissions(string(user), a.cfg.ControlChannelID)
	if err != nil {
		return false, fmt.Errorf("discord: channel permissions: %w", err)
	}
	return perms&discordgo.PermissionAdministrator != 0, nil
}

func (a *Adapter) SendControlEmbed(ctx context.Context, embed app.Embed, deleteAfter time.Duration) error {
	msg, err := a.session.ChannelMessageSendEmbed(a.cfg.ControlChannelID, toMessageEmbed(embed),
		discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: control embed: %w", err)
	}
	if deleteAfter > 0 {
		a.deleteLater(a.cfg.ControlChannelID, msg.ID, deleteAfter)
	}
	return nil
}

func (a *Adapter) SendDirectEmbed(ctx context.Context, user domain.UserID, embed app.Embed) error {
	dm, err := a.session.UserChannelCreate(string(user), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: open dm: %w", err)
	}
	msg, err := a.session.ChannelMessageSendEmbed(dm.ID, toMessageEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: dm embed: %w", err)
	}
	a.deleteLater(dm.ID, msg.ID, 120*time.Second)
	return nil
}

// PurgeControl bulk-deletes up to limit non-bot messages from the
// control channel. Messages older than the bulk-delete horizon are
// removed one by one.
func (a *Adapter) PurgeControl(ctx context.Context, limit int) error {
	messages, err := a.session.ChannelMessages(a.cfg.ControlChannelID, limit, "", "", "",
		discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: list control messages: %w", err)
	}

	botID := ""
	if a.session.State.User != nil {
		botID = a.session.State.User.ID
	}

	horizon := time.Now().Add(-14 * 24 * time.Hour)
	var bulk []string
	for _, m := range messages {
		if m.Author != nil && m.Author.ID == botID {
			continue
		}
		if m.Timestamp.After(horizon) {
			bulk = append(bulk, m.ID)
			continue
		}
		if err := a.session.ChannelMessageDelete(a.cfg.ControlChannelID, m.ID, discordgo.WithContext(ctx)); err != nil {
			log.Debug().Err(err).Str("module", "adapters.discord").Str("message", m.ID).Msg("purge delete failed")
		}
	}
	if len(bulk) == 1 {
		if err := a.session.ChannelMessageDelete(a.cfg.ControlChannelID, bulk[0], discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("discord: purge: %w", err)
		}
	} else if len(bulk) > 1 {
		if err := a.session.ChannelMessagesBulkDelete(a.cfg.ControlChannelID, bulk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("discord: purge: %w", err)
		}
	}
	return nil
}

func (a *Adapter) deleteLater(channelID, messageID string, after time.Duration) {
	time.AfterFunc(after, func() {
		if err := a.session.ChannelMessageDelete(channelID, messageID); err != nil {
			log.Debug().Err(err).Str("module", "adapters.discord").Str("message", messageID).Msg("scheduled delete failed")
		}
	})
}

func toMessageEmbed(embed app.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       0xE91E63, // magenta
	}
	for _, f := range embed.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:  f.Name,
			Value: f.Value,
		})
	}
	if embed.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
	}
	if embed.Author != "" {
		out.Author = &discordgo.MessageEmbedAuthor{Name: embed.Author}
	}
	return out
}
