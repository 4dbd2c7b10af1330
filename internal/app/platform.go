package app

import (
	"context"
	"time"

	"privaterooms/internal/domain"
)

// SubjectKind selects what an Overwrite applies to.
type SubjectKind int

const (
	// SubjectEveryone targets the guild's default role.
	SubjectEveryone SubjectKind = iota
	// SubjectMember targets a single member by id.
	SubjectMember
)

// Overwrite is one entry of a channel's connect-permission table.
type Overwrite struct {
	Kind    SubjectKind
	ID      domain.UserID // empty for SubjectEveryone
	Connect bool
}

// EmbedField is one name/value section of a confirmation embed.
type EmbedField struct {
	Name  string
	Value string
}

// Embed is the platform-agnostic shape of a user-facing message.
type Embed struct {
	Title       string
	Description string
	Fields      []EmbedField
	Footer      string
	Author      string
}

// Platform is everything the lifecycle controller needs from Discord.
// The discordgo adapter implements it; tests use a fake.
type Platform interface {
	// CreateRoomChannel creates a voice channel in the managed category
	// with the given permission table and returns its id.
	CreateRoomChannel(ctx context.Context, name string, overwrites []Overwrite) (domain.ChannelID, error)
	DeleteChannel(ctx context.Context, channel domain.ChannelID, reason string) error
	RenameChannel(ctx context.Context, channel domain.ChannelID, name string) error
	// ApplyOverwrites replaces the channel's full connect table.
	ApplyOverwrites(ctx context.Context, channel domain.ChannelID, overwrites []Overwrite) error

	// MoveToChannel relocates a connected member to another voice channel.
	MoveToChannel(ctx context.Context, user domain.UserID, channel domain.ChannelID) error
	// VoiceChannelOf returns the voice channel the user is connected to,
	// or ok=false when they are not in voice at all.
	VoiceChannelOf(ctx context.Context, user domain.UserID) (domain.ChannelID, bool, error)
	ConnectedMembers(ctx context.Context, channel domain.ChannelID) ([]domain.UserID, error)
	// CategoryVoiceChannels lists the voice channels of the managed
	// category, entry channel included.
	CategoryVoiceChannels(ctx context.Context) ([]domain.ChannelID, error)

	DisplayName(ctx context.Context, user domain.UserID) string
	// ChannelName is the current display name of a channel, best
	// effort: implementations fall back to the raw id.
	ChannelName(ctx context.Context, channel domain.ChannelID) string
	IsAdmin(ctx context.Context, user domain.UserID) (bool, error)

	// SendControlEmbed posts to the control channel. A non-zero
	// deleteAfter schedules removal of the confirmation.
	SendControlEmbed(ctx context.Context, embed Embed, deleteAfter time.Duration) error
	// SendDirectEmbed DMs a user. Unreachable users are a platform
	// error; callers decide whether that is fatal (usually not).
	SendDirectEmbed(ctx context.Context, user domain.UserID, embed Embed) error
	// RequestApproval DMs target a yes/no prompt and blocks until a
	// reaction, the timeout, or ctx cancellation. Timeout reports
	// approved=false with a nil error.
	RequestApproval(ctx context.Context, target domain.UserID, embed Embed, timeout time.Duration) (bool, error)

	// PurgeControl deletes up to limit non-bot messages from the
	// control channel.
	PurgeControl(ctx context.Context, limit int) error
}
