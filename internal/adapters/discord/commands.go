package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"privaterooms/internal/app"
	"privaterooms/internal/config"
	"privaterooms/internal/domain"
)

const commandPrefix = "!"

// command is the parsed form of a control-channel message.
type command struct {
	name string // canonical name, aliases already folded
	rest string // everything after the command word, trimmed
}

// aliases maps every accepted spelling to the canonical command name.
var aliases = map[string]string{
	"open":             "open",
	"unlock":           "open",
	"close":            "close",
	"lock":             "close",
	"invite":           "invite",
	"add":              "invite",
	"uninvite":         "uninvite",
	"remove":           "uninvite",
	"kick":             "uninvite",
	"rename":           "rename",
	"delete":           "delete",
	"join":             "join",
	"transfer":         "transfer",
	"message":          "message",
	"generate_message": "message",
}

// parseCommand recognizes a prefix command, case-insensitively. ok is
// false for plain chatter and unknown commands.
func parseCommand(content string) (command, bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, commandPrefix) {
		return command{}, false
	}
	word, rest, _ := strings.Cut(content[len(commandPrefix):], " ")
	name, ok := aliases[strings.ToLower(word)]
	if !ok {
		return command{}, false
	}
	return command{name: name, rest: strings.TrimSpace(rest)}, true
}

// CommandRouter is the text front end: it watches the control channel,
// deletes the invoking message, and dispatches to the controller.
type CommandRouter struct {
	ctx  context.Context
	ctrl *app.Controller
	cfg  *config.Config
}

func NewCommandRouter(ctx context.Context, ctrl *app.Controller, cfg *config.Config) *CommandRouter {
	return &CommandRouter{ctx: ctx, ctrl: ctrl, cfg: cfg}
}

// HandleMessageCreate is registered on the session. Each event arrives
// on its own goroutine, so blocking handlers (join waits up to two
// minutes) do not stall the gateway.
func (r *CommandRouter) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.ChannelID != r.cfg.ControlChannelID {
		return
	}
	if m.Author == nil || m.Author.Bot {
		return
	}
	cmd, ok := parseCommand(m.Content)
	if !ok {
		return
	}

	// The invoking message goes away regardless of the outcome.
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		log.Debug().Err(err).Str("module", "adapters.discord").Msg("command message delete failed")
	}

	actor := domain.UserID(m.Author.ID)
	var target domain.UserID
	if len(m.Mentions) > 0 {
		target = domain.UserID(m.Mentions[0].ID)
	}

	var err error
	switch cmd.name {
	case "open":
		err = r.ctrl.Open(r.ctx, actor)
	case "close":
		err = r.ctrl.Close(r.ctx, actor)
	case "invite":
		if target == "" {
			return
		}
		err = r.ctrl.Invite(r.ctx, actor, target)
	case "uninvite":
		if target == "" {
			return
		}
		err = r.ctrl.Uninvite(r.ctx, actor, target)
	case "rename":
		err = r.ctrl.Rename(r.ctx, actor, cmd.rest)
	case "delete":
		err = r.ctrl.Delete(r.ctx, actor)
	case "join":
		if target == "" {
			return
		}
		err = r.ctrl.Join(r.ctx, actor, target)
	case "transfer":
		if target == "" {
			return
		}
		err = r.ctrl.Transfer(r.ctx, actor, target)
	case "message":
		err = r.ctrl.PostHelp(r.ctx, actor)
	}

	if err == nil {
		return
	}
	logger := log.With().
		Str("module", "adapters.discord").
		Str("command", cmd.name).
		Str("actor", string(actor)).
		Logger()
	if app.IsPrecondition(err) {
		logger.Debug().Err(err).Msg("command rejected")
		return
	}
	logger.Warn().Err(err).Msg("command failed")
}

// HandleVoiceStateUpdate forwards entry-channel joins to the
// controller. Moving between two non-entry channels is ignored.
func (r *CommandRouter) HandleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.ChannelID != r.cfg.EntryChannelID {
		return
	}
	if v.BeforeUpdate != nil && v.BeforeUpdate.ChannelID == r.cfg.EntryChannelID {
		return
	}
	if err := r.ctrl.HandleEntryJoin(r.ctx, domain.UserID(v.UserID)); err != nil {
		log.Warn().Err(err).Str("module", "adapters.discord").Str("member", v.UserID).Msg("entry join handling failed")
	}
}
