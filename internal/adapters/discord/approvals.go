package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"privaterooms/internal/app"
	"privaterooms/internal/domain"
)

const (
	emojiApprove = "👍"
	emojiDeny    = "👎"
)

// approvals tracks outstanding yes/no prompts, keyed by the DM message
// id. HandleReactionAdd resolves a prompt when the right user reacts
// with one of the two emojis.
type approvals struct {
	mu      sync.Mutex
	pending map[string]pendingApproval
}

type pendingApproval struct {
	userID string
	result chan bool
}

func newApprovals() *approvals {
	return &approvals{pending: make(map[string]pendingApproval)}
}

func (a *approvals) add(messageID, userID string) chan bool {
	result := make(chan bool, 1)
	a.mu.Lock()
	a.pending[messageID] = pendingApproval{userID: userID, result: result}
	a.mu.Unlock()
	return result
}

func (a *approvals) remove(messageID string) {
	a.mu.Lock()
	delete(a.pending, messageID)
	a.mu.Unlock()
}

func (a *approvals) resolve(messageID, userID, emoji string) {
	a.mu.Lock()
	p, ok := a.pending[messageID]
	a.mu.Unlock()
	if !ok || p.userID != userID {
		return
	}
	switch emoji {
	case emojiApprove:
		p.result <- true
	case emojiDeny:
		p.result <- false
	}
}

// RequestApproval DMs target the prompt with 👍/👎 reactions and waits
// for the target's reaction. The timeout and ctx cancellation both
// read as "denied" with a nil error.
func (a *Adapter) RequestApproval(ctx context.Context, target domain.UserID, embed app.Embed, timeout time.Duration) (bool, error) {
	dm, err := a.session.UserChannelCreate(string(target), discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("discord: open dm: %w", err)
	}
	msg, err := a.session.ChannelMessageSendEmbed(dm.ID, toMessageEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("discord: approval prompt: %w", err)
	}
	defer func() {
		if derr := a.session.ChannelMessageDelete(dm.ID, msg.ID); derr != nil {
			log.Debug().Err(derr).Str("module", "adapters.discord").Msg("prompt cleanup failed")
		}
	}()

	for _, emoji := range []string{emojiApprove, emojiDeny} {
		if err := a.session.MessageReactionAdd(dm.ID, msg.ID, emoji, discordgo.WithContext(ctx)); err != nil {
			return false, fmt.Errorf("discord: seed reaction: %w", err)
		}
	}

	result := a.approvals.add(msg.ID, string(target))
	defer a.approvals.remove(msg.ID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case approved := <-result:
		return approved, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, nil
	}
}

// HandleReactionAdd is registered on the session and feeds pending
// approval prompts. Reactions from anyone but the prompted user, and
// the bot's own seed reactions, are ignored.
func (a *Adapter) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	a.approvals.resolve(r.MessageID, r.UserID, r.Emoji.Name)
}
