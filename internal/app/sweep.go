package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"privaterooms/internal/domain"
)

// RunSweep reaps empty rooms and purges stale control-channel messages
// until ctx is cancelled. One pass per tick; passes never overlap.
func (c *Controller) RunSweep(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.SweepInterval)
	defer ticker.Stop()

	log.Info().Str("module", "app.sweep").Dur("interval", c.cfg.SweepInterval).Msg("sweep started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.sweep").Msg("sweep stopped")
			return
		case <-ticker.C:
			c.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs a single pass: delete every empty voice channel
// in the managed category (entry channel excepted) with its ledger
// rows, then purge non-bot messages from the control channel.
func (c *Controller) SweepOnce(ctx context.Context) {
	channels, err := c.platform.CategoryVoiceChannels(ctx)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.sweep").Msg("category listing failed")
		return
	}

	for _, channel := range channels {
		if string(channel) == c.cfg.EntryChannelID {
			continue
		}
		c.reapIfEmpty(ctx, channel)
	}

	if err := c.platform.PurgeControl(ctx, c.cfg.PurgeLimit); err != nil {
		log.Debug().Err(err).Str("module", "app.sweep").Msg("control purge failed")
	}
}

func (c *Controller) reapIfEmpty(ctx context.Context, channel domain.ChannelID) {
	unlock := c.locks.lock(string(channel))
	defer unlock()

	members, err := c.platform.ConnectedMembers(ctx, channel)
	if err != nil {
		log.Debug().Err(err).Str("module", "app.sweep").Str("room", string(channel)).Msg("member listing failed")
		return
	}
	if len(members) > 0 {
		return
	}

	// DeleteRoom cascades the invitation rows in the same transaction.
	// A channel with no ledger row (already reaped, or never tracked)
	// still gets deleted from the platform.
	if err := c.ledger.DeleteRoom(ctx, channel); err != nil {
		log.Warn().Err(err).Str("module", "app.sweep").Str("room", string(channel)).Msg("ledger delete failed, channel kept")
		return
	}
	if err := c.platform.DeleteChannel(ctx, channel, "Empty channel"); err != nil {
		log.Warn().Err(err).Str("module", "app.sweep").Str("room", string(channel)).Msg("channel delete failed")
		return
	}
	log.Info().Str("module", "app.sweep").Str("room", string(channel)).Msg("reaped empty room")
}
