package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"privaterooms/internal/adapters/discord"
	router "privaterooms/internal/adapters/http"
	"privaterooms/internal/app"
	"privaterooms/internal/config"
	"privaterooms/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open ledger")
	}
	defer st.Close()

	denylist, err := app.LoadDenylist(cfg.DenylistPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load denylist")
	}
	if err := denylist.Watch(cfg.DenylistPath); err != nil {
		log.Warn().Err(err).Msg("denylist watch unavailable, edits need a restart")
	}
	defer denylist.Close()

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessageReactions

	platform := discord.NewAdapter(session, cfg)
	ctrl := app.NewController(cfg, st, platform, app.DefaultMessages(), denylist)
	cmds := discord.NewCommandRouter(ctx, ctrl, cfg)

	session.AddHandler(cmds.HandleMessageCreate)
	session.AddHandler(cmds.HandleVoiceStateUpdate)
	session.AddHandler(platform.HandleReactionAdd)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		if err := s.UpdateGameStatus(0, "Monitoring private rooms"); err != nil {
			log.Warn().Err(err).Msg("presence update failed")
		}
		log.Info().Str("user", r.User.Username).Str("guild", cfg.GuildID).Msg("connected")
	})

	if err := session.Open(); err != nil {
		log.Fatal().Err(err).Msg("failed to open gateway connection")
	}
	defer session.Close()

	go ctrl.RunSweep(ctx)

	srv := &http.Server{
		Addr:    cfg.StatusAddr,
		Handler: router.SetupRouter(ctx, cfg, st),
	}
	go func() {
		log.Info().Str("addr", cfg.StatusAddr).Msg("status server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("status server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Exited gracefully")
}
