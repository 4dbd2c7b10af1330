// Package http exposes a small read-only status API for operators.
package http

import (
	"context"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"privaterooms/internal/config"
	"privaterooms/internal/store"
)

// SetupRouter builds the status engine: a liveness probe and a ledger
// snapshot. No mutation endpoints exist; everything stateful goes
// through Discord commands.
func SetupRouter(ctx context.Context, cfg *config.Config, st *store.Store) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/rooms", func(c *gin.Context) {
		rooms, err := st.Rooms(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("room snapshot failed")
			c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		type roomView struct {
			ID       string `json:"id"`
			OwnerID  string `json:"owner_id"`
			Open     bool   `json:"open"`
			Invitees int    `json:"invitees"`
		}
		out := make([]roomView, 0, len(rooms))
		for _, room := range rooms {
			out = append(out, roomView{
				ID:       string(room.ID),
				OwnerID:  string(room.OwnerID),
				Open:     room.Open,
				Invitees: room.Invitees,
			})
		}
		c.JSON(nethttp.StatusOK, gin.H{"rooms": out, "count": len(out)})
	})

	log.Info().Str("module", "adapters.http").Str("addr", cfg.StatusAddr).Msg("status router setup")
	return r
}
