package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bubbles/assets"
	"github.com/robalobadob/bubbles/internal/config"
	"github.com/robalobadob/bubbles/internal/daily"
	"github.com/robalobadob/bubbles/internal/httpserver"
	"github.com/robalobadob/bubbles/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	mem := store.NewMemoryStore()
	go sweepSessions(context.Background(), mem, cfg.TokenTTL)

	srv := httpserver.New(cfg, mem, daily.NewStore(db))
	log.Info().Str("port", cfg.Port).Int("rows", cfg.Game.Rows).Int("cols", cfg.Game.Columns).Msg("starting bubbles server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// sweepSessions drops sessions whose token can no longer be valid.
func sweepSessions(ctx context.Context, st store.Store, ttl time.Duration) {
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Prune(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("sessions", n).Msg("pruned expired sessions")
			}
		}
	}
}
