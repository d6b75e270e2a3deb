// internal/httpserver/routes_daily.go
//
// Daily challenge helpers and the leaderboard route.
//   - GET /leaderboard?mode=&date=&limit= → best finished runs, highest score first.
//
// Every daily session started on the same UTC day shares one seed derived from
// the date and DAILY_SALT, so all players face the same pool and shots.
// A named player may record one daily run per day.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/bubbles/internal/daily"
	"github.com/robalobadob/bubbles/internal/game"
)

// mountLeaderboard registers GET /leaderboard.
func (s *Server) mountLeaderboard(r chi.Router) {
	r.Get("/leaderboard", s.handleLeaderboard)
}

// dailySeed is today's shared seed.
func (s *Server) dailySeed() int64 {
	return daily.Seed(s.now(), s.cfg.DailySalt)
}

// dailyPlayed reports whether player already recorded today's daily run.
// Guests may replay.
func (s *Server) dailyPlayed(ctx context.Context, player string) (bool, error) {
	if player == "guest" {
		return false, nil
	}
	return s.ledger.AlreadyPlayed(ctx, player, game.ModeDaily, daily.DateKey(s.now()))
}

// lbRes is returned by /leaderboard.
type lbRes struct {
	Mode string         `json:"mode"`
	Date string         `json:"date,omitempty"`
	Top  []daily.Result `json:"top"`
}

// handleLeaderboard returns the leaderboard of a mode. Daily boards default to
// today; classic boards span every day unless a date is given.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("mode")
	if mode == "" {
		mode = game.ModeClassic
	}
	if mode != game.ModeClassic && mode != game.ModeDaily {
		http.Error(w, `{"error":"unknown mode"}`, http.StatusBadRequest)
		return
	}
	date := q.Get("date")
	if date == "" && mode == game.ModeDaily {
		date = daily.DateKey(s.now())
	}
	limit := daily.DefaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			http.Error(w, `{"error":"bad limit"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}

	rows, err := s.ledger.Leaderboard(r.Context(), mode, date, limit)
	if err != nil {
		http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Mode: mode, Date: date, Top: rows})
}
