// internal/httpserver/server.go
//
// HTTP server wiring for the bubble merge game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", POST /game/new, GET /leaderboard.
//   - Session endpoints (token required): GET /game/{id}, POST /game/{id}/fire,
//     POST /game/{id}/line, POST /game/{id}/finish, GET /game/{id}/stream.
//   - Score ledger writes for finished runs.
//
// Notes:
//   - Sessions live in the in-memory store; each request locks the session it works on.
//   - The websocket stream is registered outside the request timeout.

package httpserver

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bubbles/internal/config"
	"github.com/robalobadob/bubbles/internal/daily"
	"github.com/robalobadob/bubbles/internal/game"
	"github.com/robalobadob/bubbles/internal/store"
)

const maxPlayerName = 24

// Ledger records finished runs and serves leaderboards.
type Ledger interface {
	AlreadyPlayed(ctx context.Context, player, mode, date string) (bool, error)
	InsertResult(ctx context.Context, r daily.Result) (bool, error)
	Leaderboard(ctx context.Context, mode, date string, limit int) ([]daily.Result, error)
}

// Server bundles router, session store and score ledger.
type Server struct {
	r      *chi.Mux
	cfg    config.Config
	store  store.Store
	ledger Ledger
	tokens tokens
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, ledger Ledger) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		store:  st,
		ledger: ledger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	s.tokens = tokens{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, now: func() time.Time { return s.now() }}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"bubbles","endpoints":["/health","POST /game/new","/game/{id}","/leaderboard"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		r.Post("/game/new", s.handleNewGame)
		s.mountLeaderboard(r)

		r.Route("/game/{id}", func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleState)
			r.Post("/fire", s.handleFire)
			r.Post("/line", s.handleLine)
			r.Post("/finish", s.handleFinish)
		})
	})

	// long-lived; no request timeout
	s.r.With(s.requireSession).Get("/game/{id}/stream", s.handleStream)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]string{"error": "not_found", "path": r.URL.Path})
		http.Error(w, string(body), http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single client origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode   string `json:"mode"`   // "classic" | "daily"
	Player string `json:"player"` // display name for the leaderboard
}
type newGameRes struct {
	GameID    string     `json:"gameId"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	State     game.State `json:"state"`
}

// handleNewGame builds a session, stores it, and hands out its token.
// Daily sessions share the day's seed; a named player gets one daily run per day.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = game.ModeClassic
	}
	player := strings.TrimSpace(req.Player)
	if len(player) > maxPlayerName {
		http.Error(w, `{"error":"player name too long"}`, http.StatusBadRequest)
		return
	}
	if player == "" {
		player = "guest"
	}

	var seed int64
	switch mode {
	case game.ModeClassic:
		seed = randomSeed()
	case game.ModeDaily:
		if played, err := s.dailyPlayed(r.Context(), player); err != nil {
			log.Warn().Err(err).Str("player", player).Msg("check daily ledger")
		} else if played {
			http.Error(w, `{"error":"already_played"}`, http.StatusConflict)
			return
		}
		seed = s.dailySeed()
	default:
		http.Error(w, `{"error":"unknown mode"}`, http.StatusBadRequest)
		return
	}

	sess, err := game.NewSession(s.cfg.Game, mode, seed)
	if err != nil {
		log.Error().Err(err).Msg("new session")
		http.Error(w, `{"error":"bad_config"}`, http.StatusInternalServerError)
		return
	}
	sess.Player = player
	sess.Created = s.now()
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("gameId", sess.ID).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	tok, exp, err := s.tokens.sign(sess.ID, mode, s.now())
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("gameId", sess.ID).Str("mode", mode).Int64("seed", seed).Msg("game started")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: sess.ID, Token: tok, ExpiresAt: exp, State: sess.Snapshot()})
}

// handleState returns the session snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	st := sess.Snapshot()
	sess.Unlock()
	_ = json.NewEncoder(w).Encode(st)
}

// fireReq is either a direct slot {row, col} or a hit cell plus the shot's
// world position {hitRow, hitCol, x, y}.
type fireReq struct {
	Row    *int     `json:"row" msgpack:"row"`
	Col    *int     `json:"col" msgpack:"col"`
	HitRow *int     `json:"hitRow" msgpack:"hitRow"`
	HitCol *int     `json:"hitCol" msgpack:"hitCol"`
	X      *float64 `json:"x" msgpack:"x"`
	Y      *float64 `json:"y" msgpack:"y"`
}

var errBadFire = errors.New("fire needs row/col or hitRow/hitCol/x/y")

// fire attaches the loaded shot and returns the slot used. The caller holds the
// session lock.
func (req fireReq) fire(sess *game.Session) (game.Pos, error) {
	switch {
	case req.Row != nil && req.Col != nil:
		return game.Pos{Row: *req.Row, Col: *req.Col}, sess.Fire(*req.Row, *req.Col)
	case req.HitRow != nil && req.HitCol != nil && req.X != nil && req.Y != nil:
		return sess.FireNear(*req.HitRow, *req.HitCol, *req.X, *req.Y)
	}
	return game.Pos{}, errBadFire
}

type fireRes struct {
	At    game.Pos       `json:"at"`
	Steps [][]game.Event `json:"steps"`
	State game.State     `json:"state"`
}

// handleFire fires the loaded shot and runs the whole resolution.
func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	var req fireReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	at, err := req.fire(sess)
	if err != nil {
		status, code := engineError(err)
		http.Error(w, `{"error":"`+code+`"}`, status)
		return
	}
	steps := sess.Resolve()
	_ = json.NewEncoder(w).Encode(fireRes{At: at, Steps: steps, State: sess.Snapshot()})
}

type lineRes struct {
	Events []game.Event `json:"events"`
	State  game.State   `json:"state"`
}

// handleLine inserts a new top row on request.
func (s *Server) handleLine(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	evs, err := sess.AddLine()
	if err != nil {
		status, code := engineError(err)
		http.Error(w, `{"error":"`+code+`"}`, status)
		return
	}
	_ = json.NewEncoder(w).Encode(lineRes{Events: evs, State: sess.Snapshot()})
}

type finishRes struct {
	Recorded bool         `json:"recorded"`
	Result   daily.Result `json:"result"`
}

// handleFinish writes the run to the ledger and drops the session.
func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	if sess.Busy() {
		sess.Unlock()
		http.Error(w, `{"error":"busy"}`, http.StatusConflict)
		return
	}
	st := sess.Snapshot()
	created := sess.Created
	sess.Unlock()

	res := daily.Result{
		SessionID: st.ID,
		Player:    st.Player,
		Mode:      st.Mode,
		Date:      daily.DateKey(created),
		Score:     st.Score,
		Level:     st.Level,
		BestCombo: st.BestCombo,
		Perfects:  st.Perfects,
	}
	ok, err := s.ledger.InsertResult(r.Context(), res)
	if err != nil {
		log.Warn().Err(err).Str("gameId", st.ID).Msg("insert result")
		http.Error(w, `{"error":"ledger_failed"}`, http.StatusInternalServerError)
		return
	}
	if err := s.store.Delete(r.Context(), st.ID); err != nil {
		log.Warn().Err(err).Str("gameId", st.ID).Msg("delete session")
	}
	log.Info().Str("gameId", st.ID).Int("score", st.Score).Msg("game finished")
	_ = json.NewEncoder(w).Encode(finishRes{Recorded: ok, Result: res})
}

// engineError maps a refused engine operation to a status and error code.
func engineError(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, game.ErrOccupied):
		return http.StatusConflict, "occupied"
	case errors.Is(err, game.ErrOutOfBounds):
		return http.StatusBadRequest, "out_of_bounds"
	case errors.Is(err, game.ErrBadType):
		return http.StatusBadRequest, "bad_type"
	case errors.Is(err, game.ErrNoSlot):
		return http.StatusUnprocessableEntity, "no_slot"
	case errors.Is(err, errBadFire):
		return http.StatusBadRequest, "bad_fire"
	}
	return http.StatusInternalServerError, "internal"
}

// randomSeed seeds a classic game from crypto/rand.
func randomSeed() int64 {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return int64(binary.BigEndian.Uint64(b[:]) &^ (1 << 63))
}
