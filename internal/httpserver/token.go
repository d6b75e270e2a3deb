// internal/httpserver/token.go
//
// Session tokens.
// A token is an HS256 JWT carrying the session ID in its "sid" claim. It is
// handed out by POST /game/new and required on every /game/{id} route.
//
// Notes:
//   - Tokens travel as "Authorization: Bearer <token>" or, for websocket clients
//     that cannot set headers, as "?token=<token>".
//   - A valid token for another session is refused with 403.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/bubbles/internal/game"
)

var errNoSID = errors.New("token has no sid claim")

// tokens signs and verifies session tokens.
// Expiry is checked against now, the same clock sign stamps from.
type tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// sign creates an HS256 JWT for session sid.
func (t tokens) sign(sid, mode string, now time.Time) (string, time.Time, error) {
	exp := now.Add(t.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":  sid,
		"mode": mode,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := tok.SignedString(t.secret)
	return ss, exp, err
}

// verify checks signature and expiry and returns the session ID.
func (t tokens) verify(raw string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", err
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errNoSID
	}
	return sid, nil
}

// bearerOrQuery extracts a token from the Authorization header or the token
// query parameter.
func bearerOrQuery(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}

// ctxSessionKey is the context key type for the authorised *game.Session.
type ctxSessionKey struct{}

// requireSession enforces a valid token for the {id} in the path and injects the
// session into the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerOrQuery(r)
		if raw == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		sid, err := s.tokens.verify(raw)
		if err != nil {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		if sid != chi.URLParam(r, "id") {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}
		sess, err := s.store.Get(r.Context(), sid)
		if err != nil {
			http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session placed in ctx by requireSession.
func sessionFrom(ctx context.Context) *game.Session {
	sess, _ := ctx.Value(ctxSessionKey{}).(*game.Session)
	return sess
}
