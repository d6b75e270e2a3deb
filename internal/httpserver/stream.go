// internal/httpserver/stream.go
//
// Websocket play: GET /game/{id}/stream.
// The client sends fire / line messages; the server plays the resolution one
// step at a time, pausing STEP_DELAY between steps so the client can animate.
//
// Frames (server → client):
//   {type:"state", state}       on connect and after every settled move
//   {type:"fired", at}          slot the shot attached to
//   {type:"step", events}       one resolution step
//   {type:"line", events}       a requested new line
//   {type:"error", error}       refused move; the session is unchanged
//
// Notes:
//   - "?format=msgpack" switches server frames to binary msgpack. Client messages
//     may be text JSON or binary msgpack either way.
//   - A started resolution always runs to completion, even if the client goes
//     away mid-way, so the session is never left busy.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/robalobadob/bubbles/internal/game"
)

const (
	msgFire = "fire"
	msgLine = "line"
)

// clientMsg is one client → server message.
type clientMsg struct {
	Type string `json:"type" msgpack:"type"`
	fireReq
}

// frame is one server → client message.
type frame struct {
	Type   string       `json:"type"             msgpack:"type"`
	At     *game.Pos    `json:"at,omitempty"     msgpack:"at,omitempty"`
	Events []game.Event `json:"events,omitempty" msgpack:"events,omitempty"`
	State  *game.State  `json:"state,omitempty"  msgpack:"state,omitempty"`
	Error  string       `json:"error,omitempty"  msgpack:"error,omitempty"`
}

// streamConn encodes frames in the format the client asked for.
type streamConn struct {
	conn   *websocket.Conn
	binary bool
}

func (c *streamConn) send(f frame) error {
	if !c.binary {
		return c.conn.WriteJSON(f)
	}
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

// read returns the next client message. Only connection failures are errors;
// an undecodable message comes back with an empty Type.
func (c *streamConn) read() (clientMsg, error) {
	var msg clientMsg
	mt, data, err := c.conn.ReadMessage()
	if err != nil {
		return msg, err
	}
	if mt == websocket.BinaryMessage {
		err = msgpack.Unmarshal(data, &msg)
	} else {
		err = json.Unmarshal(data, &msg)
	}
	if err != nil {
		return clientMsg{}, nil
	}
	return msg, nil
}

// checkOrigin accepts same-origin tools (no Origin header) and the client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.cfg.ClientOrigin
}

// handleStream upgrades the connection and serves moves until the client leaves.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	up := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("websocket upgrade")
		return
	}
	defer conn.Close()
	c := &streamConn{conn: conn, binary: r.URL.Query().Get("format") == "msgpack"}

	if err := c.send(s.stateFrame(sess)); err != nil {
		return
	}
	for {
		msg, err := c.read()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("gameId", sess.ID).Msg("stream closed")
			}
			return
		}
		if err := s.play(c, sess, msg); err != nil {
			return
		}
	}
}

// play applies one client message and streams its outcome.
func (s *Server) play(c *streamConn, sess *game.Session, msg clientMsg) error {
	sess.Lock()
	switch msg.Type {
	case msgFire:
		at, err := msg.fire(sess)
		sess.Unlock()
		if err != nil {
			_, code := engineError(err)
			return c.send(frame{Type: "error", Error: code})
		}
		return s.resolve(c, sess, at)
	case msgLine:
		evs, err := sess.AddLine()
		sess.Unlock()
		if err != nil {
			_, code := engineError(err)
			return c.send(frame{Type: "error", Error: code})
		}
		if err := c.send(frame{Type: "line", Events: evs}); err != nil {
			return err
		}
		return c.send(s.stateFrame(sess))
	default:
		sess.Unlock()
		return c.send(frame{Type: "error", Error: "bad_message"})
	}
}

// resolve steps the running resolution to completion, pacing the steps.
// Write failures stop the frames, not the resolution.
func (s *Server) resolve(c *streamConn, sess *game.Session, at game.Pos) error {
	werr := c.send(frame{Type: "fired", At: &at})
	for {
		sess.Lock()
		evs, done := sess.Step()
		sess.Unlock()

		if werr == nil && len(evs) > 0 {
			werr = c.send(frame{Type: "step", Events: evs})
		}
		if done {
			break
		}
		if werr == nil && len(evs) > 0 && s.cfg.Game.StepDelay > 0 {
			time.Sleep(s.cfg.Game.StepDelay)
		}
	}
	if werr != nil {
		return werr
	}
	return c.send(s.stateFrame(sess))
}

func (s *Server) stateFrame(sess *game.Session) frame {
	sess.Lock()
	st := sess.Snapshot()
	sess.Unlock()
	return frame{Type: "state", State: &st}
}
