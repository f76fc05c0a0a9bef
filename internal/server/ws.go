package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/raysh454/phishguard/internal/app"
	"github.com/raysh454/phishguard/internal/logging"
)

const (
	wsWriteWait = 10 * time.Second

	// wsPingPeriod keeps an attached session from being reaped as idle.
	wsPingPeriod = 30 * time.Second
)

// handleSessionWS streams a session's events. The current snapshot is sent
// first. When the client goes away the session is abandoned, as when the
// scanner view is left.
func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.orchestrator.GetSession(id)
	if err != nil {
		s.fail(w, "getting session", err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err})
		return
	}
	defer conn.Close()

	// Reader loop: only control frames are expected. Any read error means
	// the client is gone.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(v any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(v)
	}

	if err := write(sess.Snapshot()); err != nil {
		s.abandonQuietly(id)
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	events := sess.Events()
	for {
		select {
		case <-ping.C:
			sess.Touch()
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				s.abandonQuietly(id)
				return
			}
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(wsWriteWait))
				return
			}
			sess.Touch()
			if err := write(ev); err != nil {
				s.abandonQuietly(id)
				return
			}
		case <-gone:
			s.abandonQuietly(id)
			return
		}
	}
}

func (s *Server) abandonQuietly(id string) {
	if err := s.orchestrator.AbandonSession(id); err != nil && !errors.Is(err, app.ErrSessionNotFound) {
		s.logger.Warn("abandoning session", logging.Field{Key: "session_id", Value: id}, logging.Field{Key: "error", Value: err})
		return
	}
	s.logger.Debug("websocket client left", logging.Field{Key: "session_id", Value: id})
}
