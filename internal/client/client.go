// Package client runs agent sessions against the game server over a
// websocket connection.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ytnobody/aiwolf-agent/internal/agent"
	"github.com/ytnobody/aiwolf-agent/internal/config"
	"github.com/ytnobody/aiwolf-agent/internal/logging"
	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

// Session is one agent's connection lifecycle: dial with retry, then a
// read-dispatch-write loop until the server closes or ctx is cancelled.
type Session struct {
	// ID distinguishes this session in logs when several run at once.
	ID uuid.UUID

	cfg    *config.Config
	agent  *agent.Agent
	logger *logging.SessionLogger
	log    *logrus.Entry

	// responseTimeout bounds each reply write; set from the match
	// settings at INITIALIZE. 0 leaves writes unbounded.
	responseTimeout time.Duration
}

// NewSession builds a session around a fresh agent. name is the
// identity announced to the server.
func NewSession(cfg *config.Config, name string, a *agent.Agent, logger *logging.SessionLogger) *Session {
	return &Session{
		ID:     uuid.New(),
		cfg:    cfg,
		agent:  a,
		logger: logger,
		log:    logger.Entry().WithField("session", name),
	}
}

// Run dials the server and serves packets until the connection closes.
// A server-initiated close after FINISH is a normal return.
func (s *Session) Run(ctx context.Context) error {
	conn, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer s.logger.Close()

	// Unblock the read loop on cancellation.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	s.log.WithField("url", s.cfg.Server.URL).Info("connected")
	return s.serve(ctx, conn)
}

// dial attempts the websocket handshake with exponential backoff.
func (s *Session) dial(ctx context.Context) (*websocket.Conn, error) {
	wait := time.Duration(s.cfg.Server.DialWaitSeconds) * time.Second
	var lastErr error
	for attempt := 1; attempt <= s.cfg.Server.DialAttempts; attempt++ {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.cfg.Server.URL, nil)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		s.log.WithError(err).Warnf("dial failed (attempt %d/%d), retrying in %v",
			attempt, s.cfg.Server.DialAttempts, wait)

		select {
		case <-time.After(wait):
			wait *= 2
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("dial %s: %w", s.cfg.Server.URL, lastErr)
}

func (s *Session) serve(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Info("server closed the connection")
				return nil
			}
			return fmt.Errorf("read packet: %w", err)
		}

		var p protocol.Packet
		if err := json.Unmarshal(data, &p); err != nil {
			s.log.WithError(err).Warn("dropping unparseable packet")
			continue
		}

		if p.Request == protocol.RequestInitialize {
			if p.Setting != nil {
				s.responseTimeout = time.Duration(p.Setting.Timeout.Response) * time.Millisecond
			}
			if p.Info != nil && p.Info.GameID != "" {
				s.beginGame(p.Info.GameID)
			}
		}

		result, ok, err := s.agent.HandlePacket(ctx, p)
		if err != nil {
			return fmt.Errorf("handle %s: %w", p.Request, err)
		}
		if !ok {
			// The handler overran its deadline; the server has moved on.
			continue
		}
		if !p.Request.ExpectsResponse() {
			if p.Request == protocol.RequestFinish {
				s.logger.Close()
			}
			continue
		}

		if s.responseTimeout > 0 {
			conn.SetWriteDeadline(time.Now().Add(s.responseTimeout))
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(result)); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

// beginGame switches logging and the transcript over to the new game.
func (s *Session) beginGame(gameID string) {
	entry, err := s.logger.BeginGame(gameID)
	if err != nil {
		s.log.WithError(err).Warn("per-game log unavailable")
	} else {
		s.log = entry.WithField("session", s.agent.Name())
		s.agent.SetLog(s.log)
	}

	if dir := s.cfg.Agent.TranscriptDir; dir != "" {
		tr, err := agent.NewTranscript(dir, gameID)
		if err != nil {
			s.log.WithError(err).Warn("transcript unavailable")
			return
		}
		s.agent.SetTranscript(tr)
	}
}
