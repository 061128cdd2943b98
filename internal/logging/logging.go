// Package logging builds the process-wide logrus setup and per-game
// log files named after the game id.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ytnobody/aiwolf-agent/internal/config"
)

// SessionLogger owns the logrus logger for one agent session. When a
// log directory is configured, BeginGame tees output into one file per
// game in addition to stderr.
type SessionLogger struct {
	logger *logrus.Logger
	dir    string
	file   *os.File
}

// New builds a SessionLogger from the log config. The agent field tags
// every line with the session's identity.
func New(cfg config.LogConfig, agentName string) (*SessionLogger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr)
	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	s := &SessionLogger{logger: logger, dir: cfg.Dir}
	s.logger.AddHook(&agentHook{name: agentName})
	return s, nil
}

// agentHook stamps every entry with the session identity so interleaved
// sessions stay distinguishable on a shared stderr.
type agentHook struct {
	name string
}

func (h *agentHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *agentHook) Fire(e *logrus.Entry) error {
	e.Data["agent"] = h.name
	return nil
}

// Entry returns the base entry for this session.
func (s *SessionLogger) Entry() *logrus.Entry {
	return logrus.NewEntry(s.logger)
}

// BeginGame starts per-game logging: the previous game file (if any)
// is closed, a new file named after the game id is opened, and the
// returned entry carries the game id. Without a configured directory
// the entry just gains the field.
func (s *SessionLogger) BeginGame(gameID string) (*logrus.Entry, error) {
	if s.dir == "" {
		return s.Entry().WithField("game_id", gameID), nil
	}

	if s.file != nil {
		s.file.Close()
		s.file = nil
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(s.dir, gameID+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open game log: %w", err)
	}
	s.file = f
	s.logger.SetOutput(io.MultiWriter(os.Stderr, f))

	return s.Entry().WithField("game_id", gameID), nil
}

// Close ends per-game logging, reverting output to stderr only.
func (s *SessionLogger) Close() error {
	if s.file == nil {
		return nil
	}
	s.logger.SetOutput(os.Stderr)
	err := s.file.Close()
	s.file = nil
	return err
}
