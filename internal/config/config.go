package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Agent  AgentConfig  `toml:"agent"`
	LLM    *LLMConfig   `toml:"llm,omitempty"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	// URL is the websocket endpoint of the game server.
	URL string `toml:"url"`
	// Team is the team name sent as part of each agent's identity.
	Team string `toml:"team"`
	// AgentCount is how many concurrent agent sessions to open against
	// the server. Defaults to 1.
	AgentCount int `toml:"agent_count"`
	// DialAttempts is how many times to retry the initial websocket
	// dial before giving up. Defaults to 3.
	DialAttempts int `toml:"dial_attempts"`
	// DialWaitSeconds is the base wait between dial attempts; the wait
	// doubles after each failure. Defaults to 2 seconds.
	DialWaitSeconds int `toml:"dial_wait_seconds"`
}

type AgentConfig struct {
	// RandomTalk is the path to the filler utterance corpus, one line
	// per candidate utterance. A missing or empty corpus is tolerated:
	// talk falls back to a sentinel and logs a warning.
	RandomTalk string `toml:"random_talk"`
	// KillOnTimeout enables best-effort cancellation of a handler that
	// overruns its action deadline. When false (the default), an
	// overrunning handler is abandoned and its eventual result
	// discarded.
	KillOnTimeout bool `toml:"kill_on_timeout"`
	// ActionTimeoutMillis overrides the action deadline sent by the
	// server. 0 (the default) uses the server's setting; the server
	// sending 0 as well means no deadline is enforced.
	ActionTimeoutMillis int `toml:"action_timeout_ms"`
	// TranscriptDir, when set, enables a per-game transcript file of
	// all talks and whispers the agent perceives.
	TranscriptDir string `toml:"transcript_dir,omitempty"`
}

// ActionTimeout returns the configured deadline override as a
// duration; 0 means defer to the server's setting.
func (a AgentConfig) ActionTimeout() time.Duration {
	return time.Duration(a.ActionTimeoutMillis) * time.Millisecond
}

// LLMConfig enables the optional Gemini-backed filler source. When the
// section is absent, talk lines come from the corpus only.
type LLMConfig struct {
	Model string `toml:"model"`
	// RPM is the requests-per-minute budget shared by all agents of
	// this process. Defaults to 10.
	RPM int `toml:"rpm"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `toml:"level"`
	// Format is text or json. Defaults to text.
	Format string `toml:"format"`
	// Dir, when set, writes one log file per game in addition to
	// stderr, named after the game id.
	Dir string `toml:"dir,omitempty"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.AgentCount == 0 {
		cfg.Server.AgentCount = 1
	}
	if cfg.Server.DialAttempts == 0 {
		cfg.Server.DialAttempts = 3
	}
	if cfg.Server.DialWaitSeconds == 0 {
		cfg.Server.DialWaitSeconds = 2
	}
	if cfg.Agent.RandomTalk == "" {
		cfg.Agent.RandomTalk = "random_talk.txt"
	}
	if cfg.LLM != nil && cfg.LLM.RPM == 0 {
		cfg.LLM.RPM = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	if cfg.Server.Team == "" {
		return fmt.Errorf("server.team is required")
	}
	if cfg.Server.AgentCount < 1 {
		return fmt.Errorf("server.agent_count must be at least 1")
	}
	if cfg.LLM != nil && cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required when the [llm] section is present")
	}
	return nil
}
