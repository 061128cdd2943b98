package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"google.golang.org/genai"

	"github.com/ytnobody/aiwolf-agent/internal/agent"
	"github.com/ytnobody/aiwolf-agent/internal/client"
	"github.com/ytnobody/aiwolf-agent/internal/config"
	"github.com/ytnobody/aiwolf-agent/internal/logging"
)

// version is set via ldflags at build time (e.g., -ldflags "-X main.version=v1.2.3").
var version = "dev"

const usage = `Usage: aiwolf-agent <command> [options]

Commands:
  init                      Write a starter aiwolf.toml in the current directory
  start                     Connect the configured agent sessions to the game server
  version                   Show current version
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = cmdInit()
	case "start":
		err = cmdStart()
	case "version", "--version", "-v":
		fmt.Printf("aiwolf-agent %s\n", version)
		return
	case "help", "--help", "-h":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdInit() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configPath := filepath.Join(cwd, "aiwolf.toml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	tmpl := `[server]
url = "ws://127.0.0.1:8080/ws"
team = "kanolab"
agent_count = 1

[agent]
random_talk = "random_talk.txt"
kill_on_timeout = false

[log]
level = "info"
format = "text"

# Uncomment to generate filler lines with Gemini (needs GEMINI_API_KEY).
# [llm]
# model = "gemini-2.0-flash"
# rpm = 10
`
	if err := os.WriteFile(configPath, []byte(tmpl), 0644); err != nil {
		return fmt.Errorf("create config: %w", err)
	}

	// A starter corpus so `aiwolf-agent start` works immediately after
	// init.
	corpusPath := filepath.Join(cwd, "random_talk.txt")
	if _, err := os.Stat(corpusPath); os.IsNotExist(err) {
		corpus := `Hmm, I'm not sure yet.
Who seems suspicious to you?
I have no strong read today.
Let's hear from the quiet ones.
I'll follow the majority for now.
`
		if err := os.WriteFile(corpusPath, []byte(corpus), 0644); err != nil {
			return fmt.Errorf("create corpus: %w", err)
		}
	}

	fmt.Printf("Config written to %s\n", configPath)
	return nil
}

func cmdStart() error {
	configPath := "aiwolf.toml"
	if len(os.Args) >= 3 {
		configPath = os.Args[2]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	corpus, err := agent.LoadCorpus(cfg.Agent.RandomTalk)
	if err != nil {
		// An agent without a corpus still plays; talk degrades to the
		// pass sentinel.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	llm, err := buildTalkSource(ctx, cfg)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	errCh := make(chan error, cfg.Server.AgentCount)
	for i := 1; i <= cfg.Server.AgentCount; i++ {
		name := fmt.Sprintf("%s%d", cfg.Server.Team, i)
		logger, err := logging.New(cfg.Log, name)
		if err != nil {
			return err
		}

		a := agent.New(agent.Options{
			Name:          name,
			Corpus:        corpus,
			LLM:           llm,
			Log:           logger.Entry(),
			KillOnTimeout: cfg.Agent.KillOnTimeout,
			ActionTimeout: cfg.Agent.ActionTimeout(),
		})
		s := client.NewSession(cfg, name, a, logger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("session %s: %w", name, err)
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		// Report the first failure; the rest went to the session logs.
		return err
	}
	return nil
}

// buildTalkSource wires the optional Gemini filler source with its
// shared rate limit. Returns a nil TalkSource when the [llm] section is
// absent.
func buildTalkSource(ctx context.Context, cfg *config.Config) (agent.TalkSource, error) {
	if cfg.LLM == nil {
		return nil, nil
	}
	gc, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return agent.NewGeminiTalker(gc, cfg.LLM.Model, agent.NewThrottle(cfg.LLM.RPM)), nil
}
