package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// geminiSystemPrompt keeps generated lines inside the rules of the
// talk channel: one short casual line, no protocol tokens, so the
// other agents' analyzers treat it as plain chatter.
const geminiSystemPrompt = "You are a player in a werewolf-style social deduction game. " +
	"Produce exactly one short, casual discussion line in plain language. " +
	"Never start the line with COMINGOUT, DIVINED or VOTE."

// GeminiTalker is an optional filler-line source backed by the Gemini
// API, rate limited by a shared Throttle.
type GeminiTalker struct {
	client   *genai.Client
	model    string
	throttle *Throttle
}

// NewGeminiTalker wires a Gemini client as a TalkSource. throttle may
// be nil to disable rate limiting.
func NewGeminiTalker(client *genai.Client, model string, throttle *Throttle) *GeminiTalker {
	return &GeminiTalker{client: client, model: model, throttle: throttle}
}

// Line produces one candidate filler line. Any error is returned to
// the caller, which falls back to the corpus.
func (g *GeminiTalker) Line(ctx context.Context) (string, error) {
	if err := g.throttle.Wait(ctx); err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: geminiSystemPrompt}}},
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: "Say your next discussion line."}}}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	line := firstLine(extractText(resp))
	if line == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return line, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// firstLine trims a multi-line generation down to its first non-empty
// line.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
