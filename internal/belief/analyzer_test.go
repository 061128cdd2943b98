package belief

import (
	"testing"

	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

func talk(idx int, agent, text string) protocol.Talk {
	return protocol.Talk{Idx: idx, Agent: agent, Text: text}
}

func TestAnalyzeGrammarExtraction(t *testing.T) {
	m := NewModel(nil)
	talks := []protocol.Talk{
		talk(0, "Alice", "COMINGOUT Alice SEER"),
		talk(1, "Alice", "DIVINED Bob WEREWOLF"),
		talk(2, "Dan", "VOTE Carol"),
		talk(3, "Erin", "DIVINED Carol HUMAN"),
	}

	m.Analyze(talks, "me")

	if _, ok := m.SeerClaims["Alice"]; !ok {
		t.Error("Alice should be in the seer-claim set")
	}
	if _, ok := m.Black["Bob"]; !ok {
		t.Error("Bob should be in the black set")
	}
	if _, ok := m.White["Carol"]; !ok {
		t.Error("Carol should be in the white set")
	}
	if got := m.VoteDeclarations["Dan"]; got != "Carol" {
		t.Errorf("vote declaration for Dan = %q, want Carol", got)
	}
	if len(m.Reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(m.Reports))
	}
	want := Report{Reporter: "Alice", Target: "Bob", Verdict: protocol.SpeciesWerewolf}
	if m.Reports[0] != want {
		t.Errorf("first report = %+v, want %+v", m.Reports[0], want)
	}
}

func TestAnalyzeIdempotence(t *testing.T) {
	m := NewModel(nil)
	talks := []protocol.Talk{
		talk(0, "Alice", "DIVINED Bob WEREWOLF"),
		talk(1, "Dan", "VOTE Carol"),
	}

	m.Analyze(talks, "me")
	reports := len(m.Reports)
	cursor := m.Cursor()

	// Second pass with no new utterances must change nothing.
	m.Analyze(talks, "me")

	if len(m.Reports) != reports {
		t.Errorf("report log grew from %d to %d on a no-op pass", reports, len(m.Reports))
	}
	if m.Cursor() != cursor {
		t.Errorf("cursor moved from %d to %d on a no-op pass", cursor, m.Cursor())
	}
	if len(m.Black) != 1 || len(m.VoteDeclarations) != 1 {
		t.Error("belief sets changed on a no-op pass")
	}
}

func TestAnalyzeCursorInvariant(t *testing.T) {
	m := NewModel(nil)
	talks := []protocol.Talk{
		talk(0, "Alice", "hello"),
		talk(1, "Bob", "VOTE Alice"),
	}

	m.Analyze(talks, "me")
	if m.Cursor() != len(talks) {
		t.Fatalf("cursor = %d, want %d", m.Cursor(), len(talks))
	}

	talks = append(talks, talk(2, "Carol", "DIVINED Bob HUMAN"))
	m.Analyze(talks, "me")
	if m.Cursor() != len(talks) {
		t.Fatalf("cursor = %d after incremental pass, want %d", m.Cursor(), len(talks))
	}
	if _, ok := m.White["Bob"]; !ok {
		t.Error("incremental pass missed the new utterance")
	}
}

func TestAnalyzeSelfExclusion(t *testing.T) {
	m := NewModel(nil)
	talks := []protocol.Talk{
		talk(0, "me", "COMINGOUT me SEER"),
		talk(1, "me", "DIVINED Bob WEREWOLF"),
		talk(2, "me", "VOTE Carol"),
	}

	m.Analyze(talks, "me")

	if len(m.SeerClaims) != 0 || len(m.Black) != 0 || len(m.Reports) != 0 || len(m.VoteDeclarations) != 0 {
		t.Error("own utterances must not mutate belief sets")
	}
	if m.Cursor() != len(talks) {
		t.Errorf("cursor = %d, want %d: own utterances still count as consumed", m.Cursor(), len(talks))
	}
}

func TestAnalyzeLastVoteDeclarationWins(t *testing.T) {
	m := NewModel(nil)
	talks := []protocol.Talk{
		talk(0, "Dan", "VOTE Carol"),
		talk(1, "Dan", "VOTE Bob"),
	}

	m.Analyze(talks, "me")

	if got := m.VoteDeclarations["Dan"]; got != "Bob" {
		t.Errorf("vote declaration for Dan = %q, want Bob (last writer wins)", got)
	}
}

func TestAnalyzeContradictoryReportsTolerated(t *testing.T) {
	m := NewModel(nil)
	talks := []protocol.Talk{
		talk(0, "Alice", "DIVINED Bob WEREWOLF"),
		talk(1, "Erin", "DIVINED Bob HUMAN"),
	}

	m.Analyze(talks, "me")

	// Two speakers may legitimately disagree; both sets keep Bob.
	if _, ok := m.Black["Bob"]; !ok {
		t.Error("Bob missing from black set")
	}
	if _, ok := m.White["Bob"]; !ok {
		t.Error("Bob missing from white set")
	}
	if len(m.Reports) != 2 {
		t.Errorf("got %d reports, want both contradictory reports kept", len(m.Reports))
	}
}

func TestResetDaily(t *testing.T) {
	m := NewModel(nil)
	talks := []protocol.Talk{
		talk(0, "Alice", "COMINGOUT Alice SEER"),
		talk(1, "Alice", "DIVINED Bob WEREWOLF"),
		talk(2, "Dan", "VOTE Carol"),
	}
	m.Analyze(talks, "me")

	m.ResetDaily()

	if len(m.VoteDeclarations) != 0 {
		t.Error("vote declarations should be cleared by the daily reset")
	}
	if len(m.SeerClaims) != 1 || len(m.Black) != 1 || len(m.Reports) != 1 {
		t.Error("persistent belief sets must survive the daily reset")
	}
	if m.Cursor() != len(talks) {
		t.Error("daily reset must not rewind the read cursor")
	}

	// The next day's talks extend the same sequence; analysis resumes
	// from the cursor without re-reading day-one utterances.
	talks = append(talks, talk(3, "Erin", "VOTE Alice"))
	m.Analyze(talks, "me")
	if len(m.Reports) != 1 {
		t.Error("day-one report was re-read after the daily reset")
	}
	if got := m.VoteDeclarations["Erin"]; got != "Alice" {
		t.Errorf("vote declaration for Erin = %q, want Alice", got)
	}
}

func TestAnalyzeMalformedUtterancesSkipped(t *testing.T) {
	m := NewModel(nil)
	talks := []protocol.Talk{
		talk(0, "Alice", "DIVINED Bob"),
		talk(1, "Bob", "VOTE"),
		talk(2, "Carol", ""),
		talk(3, "Dan", "COMINGOUT SEER"),
	}

	m.Analyze(talks, "me")

	if len(m.SeerClaims) != 0 || len(m.Black) != 0 || len(m.White) != 0 ||
		len(m.Reports) != 0 || len(m.VoteDeclarations) != 0 {
		t.Error("malformed utterances must be ignored")
	}
	if m.Cursor() != len(talks) {
		t.Errorf("cursor = %d, want %d", m.Cursor(), len(talks))
	}
}
