package agent

import (
	"context"
	"testing"
	"time"

	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

func initializePacket(self string, role protocol.Role, others ...string) protocol.Packet {
	status := map[string]protocol.Status{self: protocol.StatusAlive}
	roles := map[string]protocol.Role{self: role}
	for _, o := range others {
		status[o] = protocol.StatusAlive
	}
	return protocol.Packet{
		Request: protocol.RequestInitialize,
		Info: &protocol.Info{
			GameID:    "game-1",
			Day:       0,
			Agent:     self,
			StatusMap: status,
			RoleMap:   roles,
		},
		Setting: &protocol.Setting{AgentCount: len(others) + 1},
	}
}

func TestAgentAnswersName(t *testing.T) {
	a := New(Options{Name: "kanolab"})

	result, ok, err := a.HandlePacket(context.Background(), protocol.Packet{Request: protocol.RequestName})
	if err != nil {
		t.Fatalf("HandlePacket: %v", err)
	}
	if !ok || result != "kanolab" {
		t.Fatalf("got (%q, %v), want (kanolab, true)", result, ok)
	}
}

func TestAgentInitializeSelectsRolePolicy(t *testing.T) {
	a := New(Options{Name: "me"})

	result, ok, err := a.HandlePacket(context.Background(), initializePacket("me", protocol.RoleSeer, "Alice"))
	if err != nil {
		t.Fatalf("HandlePacket: %v", err)
	}
	if !ok || result != "" {
		t.Fatalf("INITIALIZE answered (%q, %v), want empty result", result, ok)
	}
	if _, isSeer := a.strategy.(*seer); !isSeer {
		t.Fatalf("strategy after INITIALIZE is %T, want *seer", a.strategy)
	}
}

func TestAgentInitializeResetsSession(t *testing.T) {
	a := New(Options{Name: "me"})

	first := initializePacket("me", protocol.RoleVillager, "Alice", "Dan")
	if _, _, err := a.HandlePacket(context.Background(), first); err != nil {
		t.Fatalf("first INITIALIZE: %v", err)
	}

	talk := protocol.Packet{
		Request:     protocol.RequestDailyInitialize,
		TalkHistory: []protocol.Talk{{Idx: 0, Agent: "Dan", Text: "DIVINED Alice WEREWOLF"}},
	}
	if _, _, err := a.HandlePacket(context.Background(), talk); err != nil {
		t.Fatalf("DAILY_INITIALIZE: %v", err)
	}
	a.state.Analyze()
	if _, ok := a.state.Beliefs.Black["Alice"]; !ok {
		t.Fatal("report was not absorbed before the reset")
	}

	// A new match on the same connection starts clean.
	if _, _, err := a.HandlePacket(context.Background(), initializePacket("me", protocol.RoleVillager, "Alice")); err != nil {
		t.Fatalf("second INITIALIZE: %v", err)
	}
	if len(a.state.TalkHistory) != 0 {
		t.Fatal("talk history survived the new match")
	}
	if _, ok := a.state.Beliefs.Black["Alice"]; ok {
		t.Fatal("belief model survived the new match")
	}
}

func TestAgentUnknownRequestIsNoOp(t *testing.T) {
	a := New(Options{Name: "me"})

	result, ok, err := a.HandlePacket(context.Background(), protocol.Packet{Request: "DANCE"})
	if err != nil {
		t.Fatalf("unknown request errored: %v", err)
	}
	if !ok || result != "" {
		t.Fatalf("got (%q, %v), want empty no-op result", result, ok)
	}
}

func TestAgentVoteAfterInitialize(t *testing.T) {
	a := New(Options{Name: "me"})
	if _, _, err := a.HandlePacket(context.Background(), initializePacket("me", protocol.RoleVillager, "Alice", "Bob")); err != nil {
		t.Fatalf("INITIALIZE: %v", err)
	}

	result, ok, err := a.HandlePacket(context.Background(), protocol.Packet{Request: protocol.RequestVote})
	if err != nil {
		t.Fatalf("VOTE: %v", err)
	}
	if !ok {
		t.Fatal("vote was abandoned")
	}
	if result != "Alice" && result != "Bob" {
		t.Fatalf("voted %q, want a living non-self agent", result)
	}
}

func TestAgentDeadlineOverrideWins(t *testing.T) {
	a := New(Options{Name: "me", ActionTimeout: 123 * time.Millisecond})
	a.state.Setting = &protocol.Setting{Timeout: protocol.Timeout{Action: 60000}}

	if got := a.deadline(); got != 123*time.Millisecond {
		t.Fatalf("deadline = %v, want the configured override", got)
	}
}

func TestAgentDeadlineFromServerSetting(t *testing.T) {
	a := New(Options{Name: "me"})
	a.state.Setting = &protocol.Setting{Timeout: protocol.Timeout{Action: 250}}

	if got := a.deadline(); got != 250*time.Millisecond {
		t.Fatalf("deadline = %v, want 250ms from the setting", got)
	}
}

func TestAgentNoDeadlineBeforeSetting(t *testing.T) {
	a := New(Options{Name: "me"})

	if got := a.deadline(); got != 0 {
		t.Fatalf("deadline = %v, want 0 before any setting arrives", got)
	}
}

func TestAgentRecordsTranscript(t *testing.T) {
	tr, err := NewTranscript(t.TempDir(), "game-1")
	if err != nil {
		t.Fatalf("NewTranscript: %v", err)
	}
	a := New(Options{Name: "me", Transcript: tr})
	if _, _, err := a.HandlePacket(context.Background(), initializePacket("me", protocol.RoleVillager, "Alice")); err != nil {
		t.Fatalf("INITIALIZE: %v", err)
	}

	p := protocol.Packet{
		Request:        protocol.RequestDailyFinish,
		TalkHistory:    []protocol.Talk{{Day: 1, Agent: "Alice", Text: "VOTE me"}},
		WhisperHistory: []protocol.Talk{{Day: 1, Agent: "Dan", Text: "hmm"}},
	}
	if _, _, err := a.HandlePacket(context.Background(), p); err != nil {
		t.Fatalf("DAILY_FINISH: %v", err)
	}

	entries, err := tr.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("recorded %d entries, want 2", len(entries))
	}
	if entries[0].Channel != ChannelTalk || entries[0].Speaker != "Alice" {
		t.Fatalf("first entry = %+v", entries[0])
	}
	if entries[1].Channel != ChannelWhisper || entries[1].Speaker != "Dan" {
		t.Fatalf("second entry = %+v", entries[1])
	}
}
