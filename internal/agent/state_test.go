package agent

import (
	"testing"

	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

func TestMergePacketAppendsHistories(t *testing.T) {
	st := testState("me", "me", "Alice")

	st.MergePacket(protocol.Packet{
		Request:     protocol.RequestDailyFinish,
		TalkHistory: []protocol.Talk{{Idx: 0, Agent: "Alice", Text: "hello"}},
	})
	st.MergePacket(protocol.Packet{
		Request:     protocol.RequestDailyFinish,
		TalkHistory: []protocol.Talk{{Idx: 1, Agent: "Alice", Text: "VOTE me"}},
	})

	if len(st.TalkHistory) != 2 {
		t.Fatalf("talk history has %d entries, want 2", len(st.TalkHistory))
	}
	if st.TalkHistory[1].Text != "VOTE me" {
		t.Fatalf("second talk = %+v", st.TalkHistory[1])
	}
}

func TestMergePacketInitializeAssignsRole(t *testing.T) {
	st := testState("me", "me", "Alice")
	st.TalkHistory = []protocol.Talk{{Idx: 0, Agent: "Alice", Text: "leftover"}}

	st.MergePacket(protocol.Packet{
		Request: protocol.RequestInitialize,
		Info: &protocol.Info{
			Agent:     "me",
			RoleMap:   map[string]protocol.Role{"me": protocol.RoleSeer},
			StatusMap: map[string]protocol.Status{"me": protocol.StatusAlive},
		},
	})

	if st.Role != protocol.RoleSeer {
		t.Fatalf("role = %q, want SEER", st.Role)
	}
	if len(st.TalkHistory) != 0 {
		t.Fatal("previous match's talk history survived INITIALIZE")
	}
	if st.Beliefs.Cursor() != 0 {
		t.Fatal("belief model was not replaced at INITIALIZE")
	}
}

func TestSelfFallsBackToName(t *testing.T) {
	st := &State{Name: "kanolab"}
	if got := st.Self(); got != "kanolab" {
		t.Fatalf("Self() = %q before any Info, want the announced name", got)
	}

	st.Info = &protocol.Info{Agent: "Agent[03]"}
	if got := st.Self(); got != "Agent[03]" {
		t.Fatalf("Self() = %q, want the server-assigned identity", got)
	}
}

func TestDayBeforeFirstSnapshot(t *testing.T) {
	st := &State{}
	if got := st.Day(); got != -1 {
		t.Fatalf("Day() = %d before any Info, want -1", got)
	}
}

func TestAliveAgentsSortedAndFiltered(t *testing.T) {
	st := testState("me", "me", "Carol", "Alice", "Bob")
	st.Info.StatusMap["Bob"] = protocol.StatusDead

	got := st.AliveAgents()
	want := []string{"Alice", "Carol", "me"}
	if len(got) != len(want) {
		t.Fatalf("AliveAgents() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AliveAgents() = %v, want %v", got, want)
		}
	}
}

func TestChoiceHelpers(t *testing.T) {
	st := testState("me", "me")

	if got := choice(st.RNG, nil); got != "" {
		t.Fatalf("choice on empty input = %q, want empty", got)
	}

	items := []string{"a", "b", "c"}
	if got := without(items, map[string]struct{}{"b": {}}); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("without = %v", got)
	}
	if got := exclude(items, "a"); len(got) != 2 || got[0] != "b" {
		t.Fatalf("exclude = %v", got)
	}
}
