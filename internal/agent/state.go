package agent

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ytnobody/aiwolf-agent/internal/belief"
	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

// TalkSource produces one candidate filler line. Implementations may
// block (e.g. an LLM call), so they take a context.
type TalkSource interface {
	Line(ctx context.Context) (string, error)
}

// State is the per-match session state shared by the dispatcher and
// the role strategies. It is single-writer: exactly one handler runs
// per agent instance at a time, so no locking is needed.
type State struct {
	// Name is the identity this agent announces on a NAME request.
	Name string
	// Role is the role assigned at INITIALIZE.
	Role protocol.Role

	Request        protocol.Request
	Info           *protocol.Info
	Setting        *protocol.Setting
	TalkHistory    []protocol.Talk
	WhisperHistory []protocol.Talk

	Beliefs *belief.Model

	// Corpus holds the filler utterances; may be empty.
	Corpus []string
	// LLM is an optional filler source tried before the corpus.
	LLM TalkSource

	RNG *rand.Rand
	Log *logrus.Entry
}

// MergePacket folds an inbound packet into the session state. On
// INITIALIZE the utterance histories and the belief model are replaced
// wholesale; otherwise new utterances are appended to the two
// append-only sequences.
func (s *State) MergePacket(p protocol.Packet) {
	s.Request = p.Request
	if p.Info != nil {
		s.Info = p.Info
	}
	if p.Setting != nil {
		s.Setting = p.Setting
	}
	if p.Request == protocol.RequestInitialize {
		s.TalkHistory = nil
		s.WhisperHistory = nil
		s.Beliefs = belief.NewModel(s.Log)
		if s.Info != nil {
			s.Role = s.Info.RoleMap[s.Info.Agent]
		}
	}
	s.TalkHistory = append(s.TalkHistory, p.TalkHistory...)
	s.WhisperHistory = append(s.WhisperHistory, p.WhisperHistory...)
}

// Self returns the server-assigned identity once known, falling back
// to the announced name before the first INITIALIZE.
func (s *State) Self() string {
	if s.Info != nil && s.Info.Agent != "" {
		return s.Info.Agent
	}
	return s.Name
}

// Day returns the current in-game day, or -1 before the first
// snapshot arrives.
func (s *State) Day() int {
	if s.Info == nil {
		return -1
	}
	return s.Info.Day
}

// AliveAgents returns the currently alive agents in sorted order.
// Sorting makes selection deterministic for a given random source.
func (s *State) AliveAgents() []string {
	if s.Info == nil {
		return nil
	}
	var alive []string
	for name, status := range s.Info.StatusMap {
		if status == protocol.StatusAlive {
			alive = append(alive, name)
		}
	}
	sort.Strings(alive)
	return alive
}

// Analyze runs one analyzer pass over the unread public utterances.
func (s *State) Analyze() {
	s.Beliefs.Analyze(s.TalkHistory, s.Self())
}

// choice picks one element uniformly at random. Empty input yields "".
func choice(rng *rand.Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rng.IntN(len(items))]
}

// without filters items, dropping any element present in excluded.
func without(items []string, excluded map[string]struct{}) []string {
	var kept []string
	for _, it := range items {
		if _, ok := excluded[it]; !ok {
			kept = append(kept, it)
		}
	}
	return kept
}

// exclude filters items, dropping the single name given.
func exclude(items []string, name string) []string {
	var kept []string
	for _, it := range items {
		if it != name {
			kept = append(kept, it)
		}
	}
	return kept
}
