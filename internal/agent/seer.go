package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

// seer carries the only role-private memory in the system: its own
// nightly verdicts, the werewolves it has personally confirmed, and
// which days it has already reported aloud.
type seer struct {
	base
	claimed    bool
	results    map[int]protocol.Judge
	werewolves map[string]struct{}
	reported   map[int]struct{}
}

func newSeer(st *State) *seer {
	return &seer{
		base:       base{st: st},
		results:    make(map[int]protocol.Judge),
		werewolves: make(map[string]struct{}),
		reported:   make(map[int]struct{}),
	}
}

// DailyInitialize records the verdict for the just-completed night
// after the base daily reset.
func (s *seer) DailyInitialize() {
	s.base.DailyInitialize()
	if s.st.Info == nil || s.st.Info.DivineResult == nil {
		return
	}
	j := *s.st.Info.DivineResult
	s.results[j.Day] = j
	if j.Result == protocol.SpeciesWerewolf {
		s.werewolves[j.Target] = struct{}{}
		s.st.Log.WithField("target", j.Target).Info("confirmed a werewolf")
	}
}

// Talk claims the seer role on day 1, then reports one unreported
// verdict per talk turn, then falls back to filler.
func (s *seer) Talk(ctx context.Context) string {
	if s.st.Day() == 1 && !s.claimed {
		s.claimed = true
		return fmt.Sprintf("COMINGOUT %s %s", s.st.Self(), protocol.RoleSeer)
	}

	days := make([]int, 0, len(s.results))
	for day := range s.results {
		days = append(days, day)
	}
	sort.Ints(days)
	for _, day := range days {
		if _, done := s.reported[day]; done {
			continue
		}
		s.reported[day] = struct{}{}
		j := s.results[day]
		return fmt.Sprintf("DIVINED %s %s", j.Target, j.Result)
	}

	return s.base.Talk(ctx)
}

// Divine never re-divines a target while an undivined candidate is
// alive.
func (s *seer) Divine() string {
	divined := make(map[string]struct{}, len(s.results))
	for _, j := range s.results {
		divined[j.Target] = struct{}{}
	}

	others := exclude(s.st.AliveAgents(), s.st.Self())
	if fresh := without(others, divined); len(fresh) > 0 {
		return choice(s.st.RNG, fresh)
	}
	if len(others) > 0 {
		return choice(s.st.RNG, others)
	}
	return s.base.Divine()
}

// Vote prefers agents it has personally confirmed (or that anyone has
// black-judged), then its own gray set, then any alive agent, then
// self.
func (s *seer) Vote() string {
	s.st.Analyze()

	self := s.st.Self()
	alive := exclude(s.st.AliveAgents(), self)

	var suspects []string
	for _, a := range alive {
		if _, ok := s.werewolves[a]; ok {
			suspects = append(suspects, a)
			continue
		}
		if _, ok := s.st.Beliefs.Black[a]; ok {
			suspects = append(suspects, a)
		}
	}
	if len(suspects) > 0 {
		target := choice(s.st.RNG, suspects)
		s.st.Log.WithField("target", target).Info("voting for a suspected werewolf")
		return target
	}

	// Gray from this seer's own knowledge: not personally verdicted
	// human.
	human := make(map[string]struct{})
	for _, j := range s.results {
		if j.Result == protocol.SpeciesHuman {
			human[j.Target] = struct{}{}
		}
	}
	if gray := without(alive, human); len(gray) > 0 {
		return choice(s.st.RNG, gray)
	}

	if len(alive) > 0 {
		return choice(s.st.RNG, alive)
	}

	s.st.Log.Warn("no vote candidate besides self")
	return self
}
