package agent

import (
	"context"
	"fmt"

	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

// Sentinel returned by talk/whisper when no filler line is available.
// It doubles as the protocol's end-of-statements token, so the server
// treats it as a pass.
const talkSentinel = "Over"

// Strategy is one role's decision policy. The dispatcher selects the
// method matching the request kind; every method reads the shared
// State and the variant's own private memory only.
type Strategy interface {
	Name() string
	Talk(ctx context.Context) string
	Whisper(ctx context.Context) string
	Vote() string
	Divine() string
	Guard() string
	Attack() string
	Initialize()
	DailyInitialize()
	DailyFinish()
	Finish()
}

// NewStrategy returns the decision policy for a role. Roles without a
// specialized policy (possessed, unknown) get the base one.
func NewStrategy(role protocol.Role, st *State) Strategy {
	switch role {
	case protocol.RoleSeer:
		return newSeer(st)
	case protocol.RoleVillager:
		return newVillager(st)
	case protocol.RoleWerewolf:
		return &werewolf{base{st: st}}
	case protocol.RoleMedium:
		return &medium{villager{base{st: st}}}
	case protocol.RoleBodyguard:
		return &bodyguard{villager{base{st: st}}}
	default:
		return &base{st: st}
	}
}

// base is the fallback policy used when a role has no specialized
// behavior. Role variants embed it and override single methods.
type base struct {
	st *State
}

func (b *base) Name() string {
	return b.st.Name
}

// Talk returns a greeting on day 0 and a filler line afterwards. An
// empty corpus (and no usable LLM line) yields the sentinel.
func (b *base) Talk(ctx context.Context) string {
	if b.st.Info != nil && b.st.Info.Day == 0 {
		return fmt.Sprintf("Hello, I am %s. Nice to meet you.", b.st.Self())
	}
	return b.fillerLine(ctx)
}

func (b *base) Whisper(ctx context.Context) string {
	return b.fillerLine(ctx)
}

func (b *base) fillerLine(ctx context.Context) string {
	if b.st.LLM != nil {
		line, err := b.st.LLM.Line(ctx)
		if err == nil && line != "" {
			return line
		}
		if err != nil {
			b.st.Log.WithError(err).Warn("llm filler source failed, falling back to corpus")
		}
	}
	if len(b.st.Corpus) == 0 {
		b.st.Log.Warn("filler corpus is empty, returning sentinel")
		return talkSentinel
	}
	return choice(b.st.RNG, b.st.Corpus)
}

// Divine, Guard and Attack sample the full alive roster. Self is not
// filtered out; role variants that care override.
func (b *base) Divine() string {
	return choice(b.st.RNG, b.st.AliveAgents())
}

func (b *base) Guard() string {
	return choice(b.st.RNG, b.st.AliveAgents())
}

func (b *base) Attack() string {
	return choice(b.st.RNG, b.st.AliveAgents())
}

// Vote picks a random alive agent other than self, or self when no
// other candidate is alive.
func (b *base) Vote() string {
	b.st.Analyze()
	candidates := exclude(b.st.AliveAgents(), b.st.Self())
	if len(candidates) == 0 {
		b.st.Log.Warn("no vote candidate besides self")
		return b.st.Self()
	}
	return choice(b.st.RNG, candidates)
}

func (b *base) Initialize() {}

// DailyInitialize clears the ephemeral per-day state and analyzes any
// utterances that arrived overnight, so the day's first talk or vote
// decision sees an up-to-date belief model.
func (b *base) DailyInitialize() {
	b.st.Beliefs.ResetDaily()
	b.st.Analyze()
}

func (b *base) DailyFinish() {}

func (b *base) Finish() {}
