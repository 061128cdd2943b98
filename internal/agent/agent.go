package agent

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytnobody/aiwolf-agent/internal/belief"
	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

// Agent is one player instance for one connection: session state, the
// active role strategy, and the deadline supervisor around it. It is
// not safe for concurrent use; the transport layer issues one request
// at a time.
type Agent struct {
	state      *State
	strategy   Strategy
	supervisor *Supervisor
	transcript *Transcript

	// actionTimeout overrides the server-sent action budget when >0.
	actionTimeout time.Duration
}

// Options configures a new Agent. Zero values are usable: a nil RNG is
// seeded from the clock, a nil Log discards everything.
type Options struct {
	Name          string
	Corpus        []string
	LLM           TalkSource
	RNG           *rand.Rand
	Log           *logrus.Entry
	KillOnTimeout bool
	ActionTimeout time.Duration
	Transcript    *Transcript
}

func New(opts Options) *Agent {
	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}

	st := &State{
		Name:   opts.Name,
		Corpus: opts.Corpus,
		LLM:    opts.LLM,
		RNG:    rng,
		Log:    log,
	}
	st.Beliefs = belief.NewModel(log)

	return &Agent{
		state: st,
		// Before the first INITIALIZE only NAME arrives; the base
		// policy answers it.
		strategy:      NewStrategy("", st),
		supervisor:    &Supervisor{KillOnTimeout: opts.KillOnTimeout, Log: log},
		transcript:    opts.Transcript,
		actionTimeout: opts.ActionTimeout,
	}
}

// Name returns the identity this agent announces.
func (a *Agent) Name() string {
	return a.state.Name
}

// SetLog retargets the agent's logging, typically when a game id
// becomes known at INITIALIZE.
func (a *Agent) SetLog(log *logrus.Entry) {
	a.state.Log = log
	a.supervisor.Log = log
}

// SetTranscript swaps in a per-game transcript once the game id is
// known. nil disables recording.
func (a *Agent) SetTranscript(t *Transcript) {
	a.transcript = t
}

// HandlePacket merges the packet into the session state and dispatches
// the request to the active strategy under the deadline supervisor.
//
// ok is false when the handler overran its deadline and was abandoned;
// the transport should send nothing in that case. result is "" for
// lifecycle and unknown request kinds, which expect no response.
func (a *Agent) HandlePacket(ctx context.Context, p protocol.Packet) (result string, ok bool, err error) {
	a.state.MergePacket(p)
	a.record(p)
	return a.supervisor.Run(ctx, a.deadline(), a.dispatch)
}

// dispatch routes the current request kind to exactly one strategy
// method. Unknown kinds are a no-op, never an error.
func (a *Agent) dispatch(ctx context.Context) (string, error) {
	switch a.state.Request {
	case protocol.RequestName:
		return a.strategy.Name(), nil
	case protocol.RequestTalk:
		return a.strategy.Talk(ctx), nil
	case protocol.RequestWhisper:
		return a.strategy.Whisper(ctx), nil
	case protocol.RequestVote:
		return a.strategy.Vote(), nil
	case protocol.RequestDivine:
		return a.strategy.Divine(), nil
	case protocol.RequestGuard:
		return a.strategy.Guard(), nil
	case protocol.RequestAttack:
		return a.strategy.Attack(), nil
	case protocol.RequestInitialize:
		// The role is only known now; swap in its policy with fresh
		// private memory.
		a.strategy = NewStrategy(a.state.Role, a.state)
		a.strategy.Initialize()
		a.state.Log.WithField("role", a.state.Role).Info("match initialized")
	case protocol.RequestDailyInitialize:
		a.strategy.DailyInitialize()
	case protocol.RequestDailyFinish:
		a.strategy.DailyFinish()
	case protocol.RequestFinish:
		a.strategy.Finish()
		a.state.Log.Info("match finished")
	default:
		a.state.Log.WithField("request", a.state.Request).Debug("ignoring unknown request kind")
	}
	return "", nil
}

// deadline resolves the action budget: the config override wins, then
// the server-sent setting, then no deadline at all.
func (a *Agent) deadline() time.Duration {
	if a.actionTimeout > 0 {
		return a.actionTimeout
	}
	if a.state.Setting != nil {
		return time.Duration(a.state.Setting.Timeout.Action) * time.Millisecond
	}
	return 0
}

// record appends the packet's new utterances to the game transcript,
// when one is configured.
func (a *Agent) record(p protocol.Packet) {
	if a.transcript == nil {
		return
	}
	for _, t := range p.TalkHistory {
		if err := a.transcript.Record(ChannelTalk, t.Day, t.Agent, t.Text); err != nil {
			a.state.Log.WithError(err).Warn("transcript write failed")
			return
		}
	}
	for _, t := range p.WhisperHistory {
		if err := a.transcript.Record(ChannelWhisper, t.Day, t.Agent, t.Text); err != nil {
			a.state.Log.WithError(err).Warn("transcript write failed")
			return
		}
	}
}
