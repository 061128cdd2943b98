package belief

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

// Report is one publicly reported divination: who said it, about whom,
// and the verdict. Reports from different speakers may contradict each
// other; they are recorded as heard, never reconciled.
type Report struct {
	Reporter string
	Target   string
	Verdict  protocol.Species
}

// Model is the belief state one agent accumulates during a match. The
// claim/black/white sets and the report log persist until the next
// match; VoteDeclarations is ephemeral and cleared every day.
type Model struct {
	// SeerClaims holds agents who have publicly claimed the seer role.
	SeerClaims map[string]struct{}
	// Black holds agents reported as werewolf by any divination.
	Black map[string]struct{}
	// White holds agents reported as human by any divination.
	White map[string]struct{}
	// Reports is the ordered log of divination reports as heard.
	Reports []Report
	// VoteDeclarations maps speaker to declared vote target for the
	// current day. Last declaration wins.
	VoteDeclarations map[string]string

	cursor int
	log    *logrus.Entry
}

// NewModel creates an empty belief model. The log entry may be nil,
// in which case analyzer debug notes are discarded.
func NewModel(log *logrus.Entry) *Model {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Model{
		SeerClaims:       make(map[string]struct{}),
		Black:            make(map[string]struct{}),
		White:            make(map[string]struct{}),
		VoteDeclarations: make(map[string]string),
		log:              log,
	}
}

// ResetDaily clears the ephemeral per-day state. The persistent claim,
// black and white sets and the report log are untouched, and the read
// cursor is never rewound: utterances already analyzed stay consumed.
func (m *Model) ResetDaily() {
	m.VoteDeclarations = make(map[string]string)
}

// Cursor returns how many public utterances have been analyzed so far.
func (m *Model) Cursor() int {
	return m.cursor
}
