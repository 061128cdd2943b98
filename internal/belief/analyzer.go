package belief

import (
	"github.com/ytnobody/aiwolf-agent/internal/protocol"
)

// Analyze consumes all public utterances from the read cursor to the
// end of talks and folds the recognized ones into the model. self is
// this agent's own identity; its utterances are skipped so an agent
// never feeds back its own claims. Calling Analyze again with no new
// utterances is a no-op.
//
// The pass advances the cursor to len(talks) and never rewinds, so an
// utterance is analyzed at most once per match.
func (m *Model) Analyze(talks []protocol.Talk, self string) {
	if m.cursor >= len(talks) {
		return
	}

	for _, talk := range talks[m.cursor:] {
		if talk.Agent == self {
			continue
		}

		msg := protocol.ParseUtterance(talk.Text)
		switch msg.Kind {
		case protocol.RoleClaim:
			m.SeerClaims[talk.Agent] = struct{}{}
			m.log.WithField("speaker", talk.Agent).Debug("recorded seer claim")
		case protocol.DivinationReport:
			switch msg.Verdict {
			case protocol.SpeciesWerewolf:
				m.Black[msg.Target] = struct{}{}
			case protocol.SpeciesHuman:
				m.White[msg.Target] = struct{}{}
			}
			m.Reports = append(m.Reports, Report{
				Reporter: talk.Agent,
				Target:   msg.Target,
				Verdict:  msg.Verdict,
			})
			m.log.WithFields(map[string]interface{}{
				"reporter": talk.Agent,
				"target":   msg.Target,
				"verdict":  msg.Verdict,
			}).Debug("recorded divination report")
		case protocol.VoteDeclaration:
			m.VoteDeclarations[talk.Agent] = msg.Target
			m.log.WithFields(map[string]interface{}{
				"speaker": talk.Agent,
				"target":  msg.Target,
			}).Debug("recorded vote declaration")
		default:
			// Plain chatter.
		}
	}

	m.cursor = len(talks)
}
