package protocol

import "strings"

// The talk channel embeds a small space-delimited sub-protocol. An
// utterance is recognized by its first token and its exact token
// count; everything else is plain chatter. Tokens are case-sensitive.

// MessageKind classifies a parsed utterance.
type MessageKind int

const (
	Unrecognized MessageKind = iota
	RoleClaim
	DivinationReport
	VoteDeclaration
)

// Message is the typed form of one recognized utterance.
// Only the fields relevant to the kind are populated.
type Message struct {
	Kind    MessageKind
	Claimed Role    // RoleClaim: the role claimed (only SEER is recognized)
	Target  string  // DivinationReport, VoteDeclaration
	Verdict Species // DivinationReport
}

// ParseUtterance parses one utterance into a typed Message. Malformed
// arity or unknown tokens yield Unrecognized, never an error: chatter
// is the common case on this channel.
func ParseUtterance(text string) Message {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return Message{Kind: Unrecognized}
	}

	switch parts[0] {
	case "COMINGOUT":
		// COMINGOUT <name...> SEER — names may contain spaces, so only
		// the literal trailing token is checked.
		if len(parts) >= 3 && parts[len(parts)-1] == string(RoleSeer) {
			return Message{Kind: RoleClaim, Claimed: RoleSeer}
		}
	case "DIVINED":
		if len(parts) == 3 {
			switch Species(parts[2]) {
			case SpeciesWerewolf, SpeciesHuman:
				return Message{Kind: DivinationReport, Target: parts[1], Verdict: Species(parts[2])}
			}
		}
	case "VOTE":
		if len(parts) == 2 {
			return Message{Kind: VoteDeclaration, Target: parts[1]}
		}
	}
	return Message{Kind: Unrecognized}
}
