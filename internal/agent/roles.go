package agent

// The remaining roles have no private memory and no policy of their
// own yet: the werewolf acts on the base policy (random whisper and
// attack targets), while the medium and the bodyguard vote like a
// villager, trusting public divinations. They exist as named variants
// so role-specific behavior has an obvious place to grow.

type werewolf struct {
	base
}

type medium struct {
	villager
}

type bodyguard struct {
	villager
}
