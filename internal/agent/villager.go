package agent

// villager trusts public divination reports when voting; everything
// else follows the base policy.
type villager struct {
	base
}

func newVillager(st *State) *villager {
	return &villager{base{st: st}}
}

// Vote picks, in order: a black-judged alive agent, a gray alive agent
// (not white-judged), any alive agent besides self, then self. Each
// tier is sampled uniformly.
func (v *villager) Vote() string {
	v.st.Analyze()

	self := v.st.Self()
	alive := exclude(v.st.AliveAgents(), self)

	var black []string
	for _, a := range alive {
		if _, ok := v.st.Beliefs.Black[a]; ok {
			black = append(black, a)
		}
	}
	if len(black) > 0 {
		target := choice(v.st.RNG, black)
		v.st.Log.WithField("target", target).Info("voting for a black-judged agent")
		return target
	}

	gray := without(alive, v.st.Beliefs.White)
	if len(gray) > 0 {
		return choice(v.st.RNG, gray)
	}

	if len(alive) > 0 {
		return choice(v.st.RNG, alive)
	}

	v.st.Log.Warn("no vote candidate besides self")
	return self
}
