package protocol

// Request identifies the kind of action the game server is asking for.
type Request string

const (
	RequestName            Request = "NAME"
	RequestTalk            Request = "TALK"
	RequestWhisper         Request = "WHISPER"
	RequestVote            Request = "VOTE"
	RequestDivine          Request = "DIVINE"
	RequestGuard           Request = "GUARD"
	RequestAttack          Request = "ATTACK"
	RequestInitialize      Request = "INITIALIZE"
	RequestDailyInitialize Request = "DAILY_INITIALIZE"
	RequestDailyFinish     Request = "DAILY_FINISH"
	RequestFinish          Request = "FINISH"
)

// ExpectsResponse reports whether the server waits for a reply string
// to this request. Lifecycle requests (and unknown kinds) are
// side-effecting only.
func (r Request) ExpectsResponse() bool {
	switch r {
	case RequestName, RequestTalk, RequestWhisper, RequestVote,
		RequestDivine, RequestGuard, RequestAttack:
		return true
	}
	return false
}

// Role is a game role as assigned by the server.
type Role string

const (
	RoleVillager  Role = "VILLAGER"
	RoleSeer      Role = "SEER"
	RoleWerewolf  Role = "WEREWOLF"
	RoleMedium    Role = "MEDIUM"
	RoleBodyguard Role = "BODYGUARD"
	RolePossessed Role = "POSSESSED"
)

// Status is the liveness of an agent in the roster.
type Status string

const (
	StatusAlive Status = "ALIVE"
	StatusDead  Status = "DEAD"
)

// Species is a divination verdict.
type Species string

const (
	SpeciesWerewolf Species = "WEREWOLF"
	SpeciesHuman    Species = "HUMAN"
)

// Talk is one utterance on the public or whisper channel.
type Talk struct {
	Idx   int    `json:"idx"`
	Day   int    `json:"day"`
	Turn  int    `json:"turn"`
	Agent string `json:"agent"`
	Text  string `json:"text"`
	Skip  bool   `json:"skip"`
	Over  bool   `json:"over"`
}

// Judge is a night-action verdict about one target (divination or
// medium result).
type Judge struct {
	Day    int     `json:"day"`
	Agent  string  `json:"agent"`
	Target string  `json:"target"`
	Result Species `json:"result"`
}

// Info is the game-state snapshot attached to a packet.
type Info struct {
	GameID        string            `json:"game_id"`
	Day           int               `json:"day"`
	Agent         string            `json:"agent"`
	MediumResult  *Judge            `json:"medium_result,omitempty"`
	DivineResult  *Judge            `json:"divine_result,omitempty"`
	ExecutedAgent string            `json:"executed_agent,omitempty"`
	AttackedAgent string            `json:"attacked_agent,omitempty"`
	StatusMap     map[string]Status `json:"status_map"`
	RoleMap       map[string]Role   `json:"role_map"`
}

// Timeout holds the per-action time budgets in milliseconds.
// An Action value of 0 means no deadline is enforced.
type Timeout struct {
	Action   int `json:"action"`
	Response int `json:"response"`
}

// Setting carries the match configuration sent on INITIALIZE.
type Setting struct {
	AgentCount int     `json:"agent_count"`
	Timeout    Timeout `json:"timeout"`
}

// Packet is one inbound message from the game server.
type Packet struct {
	Request        Request  `json:"request"`
	Info           *Info    `json:"info,omitempty"`
	Setting        *Setting `json:"setting,omitempty"`
	TalkHistory    []Talk   `json:"talk_history,omitempty"`
	WhisperHistory []Talk   `json:"whisper_history,omitempty"`
}
