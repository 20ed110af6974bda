package state

// Identity is a protocol participant as seen in one context
type Identity struct {
	Nick    string
	Ident   string // user@host, leading ~ stripped
	Channel string // channel name, or the sender's nick for private messages
}

// Private reports whether the identity was seen in a private query
func (id Identity) Private() bool {
	return id.Channel == id.Nick
}

func (id Identity) String() string {
	return id.Nick + "!" + id.Ident + " " + id.Channel
}

// Actions is the outbound side the registries emit moderation through
type Actions interface {
	Kick(id Identity, reason string)
	Mode(id Identity, level string)
	Say(target, message string)
}

// Authorizer decides operator-equivalent capability
type Authorizer interface {
	IsPrivileged(id Identity) bool
}

// State holds the registries of one session. It is not safe for
// concurrent use; the session read loop is its only writer.
type State struct {
	Users *Users
	Bans  *Bans
}

// New creates an empty session state
func New(auth Authorizer, act Actions) *State {
	bans := NewBans(act)
	return &State{
		Users: NewUsers(bans, auth, act),
		Bans:  bans,
	}
}
