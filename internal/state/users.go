package state

const bannedReason = "You are banned"

// Users tracks who is currently present. Lookups are linear scans over
// an insertion-ordered slice; switch to a map keyed by (nick, channel)
// if channels get large.
type Users struct {
	members []Identity
	bans    *Bans
	auth    Authorizer
	act     Actions
}

// NewUsers creates an empty membership registry
func NewUsers(bans *Bans, auth Authorizer, act Actions) *Users {
	return &Users{bans: bans, auth: auth, act: act}
}

// Upsert records a sighting of id. Banned identities are kicked whether
// or not they were already known; a newly inserted privileged identity
// is given operator status. Returns true when a record was added.
func (u *Users) Upsert(id Identity) bool {
	if !id.Private() && u.bans.IsBanned(id) {
		u.act.Kick(id, bannedReason)
	}
	if u.index(id) >= 0 {
		return false
	}
	u.members = append(u.members, id)

	if !id.Private() && u.auth.IsPrivileged(id) {
		u.act.Mode(id, "+o")
	}
	return true
}

// Remove deletes the record for id, if any
func (u *Users) Remove(id Identity) bool {
	i := u.index(id)
	if i < 0 {
		return false
	}
	u.members = append(u.members[:i], u.members[i+1:]...)
	return true
}

// RemoveChannel purges every record scoped to channel and returns how
// many were dropped
func (u *Users) RemoveChannel(channel string) int {
	kept := u.members[:0]
	for _, m := range u.members {
		if m.Channel != channel {
			kept = append(kept, m)
		}
	}
	removed := len(u.members) - len(kept)
	for i := len(kept); i < len(u.members); i++ {
		u.members[i] = Identity{}
	}
	u.members = kept
	return removed
}

// Find resolves nick in channel, falling back to ban records so banned
// users stay addressable by moderation commands
func (u *Users) Find(nick, channel string) (Identity, bool) {
	for _, m := range u.members {
		if m.Nick == nick && m.Channel == channel {
			return m, true
		}
	}
	return u.bans.lookup(nick, channel)
}

// Len returns the number of membership records
func (u *Users) Len() int {
	return len(u.members)
}

// Members returns the identities currently present in channel
func (u *Users) Members(channel string) []Identity {
	var out []Identity
	for _, m := range u.members {
		if m.Channel == channel {
			out = append(out, m)
		}
	}
	return out
}

func (u *Users) index(id Identity) int {
	for i, m := range u.members {
		if m == id {
			return i
		}
	}
	return -1
}
