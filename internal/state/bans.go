package state

import "fmt"

// BanRecord is one banned identity with its reason
type BanRecord struct {
	Identity
	Reason string
}

// matches applies the ban rule: nick OR ident is enough.
// Two users sharing a nick therefore share a ban.
func (b BanRecord) matches(id Identity) bool {
	return b.Nick == id.Nick || b.Ident == id.Ident
}

// Bans holds ban records in insertion order
type Bans struct {
	records []BanRecord
	act     Actions
}

// NewBans creates an empty ban registry
func NewBans(act Actions) *Bans {
	return &Bans{act: act}
}

// IsBanned reports whether any record matches id by nick or ident
func (b *Bans) IsBanned(id Identity) bool {
	return b.index(id) >= 0
}

// Reason returns the reason of the first record matching id
func (b *Bans) Reason(id Identity) (string, bool) {
	i := b.index(id)
	if i < 0 {
		return "", false
	}
	return b.records[i].Reason, true
}

// Ban records id and kicks it. Already banned identities are left alone.
func (b *Bans) Ban(id Identity, reason string) bool {
	if b.IsBanned(id) {
		return false
	}
	b.records = append(b.records, BanRecord{Identity: id, Reason: reason})
	if !id.Private() {
		b.act.Kick(id, reason)
	}
	return true
}

// Unban drops the first record matching id and confirms in id's channel
func (b *Bans) Unban(id Identity) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.records = append(b.records[:i], b.records[i+1:]...)
	b.act.Say(id.Channel, fmt.Sprintf("* Unbanned %s", id.Nick))
	return true
}

// Len returns the number of ban records
func (b *Bans) Len() int {
	return len(b.records)
}

// lookup finds a banned identity by exact nick and channel
func (b *Bans) lookup(nick, channel string) (Identity, bool) {
	for _, r := range b.records {
		if r.Nick == nick && r.Channel == channel {
			return r.Identity, true
		}
	}
	return Identity{}, false
}

func (b *Bans) index(id Identity) int {
	for i, r := range b.records {
		if r.matches(id) {
			return i
		}
	}
	return -1
}
