package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/lightbot/lightbot/internal/state"
)

// Kind is the protocol line-kind of a classified line
type Kind int

const (
	KindUnknown Kind = iota
	KindPing
	KindPrivmsg
	KindJoin
	KindPart
	KindKick
	KindSelfMode
	KindNick
	KindNickInUse
)

var kindNames = [...]string{"unknown", "ping", "privmsg", "join", "part", "kick", "selfmode", "nick", "nickinuse"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Event is a classified inbound line
type Event struct {
	Kind    Kind
	Actor   state.Identity // who sent the line; zero for ping and selfmode
	Subject string         // nick removed by a KICK, or our new or rejected nick
	Payload string         // chat text, kick reason or ping token
}

// Classifier turns raw lines into events for one bot nick
type Classifier struct {
	nick string
}

// NewClassifier creates a classifier for the bot's nick
func NewClassifier(nick string) *Classifier {
	return &Classifier{nick: nick}
}

// SetNick updates the nick used for self-detection
func (c *Classifier) SetNick(nick string) {
	c.nick = nick
}

// Nick returns the bot's nick as the classifier sees it
func (c *Classifier) Nick() string {
	return c.nick
}

// IsSelf reports whether nick is the bot
func (c *Classifier) IsSelf(nick string) bool {
	return strings.EqualFold(nick, c.nick)
}

// Classify parses line. It returns false for anything it cannot use;
// callers drop those lines without reply.
func (c *Classifier) Classify(line string) (Event, bool) {
	msg, err := ircmsg.ParseLine(line)
	if err != nil {
		return Event{}, false
	}

	switch strings.ToUpper(msg.Command) {
	case "PING":
		if len(msg.Params) == 0 {
			return Event{}, false
		}
		return Event{Kind: KindPing, Payload: msg.Params[0]}, true

	case "PRIVMSG":
		// PRIVMSG <target> :<text>; no text means a broken line
		if len(msg.Params) < 2 {
			return Event{}, false
		}
		id, ok := c.parseIdentity(msg)
		if !ok {
			return Event{}, false
		}
		return Event{Kind: KindPrivmsg, Actor: id, Payload: msg.Params[1]}, true

	case "JOIN":
		id, ok := c.parseIdentity(msg)
		if !ok {
			return Event{}, false
		}
		return Event{Kind: KindJoin, Actor: id}, true

	case "PART":
		id, ok := c.parseIdentity(msg)
		if !ok {
			return Event{}, false
		}
		ev := Event{Kind: KindPart, Actor: id}
		if len(msg.Params) > 1 {
			ev.Payload = msg.Params[1]
		}
		return ev, true

	case "KICK":
		// KICK <channel> <victim> [:reason]
		if len(msg.Params) < 2 || msg.Params[1] == "" {
			return Event{}, false
		}
		id, ok := c.parseIdentity(msg)
		if !ok {
			return Event{}, false
		}
		ev := Event{Kind: KindKick, Actor: id, Subject: msg.Params[1]}
		if len(msg.Params) > 2 {
			ev.Payload = msg.Params[2]
		}
		return ev, true

	case "MODE":
		// The server confirming our own user modes means registration is done
		if len(msg.Params) > 0 && c.IsSelf(msg.Nick()) && c.IsSelf(msg.Params[0]) {
			return Event{Kind: KindSelfMode}, true
		}

	case "NICK":
		// Other users' renames are not tracked
		if len(msg.Params) > 0 && msg.Params[0] != "" && c.IsSelf(msg.Nick()) {
			return Event{Kind: KindNick, Subject: msg.Params[0]}, true
		}

	case "433":
		// ERR_NICKNAMEINUSE <client> <nick> :<text>
		if len(msg.Params) > 1 && msg.Params[1] != "" {
			return Event{Kind: KindNickInUse, Subject: msg.Params[1]}, true
		}
	}

	return Event{}, false
}

// parseIdentity extracts nick!ident and the channel parameter. A
// channel equal to the bot's nick is a private query and is rewritten to
// the sender's nick.
func (c *Classifier) parseIdentity(msg ircmsg.Message) (state.Identity, bool) {
	if !strings.Contains(msg.Source, "!") {
		return state.Identity{}, false
	}
	nuh, err := msg.NUH()
	if err != nil || nuh.Name == "" || nuh.User == "" {
		return state.Identity{}, false
	}
	if len(msg.Params) == 0 || msg.Params[0] == "" {
		return state.Identity{}, false
	}

	ident := strings.TrimPrefix(nuh.User, "~")
	if nuh.Host != "" {
		ident += "@" + nuh.Host
	}
	if ident == "" {
		return state.Identity{}, false
	}

	channel := msg.Params[0]
	if c.IsSelf(channel) {
		channel = nuh.Name
	}

	return state.Identity{
		Nick:    nuh.Name,
		Ident:   ident,
		Channel: channel,
	}, true
}
