package irc

import (
	"fmt"
	"strings"

	"github.com/lightbot/lightbot/internal/state"
)

/*
Event handlers. Every handler runs on the read loop.

- PING: answer PONG with the same token, then try to join if we are not in
  the channel yet. Runs in every state.
- MODE on ourselves: the server has finished registering us; join.
- PRIVMSG: note the sender (users already in the channel before we joined
  are only discovered this way), then dispatch the text as a command.
  CTCP VERSION gets a NOTICE with build information instead.
- JOIN: our own join marks the channel joined. Anyone else is tracked,
  kicked if banned, opped if privileged, and greeted.
- PART / KICK: our own departure forgets everyone in that channel and
  sends us back to waiting for a join. Anyone else is forgotten and
  waved off.
- 433 (nick in use): try the alternate nick, then keep appending '_'.
- NICK on ourselves: follow the rename so queries and self-detection
  still work.
*/

func (c *Client) onPing(ev Event) {
	c.sender.SendRaw("PONG :" + ev.Payload)
	c.joinChannel()
}

func (c *Client) onSelfMode() {
	c.joinChannel()
}

func (c *Client) onNickInUse(rejected string) {
	next := c.cfg.Alternate
	if next == "" || strings.EqualFold(rejected, next) {
		next = rejected + "_"
	}
	c.log.Warn().Str("nick", rejected).Str("next", next).Msg("nick in use, switching")
	c.classifier.SetNick(next)
	c.sender.SendRaw("NICK " + next)
}

func (c *Client) onNick(nick string) {
	c.log.Info().Str("from", c.classifier.Nick()).Str("to", nick).Msg("nick changed")
	c.classifier.SetNick(nick)
}

func (c *Client) onPrivmsg(ev Event) {
	c.state.Users.Upsert(ev.Actor)
	if ev.Payload == ctcpVersion {
		c.onCtcpVersion(ev.Actor)
		return
	}
	c.dispatcher.Dispatch(ev.Actor, ev.Payload)
}

const ctcpVersion = "\x01VERSION\x01"

func (c *Client) onCtcpVersion(id state.Identity) {
	reply := fmt.Sprintf("lightbot %s (built %s, commit %s)", Version, BuildDate, GitCommit)
	c.sender.SendRaw(fmt.Sprintf("NOTICE %s :\x01VERSION %s\x01", id.Nick, reply))
}

func (c *Client) onJoin(ev Event) {
	id := ev.Actor
	if c.isSelf(id.Nick) {
		if c.isChannel(id.Channel) {
			c.log.Info().Str("channel", id.Channel).Msg("joined")
			c.setStatus(Joined)
		}
		return
	}

	c.state.Users.Upsert(id)

	if rule, ok := c.privileges.Match(id); ok {
		if rule.OnJoin != nil {
			rule.OnJoin(id)
		}
		// Operators were already opped by Upsert
		if !rule.Operator() && rule.Capability != "" {
			c.Mode(id, rule.Capability)
		}
	}

	if c.cfg.Welcome != "" && !c.state.Bans.IsBanned(id) {
		c.highlight(id, c.cfg.Welcome)
	}
}

func (c *Client) onPart(id state.Identity) {
	if c.isSelf(id.Nick) {
		c.leftChannel(id.Channel)
		return
	}

	c.state.Users.Remove(id)

	if rule, ok := c.privileges.Match(id); ok && rule.OnPart != nil {
		rule.OnPart(id)
	}

	if c.cfg.Farewell != "" {
		c.highlight(id, c.cfg.Farewell)
	}
}

// onKick treats the kicked user as if they had parted. The KICK line only
// carries the victim's nick, so the full identity comes from the registry.
func (c *Client) onKick(ev Event) {
	channel := ev.Actor.Channel
	if c.isSelf(ev.Subject) {
		c.leftChannel(channel)
		return
	}

	id, ok := c.state.Users.Find(ev.Subject, channel)
	if !ok {
		return
	}
	c.onPart(id)
}

func (c *Client) leftChannel(channel string) {
	removed := c.state.Users.RemoveChannel(channel)
	c.log.Info().Str("channel", channel).Int("forgotten", removed).Msg("left channel")
	if c.isChannel(channel) && c.status == Joined {
		c.setStatus(AwaitingJoin)
	}
}

// scope moves a private query into the tracked channel so moderation
// commands sent by private message still act on the channel
func (c *Client) scope(id state.Identity) state.Identity {
	if id.Private() {
		id.Channel = c.channel
	}
	return id
}
