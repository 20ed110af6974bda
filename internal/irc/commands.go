package irc

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lightbot/lightbot/internal/state"
)

// Handler runs a command for id with the text after the trigger
type Handler func(id state.Identity, args string)

// Command binds a chat trigger to a handler
type Command struct {
	Trigger    string
	Privileged bool
	Help       string
	Handler    Handler
}

// Dispatcher matches chat text against a fixed, ordered command table
type Dispatcher struct {
	commands []Command
	auth     state.Authorizer

	// OnPrivileged is told about every privileged command that runs
	OnPrivileged func(id state.Identity, command string)
}

// NewDispatcher copies the command table; it cannot change afterwards
func NewDispatcher(auth state.Authorizer, commands []Command) *Dispatcher {
	table := make([]Command, len(commands))
	copy(table, commands)
	return &Dispatcher{commands: table, auth: auth}
}

// Commands returns the command table in dispatch order
func (d *Dispatcher) Commands() []Command {
	out := make([]Command, len(d.commands))
	copy(out, d.commands)
	return out
}

// Dispatch runs the first command whose trigger prefixes payload. The
// handler gets the payload minus the trigger and one separator. Returns
// false when nothing matched; unknown commands get no reply, and neither
// do privileged commands from unprivileged users.
func (d *Dispatcher) Dispatch(id state.Identity, payload string) bool {
	for _, cmd := range d.commands {
		if !strings.HasPrefix(payload, cmd.Trigger) {
			continue
		}

		var args string
		if len(payload) > len(cmd.Trigger)+1 {
			args = payload[len(cmd.Trigger)+1:]
		}

		if cmd.Privileged {
			if !d.auth.IsPrivileged(id) {
				return true
			}
			if d.OnPrivileged != nil {
				d.OnPrivileged(id, payload)
			}
		}
		cmd.Handler(id, args)
		return true
	}
	return false
}

func (c *Client) commands() []Command {
	return []Command{
		{Trigger: "!help", Help: "List commands", Handler: c.cmdHelp},
		{Trigger: "!topic", Privileged: true, Help: "Set the channel topic", Handler: c.cmdTopic},
		{Trigger: "!test", Help: "Check that I am alive", Handler: c.cmdTest},
		{Trigger: "!kick", Privileged: true, Help: "Kick <nick> [reason]", Handler: c.cmdKick},
		{Trigger: "!unban", Privileged: true, Help: "Unban <nick> [nick...]", Handler: c.cmdUnban},
		{Trigger: "!ban", Privileged: true, Help: "Ban and kick <nick> [reason]", Handler: c.cmdBan},
		{Trigger: "!deop", Privileged: true, Help: "Take operator status from [nick...], or you", Handler: c.cmdDeop},
		{Trigger: "!op", Privileged: true, Help: "Give operator status to [nick...], or you", Handler: c.cmdOp},
	}
}

func (c *Client) cmdHelp(id state.Identity, args string) {
	c.Say(id.Nick, "Commands:")
	for _, cmd := range c.dispatcher.Commands() {
		c.Say(id.Nick, fmt.Sprintf("%s - %s", cmd.Trigger, cmd.Help))
	}
}

func (c *Client) cmdTest(id state.Identity, args string) {
	c.highlight(id, "Hello World!")
}

func (c *Client) cmdTopic(id state.Identity, args string) {
	c.topic(c.scope(id).Channel, args)
}

func (c *Client) cmdKick(id state.Identity, args string) {
	nick, reason := splitTarget(args)
	if nick == "" {
		return
	}
	if target, ok := c.state.Users.Find(nick, c.scope(id).Channel); ok {
		c.Kick(target, reason)
	}
}

func (c *Client) cmdBan(id state.Identity, args string) {
	nick, reason := splitTarget(args)
	if nick == "" {
		return
	}
	if target, ok := c.state.Users.Find(nick, c.scope(id).Channel); ok {
		c.state.Bans.Ban(target, reason)
	}
}

func (c *Client) cmdUnban(id state.Identity, args string) {
	for _, target := range c.resolve(id, args) {
		c.state.Bans.Unban(target)
	}
}

func (c *Client) cmdOp(id state.Identity, args string) {
	c.setModes(id, args, "+o")
}

func (c *Client) cmdDeop(id state.Identity, args string) {
	c.setModes(id, args, "-o")
}

// setModes applies level to every listed nick, or to the invoker when
// the list is empty
func (c *Client) setModes(id state.Identity, args, level string) {
	if strings.TrimSpace(args) == "" {
		c.Mode(c.scope(id), level)
		return
	}
	for _, target := range c.resolve(id, args) {
		c.Mode(target, level)
	}
}

// resolve looks up each whitespace-separated nick in the invoker's
// channel; nicks nobody knows are skipped
func (c *Client) resolve(id state.Identity, args string) []state.Identity {
	channel := c.scope(id).Channel
	var out []state.Identity
	for _, nick := range strings.Fields(args) {
		if target, ok := c.state.Users.Find(nick, channel); ok {
			out = append(out, target)
		}
	}
	return out
}

// splitTarget splits "<nick> <reason...>"
func splitTarget(args string) (nick, reason string) {
	args = strings.TrimLeftFunc(args, unicode.IsSpace)
	i := strings.IndexFunc(args, unicode.IsSpace)
	if i < 0 {
		return args, ""
	}
	return args[:i], strings.TrimSpace(args[i+1:])
}
