package irc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lightbot/lightbot/internal/config"
	"github.com/lightbot/lightbot/internal/flood"
	"github.com/lightbot/lightbot/internal/privilege"
	"github.com/lightbot/lightbot/internal/state"
	"github.com/lightbot/lightbot/internal/storage"
)

// Version information (set at build time or here)
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// ErrEndOfStream is returned by Run when the server closes the connection
var ErrEndOfStream = errors.New("end of stream")

// Status is the session's position in the connect/join lifecycle
type Status int

const (
	Connecting Status = iota
	Registered
	AwaitingJoin
	Joined
	Closed
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Registered:
		return "registered"
	case AwaitingJoin:
		return "awaiting-join"
	case Joined:
		return "joined"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Auditor records operator commands
type Auditor interface {
	Record(who, command string) error
}

// Client is one bot session: it owns the connection, feeds inbound
// lines through the classifier and reacts to them. Inbound handling runs
// on the goroutine that called Run; the registries are not locked.
type Client struct {
	cfg     *config.Config
	log     zerolog.Logger
	channel string

	conn       io.ReadWriteCloser
	sender     Sender
	limiter    *flood.Limiter
	framer     *Framer
	classifier *Classifier
	privileges *privilege.Engine
	state      *state.State
	dispatcher *Dispatcher
	audit      Auditor

	status Status
}

// NewClient creates a session from configuration. The command audit
// trail is optional; failing to open it only logs a warning.
func NewClient(cfg *config.Config, log zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:        cfg,
		log:        log,
		channel:    cfg.Channel,
		limiter:    flood.NewLimiter(cfg.Flood.Burst, cfg.Flood.Pause),
		classifier: NewClassifier(cfg.Nick),
		status:     Connecting,
	}
	c.sender = offline{log: log}

	audit, err := storage.OpenAudit(cfg.DataDir)
	if err != nil {
		log.Warn().Err(err).Msg("could not open audit log")
	} else {
		c.audit = audit
	}

	c.privileges = privilege.NewEngine(c.privilegeRules())
	c.state = state.New(c.privileges, c)
	c.dispatcher = NewDispatcher(c.privileges, c.commands())
	c.dispatcher.OnPrivileged = c.logCommand

	return c, nil
}

// privilegeRules turns the configured table into rules whose hooks greet
// the user by name
func (c *Client) privilegeRules() []privilege.Rule {
	rules := make([]privilege.Rule, 0, len(c.cfg.Privileges))
	for _, p := range c.cfg.Privileges {
		rule := privilege.Rule{
			Nick:       p.Nick,
			Ident:      p.Ident,
			Capability: p.Capability,
		}
		if greeting := p.Greeting; greeting != "" {
			rule.OnJoin = func(id state.Identity) { c.highlight(id, greeting) }
		}
		if farewell := p.Farewell; farewell != "" {
			rule.OnPart = func(id state.Identity) { c.highlight(id, farewell) }
		}
		rules = append(rules, rule)
	}
	return rules
}

// Connect dials the configured server
func (c *Client) Connect(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.cfg.Address(), err)
	}
	c.Attach(conn)
	return nil
}

// Attach uses an established transport for the session
func (c *Client) Attach(conn io.ReadWriteCloser) {
	c.conn = conn
	c.framer = NewFramer(conn)
	c.classifier.SetNick(c.cfg.Nick)
	c.status = Connecting
}

// Run registers with the server and processes inbound lines until the
// stream ends, a transport error occurs or ctx is cancelled. A cancelled
// context is an orderly shutdown and returns nil.
func (c *Client) Run(parent context.Context) error {
	if c.conn == nil {
		return errors.New("not connected")
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	writer := NewWriter(c.conn, c.limiter, c.log)
	c.sender = writer

	writeErr := make(chan error, 1)
	go func() {
		err := writer.Run(ctx)
		if err != nil {
			// Unblock the read loop
			c.conn.Close()
		}
		writeErr <- err
	}()

	// Closing the transport is the only way to interrupt a blocked read
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	c.register()

	err := c.readLoop(ctx)
	c.setStatus(Closed)
	cancel()
	werr := <-writeErr

	switch {
	case errors.Is(err, ErrEndOfStream), errors.Is(err, ErrLineTooLong):
		return err
	case parent.Err() != nil:
		return nil
	case werr != nil:
		return werr
	}
	return err
}

func (c *Client) readLoop(ctx context.Context) error {
	for {
		line, err := c.framer.Next()
		if err != nil {
			if errors.Is(err, ErrEndOfStream) || errors.Is(err, ErrLineTooLong) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read failed: %w", err)
		}
		c.Handle(line)
	}
}

// register sends the NICK/USER pair
func (c *Client) register() {
	if c.cfg.ServerPass != "" {
		c.sender.SendRaw("PASS " + c.cfg.ServerPass)
	}
	c.sender.SendRaw("NICK " + c.cfg.Nick)
	c.sender.SendRaw(fmt.Sprintf("USER %s 0 * :%s", c.cfg.Username, c.cfg.IRCName))
	c.setStatus(Registered)
}

// Handle processes one inbound line
func (c *Client) Handle(line string) {
	ev, ok := c.classifier.Classify(line)
	if !ok {
		c.log.Trace().Str("line", line).Msg("ignored")
		return
	}
	c.log.Debug().Str("kind", ev.Kind.String()).Str("line", line).Msg("<-")

	switch ev.Kind {
	case KindPing:
		c.onPing(ev)
	case KindSelfMode:
		c.onSelfMode()
	case KindPrivmsg:
		c.onPrivmsg(ev)
	case KindJoin:
		c.onJoin(ev)
	case KindPart:
		c.onPart(ev.Actor)
	case KindKick:
		c.onKick(ev)
	case KindNick:
		c.onNick(ev.Subject)
	case KindNickInUse:
		c.onNickInUse(ev.Subject)
	}
}

// Status returns the session's lifecycle state
func (c *Client) Status() Status {
	return c.status
}

// State exposes the session registries
func (c *Client) State() *state.State {
	return c.state
}

func (c *Client) setStatus(s Status) {
	if c.status == s {
		return
	}
	c.log.Info().Str("from", c.status.String()).Str("to", s.String()).Msg("session state")
	c.status = s
}

// joinChannel asks to join the configured channel unless already there
func (c *Client) joinChannel() {
	switch c.status {
	case Joined, Closed:
		return
	case Connecting, Registered:
		c.setStatus(AwaitingJoin)
	}
	c.sender.SendRaw("JOIN " + c.channel)
}

// Kick removes id from its channel
func (c *Client) Kick(id state.Identity, reason string) {
	if reason != "" {
		c.sender.SendRaw(fmt.Sprintf("KICK %s %s :%s", id.Channel, id.Nick, reason))
	} else {
		c.sender.SendRaw(fmt.Sprintf("KICK %s %s", id.Channel, id.Nick))
	}
}

// Mode sets a channel user mode such as +o on id
func (c *Client) Mode(id state.Identity, level string) {
	c.sender.SendRaw(fmt.Sprintf("MODE %s %s %s", id.Channel, level, id.Nick))
}

// Say sends a chat message
func (c *Client) Say(target, message string) {
	c.sender.Privmsg(target, message)
}

func (c *Client) highlight(id state.Identity, message string) {
	c.Say(id.Channel, fmt.Sprintf("%s: %s", id.Nick, message))
}

func (c *Client) topic(channel, text string) {
	if text == "" {
		return
	}
	c.sender.SendRaw(fmt.Sprintf("TOPIC %s :%s", channel, text))
}

func (c *Client) logCommand(id state.Identity, command string) {
	c.log.Info().Str("nick", id.Nick).Str("ident", id.Ident).Str("channel", id.Channel).Str("command", command).Msg("operator command")
	if c.audit == nil {
		return
	}
	if err := c.audit.Record(id.Nick+"!"+id.Ident, command); err != nil {
		c.log.Error().Err(err).Msg("error saving audit log")
	}
}

func (c *Client) isSelf(nick string) bool {
	return c.classifier.IsSelf(nick)
}

func (c *Client) isChannel(channel string) bool {
	return strings.EqualFold(channel, c.channel)
}
