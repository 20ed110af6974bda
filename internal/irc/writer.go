package irc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lightbot/lightbot/internal/flood"
)

// Sender is the outbound side of a session
type Sender interface {
	// SendRaw queues a protocol line. It is never throttled.
	SendRaw(line string)
	// Privmsg queues a chat message subject to flood control.
	Privmsg(target, message string)
}

// lineCleaner strips characters that would end a line early
var lineCleaner = strings.NewReplacer("\r", "", "\n", " ", "\x00", "")

const (
	controlQueueSize = 64
	chatQueueSize    = 256
	// maxChatBacklog caps chat held back by a flood pause
	maxChatBacklog = 1024
)

// offline is the sender of a session with no transport yet
type offline struct {
	log zerolog.Logger
}

func (o offline) SendRaw(line string) {
	o.log.Warn().Str("line", line).Msg("not connected, dropping line")
}

func (o offline) Privmsg(target, message string) {
	o.log.Warn().Str("target", target).Str("message", message).Msg("not connected, dropping message")
}

// Writer serialises outbound lines onto a transport. Chat goes through
// the flood limiter; control lines skip the queue so PONG still leaves
// while chat is paused. Queueing chat never blocks: the writer keeps
// paused chat in its own backlog and drops what does not fit.
type Writer struct {
	w       io.Writer
	limiter *flood.Limiter
	log     zerolog.Logger

	control chan string
	chat    chan string
	done    chan struct{}
}

// NewWriter creates a writer; call Run to start draining it
func NewWriter(w io.Writer, limiter *flood.Limiter, log zerolog.Logger) *Writer {
	return &Writer{
		w:       w,
		limiter: limiter,
		log:     log,
		control: make(chan string, controlQueueSize),
		chat:    make(chan string, chatQueueSize),
		done:    make(chan struct{}),
	}
}

func (w *Writer) SendRaw(line string) {
	w.enqueue(w.control, line)
}

func (w *Writer) Privmsg(target, message string) {
	line := lineCleaner.Replace(fmt.Sprintf("PRIVMSG %s :%s", target, message))
	select {
	case w.chat <- line:
	case <-w.done:
	default:
		w.log.Warn().Str("target", target).Msg("chat queue full, dropping message")
	}
}

func (w *Writer) enqueue(queue chan string, line string) {
	select {
	case queue <- lineCleaner.Replace(line):
	case <-w.done:
	}
}

// Run writes queued lines until ctx is cancelled or a write fails.
// Anything still queued at that point is dropped.
func (w *Writer) Run(ctx context.Context) error {
	defer close(w.done)

	var (
		resume  <-chan time.Time
		backlog []string
	)
	for {
		// Control lines first
		select {
		case line := <-w.control:
			if err := w.write(line); err != nil {
				return err
			}
			continue
		default:
		}

		if resume == nil && len(backlog) > 0 {
			line := backlog[0]
			backlog = backlog[1:]
			if err := w.write(line); err != nil {
				return err
			}
			if d := w.limiter.Sent(); d > 0 {
				w.log.Debug().Dur("pause", d).Int("trips", w.limiter.Trips()).Int("held", len(backlog)).Msg("flood pause")
				resume = time.After(d)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case line := <-w.control:
			if err := w.write(line); err != nil {
				return err
			}
		case <-resume:
			resume = nil
		case line := <-w.chat:
			if len(backlog) >= maxChatBacklog {
				w.log.Warn().Int("held", len(backlog)).Msg("chat backlog full, dropping message")
				continue
			}
			backlog = append(backlog, line)
		}
	}
}

func (w *Writer) write(line string) error {
	w.log.Debug().Str("line", line).Msg("->")
	if _, err := io.WriteString(w.w, line+"\r\n"); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}
