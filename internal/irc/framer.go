package irc

import (
	"errors"
	"io"

	"github.com/ergochat/irc-go/ircreader"
)

const (
	initialLineBuffer = 1024
	// MaxLineLength bounds one inbound line: 512 bytes of message plus
	// the 8191 bytes servers may spend on tags
	MaxLineLength = 512 + 8191
)

// ErrLineTooLong is returned when the server sends more than
// MaxLineLength bytes without a line terminator
var ErrLineTooLong = errors.New("inbound line too long")

// Framer splits a transport's byte stream into protocol lines. A partial
// line is held until the rest of it arrives; lines end in CRLF or a bare
// LF.
type Framer struct {
	reader ircreader.Reader
}

// NewFramer reads lines from r
func NewFramer(r io.Reader) *Framer {
	f := &Framer{}
	f.reader.Initialize(r, initialLineBuffer, MaxLineLength)
	return f
}

// Next returns the next non-empty line without its terminator
func (f *Framer) Next() (string, error) {
	for {
		line, err := f.reader.ReadLine()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return "", ErrEndOfStream
			case errors.Is(err, ircreader.ErrReadQ):
				return "", ErrLineTooLong
			}
			return "", err
		}
		if len(line) > 0 {
			return string(line), nil
		}
	}
}
