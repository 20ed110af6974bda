package irc

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

// readAll drains f and returns its lines and the error that stopped it
func readAll(f *Framer) ([]string, error) {
	var lines []string
	for {
		line, err := f.Next()
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

func TestFramerCompleteLines(t *testing.T) {
	f := NewFramer(strings.NewReader("PING :abc\r\n:a!b JOIN #c\r\n"))
	got, err := readAll(f)
	want := []string{"PING :abc", ":a!b JOIN #c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrEndOfStream) {
		t.Errorf("Expected ErrEndOfStream, got %v", err)
	}
}

func TestFramerJoinsFragments(t *testing.T) {
	// One byte per read splits every line, including the CRLF pair
	f := NewFramer(iotest.OneByteReader(strings.NewReader("PING :abc\r\nPONG :x\n")))
	got, err := readAll(f)
	want := []string{"PING :abc", "PONG :x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrEndOfStream) {
		t.Errorf("Expected ErrEndOfStream, got %v", err)
	}
}

func TestFramerSkipsEmptyLines(t *testing.T) {
	f := NewFramer(strings.NewReader("\r\n\r\nPING :x\n\r\n"))
	got, _ := readAll(f)
	if !reflect.DeepEqual(got, []string{"PING :x"}) {
		t.Errorf("Lines = %q", got)
	}
}

func TestFramerGrowsForLongLines(t *testing.T) {
	long := "PRIVMSG #c :" + strings.Repeat("a", 4*initialLineBuffer)
	f := NewFramer(strings.NewReader(long + "\r\n"))
	line, err := f.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if line != long {
		t.Errorf("Long line mangled: got %d bytes, want %d", len(line), len(long))
	}
}

func TestFramerRejectsUnterminatedFlood(t *testing.T) {
	f := NewFramer(strings.NewReader(strings.Repeat("x", 2*MaxLineLength)))
	if _, err := f.Next(); !errors.Is(err, ErrLineTooLong) {
		t.Errorf("Expected ErrLineTooLong, got %v", err)
	}
}

func TestFramerEmptyStream(t *testing.T) {
	f := NewFramer(strings.NewReader(""))
	if _, err := f.Next(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("Expected ErrEndOfStream, got %v", err)
	}
}
