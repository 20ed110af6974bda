package irc

import (
	"testing"

	"github.com/lightbot/lightbot/internal/state"
)

func TestClassify(t *testing.T) {
	c := NewClassifier("CrappyBot")

	tests := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "ping",
			line: "PING :abc123",
			want: Event{Kind: KindPing, Payload: "abc123"},
		},
		{
			name: "channel message",
			line: ":Admin!user@host PRIVMSG #test :!ban Eve flooding",
			want: Event{
				Kind:    KindPrivmsg,
				Actor:   state.Identity{Nick: "Admin", Ident: "user@host", Channel: "#test"},
				Payload: "!ban Eve flooding",
			},
		},
		{
			name: "private message uses sender as channel",
			line: ":Bob!~bob@example.org PRIVMSG CrappyBot :!help",
			want: Event{
				Kind:    KindPrivmsg,
				Actor:   state.Identity{Nick: "Bob", Ident: "bob@example.org", Channel: "Bob"},
				Payload: "!help",
			},
		},
		{
			name: "join without colon",
			line: ":Eve!~eve@host JOIN #test",
			want: Event{Kind: KindJoin, Actor: state.Identity{Nick: "Eve", Ident: "eve@host", Channel: "#test"}},
		},
		{
			name: "join with trailing channel",
			line: ":Eve!eve@host JOIN :#test",
			want: Event{Kind: KindJoin, Actor: state.Identity{Nick: "Eve", Ident: "eve@host", Channel: "#test"}},
		},
		{
			name: "part with reason",
			line: ":Eve!eve@host PART #test :bye all",
			want: Event{Kind: KindPart, Actor: state.Identity{Nick: "Eve", Ident: "eve@host", Channel: "#test"}, Payload: "bye all"},
		},
		{
			name: "kick",
			line: ":Admin!user@host KICK #test Eve :flooding",
			want: Event{
				Kind:    KindKick,
				Actor:   state.Identity{Nick: "Admin", Ident: "user@host", Channel: "#test"},
				Subject: "Eve",
				Payload: "flooding",
			},
		},
		{
			name: "ident without host",
			line: ":Eve!eve JOIN #test",
			want: Event{Kind: KindJoin, Actor: state.Identity{Nick: "Eve", Ident: "eve", Channel: "#test"}},
		},
		{
			name: "self mode acknowledgement",
			line: ":CrappyBot MODE CrappyBot :+i",
			want: Event{Kind: KindSelfMode},
		},
		{
			name: "own rename",
			line: ":CrappyBot!bot@host NICK :CrappyBot2",
			want: Event{Kind: KindNick, Subject: "CrappyBot2"},
		},
		{
			name: "nick in use",
			line: ":server.example.net 433 * CrappyBot :Nickname is already in use",
			want: Event{Kind: KindNickInUse, Subject: "CrappyBot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(tt.line)
			if !ok {
				t.Fatalf("Classify(%q) rejected the line", tt.line)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	c := NewClassifier("CrappyBot")

	lines := []string{
		"",
		"PING",
		":Admin PRIVMSG #test :no ident",
		":Admin!user@host PRIVMSG #test",
		":Admin!user@host JOIN",
		":Admin!user@host KICK #test",
		":server.example.net 001 CrappyBot :Welcome",
		":server.example.net NOTICE * :*** Looking up your hostname",
		":Other MODE Other :+i",
		":CrappyBot MODE #test +o Admin",
		":Bob!bob@host NICK :Robert",
		":server.example.net 433 *",
	}

	for _, line := range lines {
		if ev, ok := c.Classify(line); ok {
			t.Errorf("Classify(%q) = %+v, expected rejection", line, ev)
		}
	}
}

func TestClassifierNickChange(t *testing.T) {
	c := NewClassifier("CrappyBot")
	c.SetNick("OtherBot")

	if c.Nick() != "OtherBot" {
		t.Errorf("Expected OtherBot, got %q", c.Nick())
	}
	ev, ok := c.Classify(":Bob!bob@host PRIVMSG otherbot :hi")
	if !ok || ev.Actor.Channel != "Bob" {
		t.Errorf("Private detection should follow the new nick case-insensitively, got %+v", ev)
	}
}

func TestKindString(t *testing.T) {
	if KindKick.String() != "kick" || Kind(42).String() != "unknown" {
		t.Errorf("Unexpected kind names %q %q", KindKick, Kind(42))
	}
}
