package irc

import (
	"testing"

	"github.com/lightbot/lightbot/internal/state"
)

type allowNicks map[string]bool

func (a allowNicks) IsPrivileged(id state.Identity) bool {
	return a[id.Nick]
}

func TestDispatchFirstMatchOnly(t *testing.T) {
	calls := map[string][]string{}
	record := func(name string) Handler {
		return func(id state.Identity, args string) {
			calls[name] = append(calls[name], args)
		}
	}

	d := NewDispatcher(allowNicks{}, []Command{
		{Trigger: "!help", Handler: record("help")},
		{Trigger: "!test", Handler: record("test")},
		{Trigger: "!te", Handler: record("te")},
	})

	id := state.Identity{Nick: "Bob", Ident: "bob@host", Channel: "#test"}
	if !d.Dispatch(id, "!test") {
		t.Fatal("Expected !test to match")
	}
	if len(calls) != 1 || len(calls["test"]) != 1 {
		t.Errorf("Expected only the !test handler, got %v", calls)
	}
	if calls["test"][0] != "" {
		t.Errorf("Exact trigger should give empty args, got %q", calls["test"][0])
	}

	d.Dispatch(id, "!test one two")
	if got := calls["test"][1]; got != "one two" {
		t.Errorf("Expected args %q, got %q", "one two", got)
	}
}

func TestDispatchUnmatched(t *testing.T) {
	fired := false
	d := NewDispatcher(allowNicks{}, []Command{
		{Trigger: "!help", Handler: func(state.Identity, string) { fired = true }},
	})

	if d.Dispatch(state.Identity{Nick: "Bob"}, "hello there") {
		t.Error("Plain chat should not match")
	}
	if d.Dispatch(state.Identity{Nick: "Bob"}, "please !help") {
		t.Error("Trigger must be a prefix")
	}
	if fired {
		t.Error("Handler should not have run")
	}
}

func TestDispatchPrivileged(t *testing.T) {
	var ran []string
	var audited []string
	d := NewDispatcher(allowNicks{"Admin": true}, []Command{
		{Trigger: "!ban", Privileged: true, Handler: func(id state.Identity, args string) {
			ran = append(ran, id.Nick+" "+args)
		}},
	})
	d.OnPrivileged = func(id state.Identity, command string) {
		audited = append(audited, command)
	}

	if !d.Dispatch(state.Identity{Nick: "Eve"}, "!ban Admin") {
		t.Error("Privileged command still counts as matched")
	}
	d.Dispatch(state.Identity{Nick: "Admin"}, "!ban Eve flooding")

	if len(ran) != 1 || ran[0] != "Admin Eve flooding" {
		t.Errorf("Only Admin's command should run, got %v", ran)
	}
	if len(audited) != 1 || audited[0] != "!ban Eve flooding" {
		t.Errorf("Unexpected audit entries %v", audited)
	}
}

func TestDispatcherTableImmutable(t *testing.T) {
	cmds := []Command{{Trigger: "!a", Handler: func(state.Identity, string) {}}}
	d := NewDispatcher(allowNicks{}, cmds)
	cmds[0].Trigger = "!b"

	if d.Commands()[0].Trigger != "!a" {
		t.Error("Dispatcher should keep its own copy of the table")
	}
}

func TestSplitTarget(t *testing.T) {
	tests := []struct {
		in, nick, reason string
	}{
		{"Eve flooding the channel", "Eve", "flooding the channel"},
		{"Eve", "Eve", ""},
		{"Eve ", "Eve", ""},
		{"", "", ""},
		{"  Eve\tspam", "Eve", "spam"},
	}
	for _, tt := range tests {
		nick, reason := splitTarget(tt.in)
		if nick != tt.nick || reason != tt.reason {
			t.Errorf("splitTarget(%q) = %q, %q; want %q, %q", tt.in, nick, reason, tt.nick, tt.reason)
		}
	}
}
