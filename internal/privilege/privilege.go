// Package privilege decides which users the bot treats as channel operators.
package privilege

import (
	"strings"

	"github.com/lightbot/lightbot/internal/state"
)

// OperatorMarker is the capability letter that grants operator commands
const OperatorMarker = "o"

// Hook runs when a configured user joins or parts
type Hook func(id state.Identity)

// Rule is one static privilege entry
type Rule struct {
	Nick       string
	Ident      string // optional; must be a substring of the user's ident
	Capability string // e.g. "+o" or "+v"
	OnJoin     Hook
	OnPart     Hook
}

// Operator reports whether the rule's capability carries the operator marker
func (r Rule) Operator() bool {
	return strings.Contains(r.Capability, OperatorMarker)
}

// Engine evaluates identities against a fixed rule table
type Engine struct {
	rules []Rule
}

// NewEngine copies rules into an immutable engine
func NewEngine(rules []Rule) *Engine {
	table := make([]Rule, len(rules))
	copy(table, rules)
	return &Engine{rules: table}
}

// Match returns the first rule for id's nick whose ident constraint, if
// any, is a substring of id.Ident
func (e *Engine) Match(id state.Identity) (Rule, bool) {
	for _, r := range e.rules {
		if r.Nick != id.Nick {
			continue
		}
		if r.Ident != "" && !strings.Contains(id.Ident, r.Ident) {
			continue
		}
		return r, true
	}
	return Rule{}, false
}

// IsPrivileged reports whether the matching rule grants operator status
func (e *Engine) IsPrivileged(id state.Identity) bool {
	r, ok := e.Match(id)
	return ok && r.Operator()
}
