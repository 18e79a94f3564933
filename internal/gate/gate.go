// Package gate implements the single-credential access check guarding the diagram.
//
// The default verifier compares the submitted password to a fixed plaintext
// value held in source. This is plaintext-in-source credential storage with no
// rate limiting or lockout; it is kept as the existing contract. Configuring a
// bcrypt hash switches to Bcrypt and is the migration path away from it.
package gate

import (
	"sync"
)

// DefaultPassword is the credential the diagram has always been published with.
const DefaultPassword = "Showmethemoney"

// State is the position of a session in the access state machine.
type State int

const (
	// Unverified is the initial state: no credential has been submitted.
	Unverified State = iota
	// Rejected means the last submitted credential did not match.
	Rejected
	// Authenticated is terminal for the session.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unverified:
		return "unverified"
	case Rejected:
		return "rejected"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the per-visitor access state. The zero value is Unverified.
type Session struct {
	mu      sync.Mutex
	state   State
	attempt string // Staged credential; cleared before Submit returns
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Authenticated reports whether the session has passed the gate.
func (s *Session) Authenticated() bool {
	return s.State() == Authenticated
}

// Attempt returns the staged credential. It is empty outside of Submit.
func (s *Session) Attempt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// Gate applies the transition rules. It holds no per-session state.
type Gate struct {
	verifier Verifier
}

// New returns a Gate using v. A nil verifier checks against DefaultPassword.
func New(v Verifier) *Gate {
	if v == nil {
		v = Plaintext{Expected: DefaultPassword}
	}
	return &Gate{verifier: v}
}

// Verifier returns the verifier in use.
func (g *Gate) Verifier() Verifier {
	return g.verifier
}

// Submit feeds a credential to the session and returns the resulting state.
//
//	Unverified    -> Authenticated | Rejected
//	Rejected      -> Authenticated | Rejected
//	Authenticated -> Authenticated (attempt ignored)
//
// The attempt is discarded before Submit returns.
func (g *Gate) Submit(s *Session, attempt string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempt = attempt
	defer func() { s.attempt = "" }()

	if s.state == Authenticated {
		return s.state
	}

	if g.verifier.Verify(s.attempt) {
		s.state = Authenticated
	} else {
		s.state = Rejected
	}
	return s.state
}
