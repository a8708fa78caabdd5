// package auth implements the session and authorization gate for playlist
// writes: a signed-in Google identity holding a time-limited bearer token.
// Reads never need the session; writes require a ready one.
package auth

import (
	"sync"

	"golang.org/x/oauth2"

	"github.com/opengrove/sheetset/internal/shared"
)

// State is the session lifecycle state.
type State int

const (
	SignedOut State = iota
	SignedIn
)

func (s State) String() string {
	if s == SignedIn {
		return "signed in"
	}
	return "signed out"
}

// Profile identifies the signed-in user.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session holds the current identity and write credential. A new Session
// starts signed out; SignIn and SignOut transition between the two states.
// Session implements [oauth2.TokenSource] so the write transport can pull the
// bearer token directly, and the playlist writer's gate interface.
type Session struct {
	mu      sync.Mutex
	state   State
	profile Profile
	token   *oauth2.Token
}

// NewSession creates a signed-out session.
func NewSession() *Session {
	return &Session{state: SignedOut}
}

// SignIn stores the identity and bearer token.
func (s *Session) SignIn(profile Profile, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SignedIn
	s.profile = profile
	s.token = token
}

// SignOut discards the identity and token.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SignedOut
	s.profile = Profile{}
	s.token = nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Profile returns the signed-in identity, false when signed out.
func (s *Session) Profile() (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, s.state == SignedIn
}

// IsReady reports whether a non-expired bearer token for the write scope is
// held. This is the hard precondition for any playlist write.
func (s *Session) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == SignedIn && s.token.Valid()
}

// Token implements [oauth2.TokenSource]. It fails with
// [shared.ErrUnauthenticated] when signed out and [shared.ErrAuthExpired]
// when the held token has expired.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SignedIn || s.token == nil {
		return nil, shared.ErrUnauthenticated
	}
	if !s.token.Valid() {
		return nil, shared.ErrAuthExpired
	}
	return s.token, nil
}
