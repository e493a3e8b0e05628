package console

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	dekbox "github.com/dekbox/console-go"
)

// Recipient is one entry in the session's multi-recipient list. Private key
// material is held in plaintext: the console is a demonstration tool and the
// keys exist only to be handed back to the browser.
type Recipient struct {
	RID     string        `json:"rid"`
	Scheme  dekbox.Scheme `json:"scheme"`
	Pub     string        `json:"pub"`
	Priv    string        `json:"priv,omitempty"`
	Label   string        `json:"label,omitempty"`
	Created time.Time     `json:"created"`
}

// autoRequest is a pending debounced decrypt.
type autoRequest struct {
	token  uint64
	bundle []byte
	rid    string
}

// AutoResult is the outcome of a completed auto-run decrypt. Token identifies
// which invocation produced it so the UI can ignore answers to questions it
// no longer asks.
type AutoResult struct {
	Token     uint64 `json:"token"`
	Plaintext string `json:"plaintext,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Session holds the console's in-memory state: the recipient list and the
// auto-run decrypt machinery. A single session serves the whole process.
//
// Auto-run discipline: every schedule call advances an atomic run token and
// resets a shared timer, so only the last request within the debounce window
// actually runs. When the decrypt finishes, its result is kept only if no
// newer request has been scheduled in the meantime.
type Session struct {
	mu         sync.Mutex
	recipients []Recipient

	debounce time.Duration
	timer    *time.Timer
	pending  *autoRequest
	result   *AutoResult

	runSeq atomic.Uint64
}

// NewSession creates an empty session with the given auto-run debounce delay.
func NewSession(debounce time.Duration) *Session {
	return &Session{debounce: debounce}
}

// AddRecipient generates or imports a recipient. When pub is empty a fresh
// keypair for the scheme is generated; otherwise the given key material is
// imported as-is. When rid is empty a random UUID is assigned.
func (s *Session) AddRecipient(scheme dekbox.Scheme, rid, pub, priv, label string) (*Recipient, error) {
	if !scheme.Known() {
		return nil, fmt.Errorf("%w: %q", dekbox.ErrUnknownScheme, scheme)
	}

	if pub == "" {
		var err error
		switch scheme {
		case dekbox.SchemeSecp256k1:
			priv, pub, err = dekbox.GenerateRecipientSecp256k1()
		case dekbox.SchemeMLKEM768:
			priv, pub, err = dekbox.GenerateRecipientMLKEM768()
		}
		if err != nil {
			return nil, err
		}
	}

	if rid == "" {
		rid = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.recipients {
		if r.RID == rid {
			return nil, fmt.Errorf("recipient %q already exists", rid)
		}
	}

	r := Recipient{
		RID:     rid,
		Scheme:  scheme,
		Pub:     pub,
		Priv:    priv,
		Label:   label,
		Created: time.Now().UTC(),
	}
	s.recipients = append(s.recipients, r)

	return &r, nil
}

// Recipients returns a snapshot of the recipient list.
func (s *Session) Recipients() []Recipient {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Recipient, len(s.recipients))
	copy(out, s.recipients)
	return out
}

// RemoveRecipient deletes a recipient by rid. It reports whether the rid was
// present.
func (s *Session) RemoveRecipient(rid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.recipients {
		if r.RID == rid {
			s.recipients = append(s.recipients[:i], s.recipients[i+1:]...)
			return true
		}
	}
	return false
}

// ScheduleDecrypt registers a debounced decrypt of the given bundle for rid
// and returns the run token assigned to it. A later call within the debounce
// window supersedes this one; the superseded run never executes.
func (s *Session) ScheduleDecrypt(bundle []byte, rid string) uint64 {
	token := s.runSeq.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &autoRequest{token: token, bundle: bundle, rid: rid}

	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.runPending)
	} else {
		s.timer.Reset(s.debounce)
	}

	return token
}

// runPending executes the pending decrypt. The decrypt itself runs unlocked;
// the result is stored only if its token is still the newest one issued.
func (s *Session) runPending() {
	s.mu.Lock()
	req := s.pending
	s.pending = nil
	s.mu.Unlock()

	if req == nil {
		return
	}

	result := &AutoResult{Token: req.token}

	b, err := dekbox.ParseBundle(req.bundle)
	if err == nil {
		result.Plaintext, err = b.Decrypt(req.rid)
	}
	if err != nil {
		result.Plaintext = ""
		result.Error = err.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer run was scheduled while this one executed: its answer is
	// stale, drop it.
	if req.token != s.runSeq.Load() {
		return
	}
	s.result = result
}

// Result returns the latest completed auto-run result, if any.
func (s *Session) Result() (*AutoResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return nil, false
	}
	r := *s.result
	return &r, true
}

// LatestToken returns the most recently issued run token. Zero means no run
// was ever scheduled.
func (s *Session) LatestToken() uint64 {
	return s.runSeq.Load()
}
