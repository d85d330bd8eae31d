package assembler

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/germanamz/tasksolver/pkg/chats/chat"
	"github.com/germanamz/tasksolver/pkg/chats/message"
	"github.com/rs/zerolog"
)

// ErrBusy is returned by Send while another submission is in flight.
var ErrBusy = errors.New("assembler: a submission is already in flight")

// State is the submission lifecycle state of a Session.
type State int

const (
	Idle State = iota
	Sending
)

func (s State) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

// Session owns one conversation and serializes submissions on it.
type Session struct {
	mu    sync.Mutex
	conv  *chat.Chat
	asm   *Assembler
	sub   *Submitter
	state State
	gen   uint64 // Bumped by Reset; stale replies are dropped.
	log   zerolog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAssembler sets the request assembler.
func WithAssembler(a *Assembler) SessionOption {
	return func(s *Session) { s.asm = a }
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// NewSession creates an idle session with an empty conversation.
func NewSession(sub *Submitter, opts ...SessionOption) *Session {
	s := &Session{
		conv: chat.New(),
		asm:  New(),
		sub:  sub,
		log:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State reports whether a submission is in flight.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

// Len returns the number of turns in the conversation.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Len()
}

// Reset starts a new task. A reply still in flight is discarded when it
// arrives.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Reset()
	s.gen++
}

// Send submits a new user turn with the whole conversation as history. On
// success both the user turn and the assistant reply are appended and the
// reply is returned. On failure nothing is appended and a *SubmitError is
// returned.
func (s *Session) Send(ctx context.Context, text string, images ...string) (message.Message, error) {
	if strings.TrimSpace(text) == "" {
		return message.Message{}, &SubmitError{Kind: KindValidation, Message: MsgTextRequired}
	}

	s.mu.Lock()
	if s.state == Sending {
		s.mu.Unlock()
		return message.Message{}, ErrBusy
	}
	req := s.asm.BuildRequest(s.conv, text, images)
	gen := s.gen
	s.state = Sending
	s.mu.Unlock()

	s.log.Debug().
		Int("history", len(req.History)).
		Int("images", len(req.Images)).
		Msg("submitting task")

	reply, err := s.sub.Submit(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Idle

	if err != nil {
		se := Classify(err)
		ev := s.log.Warn()
		if se.Kind == KindTransport {
			ev = s.log.Error()
		}
		ev.Err(se.Err).
			Stringer("kind", se.Kind).
			Int("status", se.Status).
			Msg("submission failed")
		return message.Message{}, se
	}

	if gen != s.gen {
		s.log.Debug().Msg("dropping reply for a reset conversation")
		return reply, nil
	}

	s.conv.Append(req.Turn, reply)
	return reply, nil
}
