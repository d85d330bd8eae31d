package assembler

import (
	"context"

	"github.com/germanamz/tasksolver/pkg/chats/message"
	"github.com/germanamz/tasksolver/pkg/chats/role"
)

// Relay solves one task. *relayclient.Client implements it.
type Relay interface {
	SolveTask(ctx context.Context, payload any) (string, error)
}

// Submitter sends requests to a Relay.
type Submitter struct {
	Relay  Relay
	UserID string // Opaque id passed through for relay-side logging.
}

// NewSubmitter creates a Submitter.
func NewSubmitter(r Relay, userID string) *Submitter {
	return &Submitter{Relay: r, UserID: userID}
}

// Submit sends req and returns the assistant turn holding the solution.
// Failures are returned as *SubmitError.
func (s *Submitter) Submit(ctx context.Context, req Request) (message.Message, error) {
	solution, err := s.Relay.SolveTask(ctx, req.Payload(s.UserID))
	if err != nil {
		return message.Message{}, Classify(err)
	}
	return message.New(role.Assistant, solution), nil
}
