package assembler

import (
	"slices"

	"github.com/germanamz/tasksolver/pkg/chats/chat"
	"github.com/germanamz/tasksolver/pkg/chats/message"
	"github.com/germanamz/tasksolver/pkg/chats/role"
)

// DefaultLanguageDirective is appended to every outgoing task text and asks
// the model to answer in Russian.
const DefaultLanguageDirective = "(Отвечай на русском языке)"

// Request is everything needed to submit one new user turn.
type Request struct {
	History       []ProviderMessage // Prior turns in provider format.
	NewTurn       ProviderMessage   // The new turn under the same mapping rule.
	AugmentedText string            // New text with the directive appended.
	Images        []string          // New image references, in order.
	Turn          message.Message   // The new turn as it is appended on success.
}

// Payload returns the relay request body for r.
func (r Request) Payload(userID string) SolveTaskRequest {
	return SolveTaskRequest{
		UserID:       userID,
		Task:         r.AugmentedText,
		ImagesBase64: r.Images,
		Messages:     r.History,
	}
}

// Assembler builds requests. The zero value appends no directive; use New
// for the default one.
type Assembler struct {
	directive string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithDirective replaces the language directive. An empty directive leaves
// the task text untouched.
func WithDirective(d string) Option {
	return func(a *Assembler) { a.directive = d }
}

// New creates an Assembler with DefaultLanguageDirective unless overridden.
func New(opts ...Option) *Assembler {
	a := &Assembler{directive: DefaultLanguageDirective}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Directive returns the configured directive.
func (a *Assembler) Directive() string { return a.directive }

// Augment appends the directive to text.
func (a *Assembler) Augment(text string) string {
	if a.directive == "" {
		return text
	}
	return text + " " + a.directive
}

// BuildRequest assembles the request for a new user turn on top of c. It
// does not modify c.
func (a *Assembler) BuildRequest(c *chat.Chat, text string, images []string) Request {
	images = slices.Clone(images)
	turn := message.New(role.User, text, images...)

	return Request{
		History:       BuildHistoryPayload(c),
		NewTurn:       ToProviderMessage(turn),
		AugmentedText: a.Augment(text),
		Images:        images,
		Turn:          turn,
	}
}

// BuildRequest assembles a request with the default directive.
func BuildRequest(c *chat.Chat, text string, images []string) Request {
	return New().BuildRequest(c, text, images)
}
