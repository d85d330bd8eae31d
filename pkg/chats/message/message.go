// Package message defines the Message type, one turn of a task solver
// conversation.
package message

import (
	"strings"

	"github.com/germanamz/tasksolver/pkg/chats/content"
	"github.com/germanamz/tasksolver/pkg/chats/role"
)

// Message is a single turn authored by the user or the model.
// It is a value type; treat it as immutable once appended to a chat.
type Message struct {
	Role  role.Role
	Parts []content.Part
}

// New creates a turn with one Text part followed by one Image part per image,
// in the given order.
func New(r role.Role, text string, images ...string) Message {
	parts := make([]content.Part, 0, 1+len(images))
	parts = append(parts, content.Text{Text: text})
	for _, img := range images {
		parts = append(parts, content.Image{URI: img})
	}

	return Message{Role: r, Parts: parts}
}

// FromParts creates a turn from arbitrary parts.
func FromParts(r role.Role, parts ...content.Part) Message {
	return Message{Role: r, Parts: parts}
}

// Text concatenates the text of all Text parts in the message.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if t, ok := p.(content.Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// Images returns the image references of the message in order.
func (m Message) Images() []string {
	var out []string
	for _, p := range m.Parts {
		if img, ok := p.(content.Image); ok {
			out = append(out, img.URI)
		}
	}
	return out
}

// HasImages reports whether the message carries at least one image.
func (m Message) HasImages() bool {
	for _, p := range m.Parts {
		if _, ok := p.(content.Image); ok {
			return true
		}
	}
	return false
}
