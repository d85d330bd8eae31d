package assembler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/tasksolver/pkg/chats/chat"
	"github.com/germanamz/tasksolver/pkg/chats/message"
	"github.com/germanamz/tasksolver/pkg/chats/role"
)

// DefaultImageMIME is assumed for image references that are bare base64.
const DefaultImageMIME = "image/jpeg"

// Content part types in the chat-completion wire format.
const (
	PartTypeText  = "text"
	PartTypeImage = "image_url"
)

// ImageURL wraps the data URI of an image part.
type ImageURL struct {
	URL string `json:"url"`
}

// ContentPart is one element of an array-valued message content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// MarshalJSON always emits "text" on text parts, even when empty.
func (p ContentPart) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case PartTypeText:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{p.Type, p.Text})
	case PartTypeImage:
		url := ImageURL{}
		if p.ImageURL != nil {
			url = *p.ImageURL
		}
		return json.Marshal(struct {
			Type     string   `json:"type"`
			ImageURL ImageURL `json:"image_url"`
		}{p.Type, url})
	}
	return nil, fmt.Errorf("assembler: unknown content part type %q", p.Type)
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartTypeText, Text: text}
}

// ImagePart builds an image content part from an image reference.
func ImagePart(ref string) ContentPart {
	return ContentPart{Type: PartTypeImage, ImageURL: &ImageURL{URL: ImageDataURI(ref)}}
}

// ProviderMessage is one message in chat-completion format. Its content is a
// plain string when Parts is nil and an array of parts otherwise.
type ProviderMessage struct {
	Role  role.Role
	Text  string
	Parts []ContentPart
}

// Multipart reports whether the content is array-valued.
func (m ProviderMessage) Multipart() bool { return m.Parts != nil }

type providerMessageJSON struct {
	Role    role.Role       `json:"role"`
	Content json.RawMessage `json:"content"`
}

func (m ProviderMessage) MarshalJSON() ([]byte, error) {
	var (
		content []byte
		err     error
	)
	if m.Parts != nil {
		content, err = json.Marshal(m.Parts)
	} else {
		content, err = json.Marshal(m.Text)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(providerMessageJSON{Role: m.Role, Content: content})
}

var errContentShape = errors.New("assembler: content must be a string or an array of parts")

func (m *ProviderMessage) UnmarshalJSON(data []byte) error {
	var raw providerMessageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = ProviderMessage{Role: raw.Role}

	content := bytes.TrimSpace(raw.Content)
	switch {
	case len(content) == 0, bytes.Equal(content, []byte("null")):
		return nil
	case content[0] == '"':
		return json.Unmarshal(content, &m.Text)
	case content[0] == '[':
		m.Parts = []ContentPart{}
		return json.Unmarshal(content, &m.Parts)
	}
	return errContentShape
}

// Validate checks the role and the part types.
func (m ProviderMessage) Validate() error {
	if !m.Role.Conversational() {
		return fmt.Errorf("assembler: role %q not allowed in history", m.Role)
	}
	for i, p := range m.Parts {
		switch p.Type {
		case PartTypeText:
			if strings.TrimSpace(p.Text) == "" {
				return fmt.Errorf("assembler: part %d: text is required", i)
			}
		case PartTypeImage:
			if p.ImageURL == nil || p.ImageURL.URL == "" {
				return fmt.Errorf("assembler: part %d: image_url.url is required", i)
			}
		default:
			return fmt.Errorf("assembler: part %d: unknown type %q", i, p.Type)
		}
	}
	return nil
}

// ImageDataURI returns ref unchanged when it already is a data URI and wraps
// it with the default MIME prefix otherwise.
func ImageDataURI(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return ref
	}
	return "data:" + DefaultImageMIME + ";base64," + ref
}

// ToProviderMessage maps a turn: text-only turns get string content, turns
// with N images get N+1 parts with the text first.
func ToProviderMessage(m message.Message) ProviderMessage {
	images := m.Images()
	if len(images) == 0 {
		return ProviderMessage{Role: m.Role, Text: m.Text()}
	}

	parts := make([]ContentPart, 0, 1+len(images))
	parts = append(parts, TextPart(m.Text()))
	for _, img := range images {
		parts = append(parts, ImagePart(img))
	}
	return ProviderMessage{Role: m.Role, Parts: parts}
}

// BuildHistoryPayload maps every conversational turn of c, in order. A nil
// chat yields an empty history.
func BuildHistoryPayload(c *chat.Chat) []ProviderMessage {
	if c == nil {
		return []ProviderMessage{}
	}
	out := make([]ProviderMessage, 0, c.Len())
	c.Each(func(_ int, m message.Message) bool {
		if m.Role.Conversational() {
			out = append(out, ToProviderMessage(m))
		}
		return true
	})
	return out
}

// SolveTaskRequest is the JSON body of POST /solve-task.
type SolveTaskRequest struct {
	UserID       string            `json:"userId,omitempty"`
	Task         string            `json:"task,omitempty"`
	ImageBase64  string            `json:"imageBase64,omitempty"` // Legacy single image.
	ImagesBase64 []string          `json:"imagesBase64,omitempty"`
	Messages     []ProviderMessage `json:"messages,omitempty"`
}

// Images returns the legacy image (if any) followed by ImagesBase64.
func (r SolveTaskRequest) Images() []string {
	out := make([]string, 0, 1+len(r.ImagesBase64))
	if r.ImageBase64 != "" {
		out = append(out, r.ImageBase64)
	}
	return append(out, r.ImagesBase64...)
}
