// Package content defines the content parts a turn is made of.
package content

// Part is a piece of content within a turn. The set of parts is closed: a turn
// carries text and images only.
type Part interface {
	PartKind() string
	isPart()
}

// Text is a plain text content part.
type Text struct {
	Text string
}

func (t Text) PartKind() string { return "text" }
func (Text) isPart()            {}

// Image is an image content part. URI is either a data URI
// ("data:image/png;base64,...") or raw base64 image bytes.
type Image struct {
	URI string
}

func (i Image) PartKind() string { return "image" }
func (Image) isPart()            {}
