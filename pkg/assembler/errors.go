package assembler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/germanamz/tasksolver/pkg/relayclient"
)

// CredentialMissingMarker appears in the relay's error text when no upstream
// API key is configured.
const CredentialMissingMarker = "API key not found"

// CodeCredentialMissing is the structured "code" the relay sends alongside
// the marker text.
const CodeCredentialMissing = "credential_missing"

// MsgTextRequired rejects a turn without text. Images never travel alone.
const MsgTextRequired = "task text is required"

// Kind classifies a failed submission.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindCredentialMissing
	KindUpstream
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCredentialMissing:
		return "credential_missing"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels matched by errors.Is against a *SubmitError of the same kind.
var (
	ErrValidation        = errors.New("assembler: validation failed")
	ErrCredentialMissing = errors.New("assembler: credential missing")
	ErrUpstream          = errors.New("assembler: upstream error")
	ErrTransport         = errors.New("assembler: transport error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindCredentialMissing:
		return ErrCredentialMissing
	case KindUpstream:
		return ErrUpstream
	case KindTransport:
		return ErrTransport
	}
	return nil
}

// SubmitError is returned by Submit and Session.Send on any failure.
type SubmitError struct {
	Kind    Kind
	Status  int    // HTTP status; zero for transport failures.
	Message string // Relay error text, or the underlying error text.
	Err     error  // Underlying error, if any.
}

func (e *SubmitError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("assembler: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("assembler: %s: %s", e.Kind, e.Message)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Is matches the sentinel of e's kind.
func (e *SubmitError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Notice is the text to show a user. Transport details are replaced by a
// generic notice.
func (e *SubmitError) Notice() string {
	switch e.Kind {
	case KindTransport:
		return "Could not reach the solver. Check your connection and try again."
	case KindCredentialMissing:
		return "The OpenRouter API key is not configured."
	}
	return e.Message
}

// IsCredentialMissing reports whether an error text carries the marker.
func IsCredentialMissing(text string) bool {
	return strings.Contains(text, CredentialMissingMarker)
}

// Classify maps a relay client error to a *SubmitError. Credential-missing
// is decided solely by the marker in the error text.
func Classify(err error) *SubmitError {
	if err == nil {
		return nil
	}

	var se *SubmitError
	if errors.As(err, &se) {
		return se
	}

	var status *relayclient.StatusError
	if !errors.As(err, &status) {
		return &SubmitError{Kind: KindTransport, Message: err.Error(), Err: err}
	}

	out := &SubmitError{Status: status.Status, Message: status.Message, Err: err}
	switch {
	case IsCredentialMissing(status.Message):
		out.Kind = KindCredentialMissing
	case status.Status == http.StatusBadRequest:
		out.Kind = KindValidation
	default:
		out.Kind = KindUpstream
	}
	return out
}
