// Package role defines the sender roles used in task solver conversations.
package role

// Role represents the author of a turn.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case System, User, Assistant:
		return true
	}
	return false
}

// Conversational reports whether r may appear in a conversation history.
// System instructions are owned by the relay and never travel with the history.
func (r Role) Conversational() bool {
	return r == User || r == Assistant
}

// String returns the underlying string value of the role.
func (r Role) String() string {
	return string(r)
}
